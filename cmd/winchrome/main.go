package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winchrome/internal/chrome"
	"github.com/1broseidon/winchrome/internal/config"
	"github.com/1broseidon/winchrome/internal/daemon"
	"github.com/1broseidon/winchrome/internal/geometry"
	"github.com/1broseidon/winchrome/internal/ipc"
	"github.com/1broseidon/winchrome/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: winchrome daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: winchrome daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "plan":
		os.Exit(runPlan(os.Args[2:]))
	case "replan":
		os.Exit(runReplan(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winchrome <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Manage the active window's chrome (foreground)")
	fmt.Fprintln(w, "  status              Show daemon and window chrome status")
	fmt.Fprintln(w, "  displays            List displays known to the daemon")
	fmt.Fprintln(w, "  plan                Compute the window frame for the current screen")
	fmt.Fprintln(w, "  replan              Ask the daemon to reapply the planned frame")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winchrome <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winchrome status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	if status.Window == nil {
		fmt.Println("window:         none")
		return 0
	}
	fmt.Printf("window:         %s\n", status.Window.WindowID)
	fmt.Printf("state:          %s\n", status.Window.State)
	fmt.Printf("pending:        %v\n", status.Window.PendingReposition)
	fmt.Printf("alive:          %v\n", status.Window.Alive)
	if f := status.Window.Planned; f != nil {
		fmt.Printf("planned:        %dx%d at (%d, %d)\n", f.Width, f.Height, f.X, f.Y)
	}
	return 0
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winchrome displays")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List displays known to the running daemon.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "displays takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetDisplays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, d := range data.Displays {
		fmt.Printf("%d  %-12s %dx%d at (%d, %d)\n", d.ID, d.Name, d.Width, d.Height, d.X, d.Y)
	}
	return 0
}

func runPlan(args []string) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winchrome plan [--ratio R] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Compute the window frame for the current screen without applying it.")
		fmt.Fprintln(os.Stderr, "Works without the daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	ratio := fs.Float64("ratio", 0, "Width ratio in [0.1, 1.0] (default: configured width_ratio)")
	jsonOut := fs.Bool("json", false, "Output the frame as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "plan takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *ratio == 0 {
		*ratio = cfg.WidthRatio
	}

	backend, err := platform.NewBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Close()

	display, err := backend.ActiveDisplay()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	usable := display.Usable
	if usable.Width <= 0 || usable.Height <= 0 {
		usable = display.Bounds
	}
	frame := geometry.Plan(geometry.Screen{
		X:      usable.X,
		Y:      usable.Y,
		Width:  usable.Width,
		Height: usable.Height,
	}, *ratio, geometry.Limits{MaxWidth: cfg.MaxWidth, MaxHeight: cfg.MaxHeight})

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(frame); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	fmt.Printf("display: %s (%dx%d)\n", display.Name, usable.Width, usable.Height)
	fmt.Printf("frame:   %dx%d at (%d, %d)\n", frame.Width, frame.Height, frame.X, frame.Y)
	return 0
}

func runReplan(args []string) int {
	fs := flag.NewFlagSet("replan", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winchrome replan")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running daemon to recompute and reapply the window frame.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "replan takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.Replan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !data.Applied {
		fmt.Fprintln(os.Stderr, "replan not applied (window gone or no display)")
		return 1
	}
	fmt.Printf("applied: %dx%d at (%d, %d)\n", data.Width, data.Height, data.X, data.Y)
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winchrome config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  winchrome config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winchrome/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if *path == "" {
			p, err := config.DefaultConfigPath()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			*path = p
		}

		cfg, err := config.LoadRaw(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		problems := cfg.Validate()
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "warning: %s\n", p)
		}
		if len(problems) > 0 {
			fmt.Printf("config: ok (%d value(s) will be corrected)\n", len(problems))
		} else {
			fmt.Println("config: ok")
		}
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winchrome/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		switch {
		case *printDefaults:
			cfg = config.Default()
		case *path == "":
			cfg, err = config.Load()
		default:
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newDaemonLogger picks the handler by where stderr goes: human-readable
// text on a terminal, JSON when redirected to a file or collector.
func newDaemonLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Logging.Level)}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func controllerOptions(cfg *config.Config, logger *slog.Logger) chrome.Options {
	return chrome.Options{
		WidthRatio:   cfg.WidthRatio,
		Offset:       platform.Offset{X: cfg.ButtonOffset.X, Y: cfg.ButtonOffset.Y},
		CornerRadius: cfg.CornerRadius,
		QuietPeriod:  cfg.QuietPeriod(),
		Limits:       geometry.Limits{MaxWidth: cfg.MaxWidth, MaxHeight: cfg.MaxHeight},
		Logger:       logger,
	}
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newDaemonLogger(cfg)
	logger.Info("winchrome daemon starting",
		"width_ratio", cfg.WidthRatio,
		"button_offset_x", cfg.ButtonOffset.X,
		"button_offset_y", cfg.ButtonOffset.Y,
		"quiet_period_ms", cfg.QuietPeriodMS)

	backend, err := platform.NewBackend()
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	win, err := backend.ActiveWindow()
	if err != nil {
		logger.Error("failed to resolve active window", "error", err)
		os.Exit(1)
	}
	logger.Info("managing window", "window", win.ID())

	controller := chrome.NewController(backend, controllerOptions(cfg, logger))
	managed := controller.Manage(win)

	ipcServer, err := ipc.NewServer(backend, managed, func() (geometry.Frame, bool) {
		return controller.Replan(managed)
	}, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		os.Exit(1)
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		os.Exit(1)
	}
	defer ipcServer.Stop()

	shutdown := func(code int) {
		managed.Shutdown()
		ipcServer.Stop()
		backend.Close()
		os.Exit(code)
	}

	// The reconciler catches windows that vanish without a close
	// notification. Either way the daemon's job is done.
	reconcilerCtx, reconcilerCancel := context.WithCancel(context.Background())
	defer reconcilerCancel()
	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: 10 * time.Second,
		Logger:   logger,
	}, managed, func() {
		logger.Info("managed window gone, shutting down")
		shutdown(0)
	})
	go reconciler.Run(reconcilerCtx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config")
				newCfg, err := config.Load()
				if err != nil {
					logger.Warn("config reload failed", "error", err)
					continue
				}
				controller.UpdateOptions(controllerOptions(newCfg, logger))
				if frame, applied := controller.Replan(managed); applied {
					logger.Info("config reloaded, frame reapplied",
						"width", frame.Width, "height", frame.Height)
				} else {
					logger.Info("config reloaded")
				}
			case os.Interrupt, syscall.SIGTERM:
				logger.Info("shutting down winchrome daemon")
				reconcilerCancel()
				shutdown(0)
			}
		}
	}()

	logger.Info("entering event loop")
	backend.EventLoop()
}
