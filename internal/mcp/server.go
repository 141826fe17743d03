package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winchrome/internal/config"
	"github.com/1broseidon/winchrome/internal/geometry"
	"github.com/1broseidon/winchrome/internal/ipc"
	"github.com/1broseidon/winchrome/internal/platform"
)

const (
	ServerName    = "winchrome"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window-chrome tools over stdio.
//
// plan_geometry works standalone (it opens its own window-system
// connection); apply_chrome and chrome_status talk to the running daemon
// over IPC.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	client    *ipc.Client
}

// NewServer creates the MCP server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "plan_geometry",
		Description: "Compute the window frame winchrome would apply for the current screen: width_ratio of the screen width (clamped to [0.1, 1.0]), 10:16 aspect, bounded by 90% of the screen and the configured maxima, centered. Dry run; nothing is moved.",
	}, s.handlePlanGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_chrome",
		Description: "Ask the running winchrome daemon to recompute and reapply the managed window's frame against the current screen geometry. Requires the daemon.",
	}, s.handleApplyChrome)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "chrome_status",
		Description: "Report the daemon's chrome state for the managed window: stable or transitioning, whether a button reposition is owed, and whether the window is still alive.",
	}, s.handleChromeStatus)
}

// effectiveRatio falls back to the configured width ratio when the caller
// leaves the field unset. Out-of-range values pass through; the planner
// clamps them.
func (s *Server) effectiveRatio(requested float64) float64 {
	if requested == 0 {
		return s.config.WidthRatio
	}
	return requested
}

func (s *Server) handlePlanGeometry(_ context.Context, _ *mcpsdk.CallToolRequest, args PlanGeometryInput) (*mcpsdk.CallToolResult, PlanGeometryOutput, error) {
	ratio := s.effectiveRatio(args.WidthRatio)

	display, err := s.resolveDisplay()
	if err != nil {
		return nil, PlanGeometryOutput{}, err
	}

	screen := geometry.Screen{
		X:      display.Usable.X,
		Y:      display.Usable.Y,
		Width:  display.Usable.Width,
		Height: display.Usable.Height,
	}
	frame := geometry.Plan(screen, ratio, geometry.Limits{
		MaxWidth:  s.config.MaxWidth,
		MaxHeight: s.config.MaxHeight,
	})

	return nil, PlanGeometryOutput{
		DisplayName:   display.Name,
		DisplayWidth:  display.Usable.Width,
		DisplayHeight: display.Usable.Height,
		X:             frame.X,
		Y:             frame.Y,
		Width:         frame.Width,
		Height:        frame.Height,
	}, nil
}

// resolveDisplay prefers the daemon's view of the displays and falls back to
// a fresh window-system connection when no daemon is running.
func (s *Server) resolveDisplay() (platform.Display, error) {
	if data, err := s.client.GetDisplays(); err == nil && len(data.Displays) > 0 {
		d := data.Displays[0]
		rect := platform.Rect{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}
		return platform.Display{ID: d.ID, Name: d.Name, Bounds: rect, Usable: rect}, nil
	}

	backend, err := platform.NewBackend()
	if err != nil {
		return platform.Display{}, fmt.Errorf("no daemon and no display connection: %w", err)
	}
	defer backend.Close()

	return backend.ActiveDisplay()
}

func (s *Server) handleApplyChrome(_ context.Context, _ *mcpsdk.CallToolRequest, _ ApplyChromeInput) (*mcpsdk.CallToolResult, ApplyChromeOutput, error) {
	data, err := s.client.Replan()
	if err != nil {
		return nil, ApplyChromeOutput{}, err
	}
	return nil, ApplyChromeOutput{
		Applied: data.Applied,
		X:       data.X,
		Y:       data.Y,
		Width:   data.Width,
		Height:  data.Height,
	}, nil
}

func (s *Server) handleChromeStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ ChromeStatusInput) (*mcpsdk.CallToolResult, ChromeStatusOutput, error) {
	data, err := s.client.GetStatus()
	if err != nil {
		return nil, ChromeStatusOutput{}, err
	}

	out := ChromeStatusOutput{
		DaemonRunning: data.DaemonRunning,
		UptimeSeconds: data.UptimeSeconds,
	}
	if data.Window != nil {
		out.WindowID = data.Window.WindowID
		out.State = data.Window.State
		out.PendingReposition = data.Window.PendingReposition
		out.Alive = data.Window.Alive
	}
	return nil, out, nil
}
