package mcp

// PlanGeometryInput is the input for the plan_geometry tool.
type PlanGeometryInput struct {
	WidthRatio float64 `json:"width_ratio,omitempty" jsonschema:"Desired window width as a fraction of the screen width in [0.1, 1.0] (default: configured width_ratio). Out-of-range values are clamped."`
}

// PlanGeometryOutput is the output for the plan_geometry tool.
type PlanGeometryOutput struct {
	DisplayName   string `json:"display_name"`
	DisplayWidth  int    `json:"display_width"`
	DisplayHeight int    `json:"display_height"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
}

// ApplyChromeInput is the input for the apply_chrome tool.
type ApplyChromeInput struct{}

// ApplyChromeOutput is the output for the apply_chrome tool.
type ApplyChromeOutput struct {
	Applied bool `json:"applied"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
}

// ChromeStatusInput is the input for the chrome_status tool.
type ChromeStatusInput struct{}

// ChromeStatusOutput is the output for the chrome_status tool.
type ChromeStatusOutput struct {
	DaemonRunning     bool   `json:"daemon_running"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	WindowID          string `json:"window_id,omitempty"`
	State             string `json:"state,omitempty"`
	PendingReposition bool   `json:"pending_reposition"`
	Alive             bool   `json:"alive"`
}
