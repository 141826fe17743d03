package x11

import (
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// SetWindowOpacity sets _NET_WM_WINDOW_OPACITY on the window. Compositing
// window managers honor it for the whole window, decorations included; X11
// exposes no per-button handle, so hiding chrome during a transition means
// fading the whole frame.
func (c *Connection) SetWindowOpacity(windowID xproto.Window, alpha float64) error {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	value := uint(math.Round(alpha * 0xffffffff))
	return xprop.ChangeProp32(c.XUtil, windowID, "_NET_WM_WINDOW_OPACITY", "CARDINAL", value)
}
