package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WatchWindow subscribes to StructureNotify events for one window. onResize
// fires for every ConfigureNotify that changes the window's size (moves are
// filtered out), onGone when the window is destroyed. X11 delivers no
// resize-start/resize-end boundary, only this tick stream.
//
// Callbacks run on the X event loop goroutine. The handlers stay connected
// for the life of the connection; xgbutil detaches them itself when the
// window is destroyed.
func (c *Connection) WatchWindow(windowID xproto.Window, onResize func(width, height int), onGone func()) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskStructureNotify); err != nil {
		return err
	}

	var lastWidth, lastHeight int
	if geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply(); err == nil {
		lastWidth = int(geom.Width)
		lastHeight = int(geom.Height)
	}

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		width := int(ev.Width)
		height := int(ev.Height)
		if width == lastWidth && height == lastHeight {
			return
		}
		lastWidth = width
		lastHeight = height
		onResize(width, height)
	}).Connect(c.XUtil, windowID)

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, _ xevent.DestroyNotifyEvent) {
		onGone()
	}).Connect(c.XUtil, windowID)

	return nil
}
