package ui

import (
	"github.com/jwijenbergh/puregotk/v4/glib"
	"github.com/jwijenbergh/puregotk/v4/gtk"
)

// gtkToolkit adapts the GLib main loop and one render widget to Toolkit.
type gtkToolkit struct {
	widget *gtk.Widget
}

var _ Toolkit = (*gtkToolkit)(nil)

// IdleAdd schedules fn once on the GTK main loop. glib.IdleAdd is
// thread-safe, which is what lets engine threads wake the pump.
func (tk *gtkToolkit) IdleAdd(fn func()) {
	cb := glib.SourceFunc(func(_ uintptr) bool {
		fn()
		return false // one-shot source
	})
	glib.IdleAdd(&cb, 0)
}

func (tk *gtkToolkit) QueueDraw() {
	tk.widget.QueueDraw()
}
