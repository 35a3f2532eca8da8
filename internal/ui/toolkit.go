// Package ui is the toolkit-visible shell of the bridge: the widget object
// composing the engine session, frame buffer, input router, and loop
// adapter, plus the GTK4 glue binding it into a real widget tree.
package ui

// Toolkit is the slice of the host GUI toolkit the widget shell needs. It
// deliberately stays this narrow so every bridge component is testable
// without a GTK runtime.
type Toolkit interface {
	// IdleAdd schedules fn to run once on the host main loop. Must be
	// safe to call from any thread.
	IdleAdd(fn func())

	// QueueDraw requests a repaint of the widget's render area. Called
	// only from the host main loop.
	QueueDraw()
}
