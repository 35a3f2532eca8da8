package ui

import (
	"time"

	"github.com/jwijenbergh/puregotk/v4/gdk"
	"github.com/jwijenbergh/puregotk/v4/glib"
	"github.com/jwijenbergh/puregotk/v4/gtk"
	"github.com/rs/zerolog"

	"github.com/ravel-dev/weft/internal/ui/input"
	"github.com/ravel-dev/weft/pkg/engine"
)

// WebView binds a bridge Widget into the GTK4 widget tree. The render
// surface is a gtk.Picture fed from the frame buffer on the frame clock;
// event controllers feed the input router the way the toolkit reports them.
type WebView struct {
	*Widget

	picture *gtk.Picture
	logger  zerolog.Logger

	// Last pointer position in widget-local coordinates, for scroll events
	// which GTK reports without a position.
	lastX, lastY float64

	click *gtk.GestureClick

	// Callback retention: must stay reachable by Go GC.
	tickCb        gtk.TickCallback
	motionCb      func(gtk.EventControllerMotion, float64, float64)
	pressedCb     func(gtk.GestureClick, int32, float64, float64)
	releasedCb    func(gtk.GestureClick, int32, float64, float64)
	scrollCb      func(gtk.EventControllerScroll, float64, float64) bool
	keyPressedCb  func(gtk.EventControllerKey, uint32, uint32, gdk.ModifierType) bool
	keyReleasedCb func(gtk.EventControllerKey, uint32, uint32, gdk.ModifierType)
	focusEnterCb  func(gtk.EventControllerFocus)
	focusLeaveCb  func(gtk.EventControllerFocus)
}

// NewWebView creates the GTK-backed widget shell around an engine. The
// Toolkit field of opts is ignored: the GTK adapter is installed here.
func NewWebView(eng engine.Engine, opts Options) (*WebView, error) {
	picture := gtk.NewPicture()
	picture.SetHexpand(true)
	picture.SetVexpand(true)
	picture.SetFocusable(true)

	opts.Engine = eng
	opts.Toolkit = &gtkToolkit{widget: &picture.Widget}
	w, err := New(opts)
	if err != nil {
		return nil, err
	}

	v := &WebView{
		Widget:  w,
		picture: picture,
		logger:  opts.Logger.With().Str("component", "webview").Logger(),
	}
	v.attachControllers()

	// The frame clock is the host paint tick: apply size changes and pull
	// the latest engine frame once per tick.
	v.tickCb = gtk.TickCallback(func(_ uintptr, _ uintptr, _ uintptr) bool {
		v.onTick()
		return true
	})
	picture.AddTickCallback(&v.tickCb, 0, nil)

	return v, nil
}

// GtkWidget returns the underlying GTK widget for embedding.
func (v *WebView) GtkWidget() *gtk.Widget {
	return &v.picture.Widget
}

func (v *WebView) onTick() {
	width := v.picture.GetAllocatedWidth()
	height := v.picture.GetAllocatedHeight()
	if width > 0 && height > 0 {
		v.Resize(int(width), int(height))
	}

	frame := v.TakeFrame()
	if frame == nil || len(frame.Pixels) == 0 {
		return
	}

	bytes := glib.NewBytes(frame.Pixels, uint(len(frame.Pixels)))
	if bytes == nil {
		v.logger.Warn().Msg("failed to wrap frame pixels")
		return
	}
	texture := gdk.NewMemoryTexture(int32(frame.Width), int32(frame.Height),
		gdk.MemoryR8g8b8a8Value, bytes, uint(frame.Width)*4)
	if texture == nil {
		v.logger.Warn().Uint64("seq", frame.Seq).Msg("failed to import frame texture")
		return
	}
	v.picture.SetPaintable(texture)
}

func (v *WebView) attachControllers() {
	motion := gtk.NewEventControllerMotion()
	v.motionCb = func(_ gtk.EventControllerMotion, x, y float64) {
		v.lastX, v.lastY = x, y
		v.HandleInput(engine.InputEvent{
			Kind: engine.PointerMove,
			Time: time.Now(),
			X:    x,
			Y:    y,
		})
	}
	motion.ConnectMotion(&v.motionCb)
	v.picture.AddController(&motion.EventController)

	v.click = gtk.NewGestureClick()
	v.click.SetButton(0) // all buttons
	v.pressedCb = func(_ gtk.GestureClick, _ int32, x, y float64) {
		v.picture.GrabFocus()
		v.HandleInput(engine.InputEvent{
			Kind:    engine.PointerButton,
			Time:    time.Now(),
			X:       x,
			Y:       y,
			Button:  uint(v.click.GetCurrentButton()),
			Pressed: true,
		})
	}
	v.releasedCb = func(_ gtk.GestureClick, _ int32, x, y float64) {
		v.HandleInput(engine.InputEvent{
			Kind:   engine.PointerButton,
			Time:   time.Now(),
			X:      x,
			Y:      y,
			Button: uint(v.click.GetCurrentButton()),
		})
	}
	v.click.ConnectPressed(&v.pressedCb)
	v.click.ConnectReleased(&v.releasedCb)
	v.picture.AddController(&v.click.EventController)

	scroll := gtk.NewEventControllerScroll(gtk.EventControllerScrollBothAxesValue)
	v.scrollCb = func(_ gtk.EventControllerScroll, dx, dy float64) bool {
		v.HandleInput(engine.InputEvent{
			Kind:   engine.Scroll,
			Time:   time.Now(),
			X:      v.lastX,
			Y:      v.lastY,
			DeltaX: dx,
			DeltaY: dy,
		})
		return true
	}
	scroll.ConnectScroll(&v.scrollCb)
	v.picture.AddController(&scroll.EventController)

	key := gtk.NewEventControllerKey()
	v.keyPressedCb = func(_ gtk.EventControllerKey, keyval uint32, _ uint32, _ gdk.ModifierType) bool {
		name, location, ok := input.KeyvalToName(uint(keyval))
		if !ok {
			return false
		}
		v.HandleInput(engine.InputEvent{
			Kind:     engine.Key,
			Time:     time.Now(),
			KeyName:  name,
			Location: location,
			Pressed:  true,
		})
		return true
	}
	v.keyReleasedCb = func(_ gtk.EventControllerKey, keyval uint32, _ uint32, _ gdk.ModifierType) {
		name, location, ok := input.KeyvalToName(uint(keyval))
		if !ok {
			return
		}
		v.HandleInput(engine.InputEvent{
			Kind:     engine.Key,
			Time:     time.Now(),
			KeyName:  name,
			Location: location,
		})
	}
	key.ConnectKeyPressed(&v.keyPressedCb)
	key.ConnectKeyReleased(&v.keyReleasedCb)
	v.picture.AddController(&key.EventController)

	focus := gtk.NewEventControllerFocus()
	v.focusEnterCb = func(_ gtk.EventControllerFocus) {
		v.HandleInput(engine.InputEvent{Kind: engine.FocusChange, Time: time.Now(), Focused: true})
	}
	v.focusLeaveCb = func(_ gtk.EventControllerFocus) {
		v.HandleInput(engine.InputEvent{Kind: engine.FocusChange, Time: time.Now()})
	}
	focus.ConnectEnter(&v.focusEnterCb)
	focus.ConnectLeave(&v.focusLeaveCb)
	v.picture.AddController(&focus.EventController)
}
