package engine

import "time"

// Frame is one complete rendered output unit produced by the engine's
// compositor. Frames are immutable once submitted; Seq is strictly
// increasing per engine instance and never reused.
type Frame struct {
	Seq    uint64
	Width  int
	Height int

	// Pixels is tightly packed RGBA, Width*Height*4 bytes. Engines with a
	// GPU path may leave Pixels nil and set Texture to an imported
	// GL texture name instead.
	Pixels  []byte
	Texture uint32
}

// InputKind tags the variant of an InputEvent.
type InputKind int

const (
	PointerMove InputKind = iota
	PointerButton
	Scroll
	Key
	FocusChange
)

func (k InputKind) String() string {
	switch k {
	case PointerMove:
		return "pointer-move"
	case PointerButton:
		return "pointer-button"
	case Scroll:
		return "scroll"
	case Key:
		return "key"
	case FocusChange:
		return "focus-change"
	}
	return "unknown"
}

// InputEvent is a host input event translated for the engine. Coordinates
// are in engine viewport device pixels by the time an Engine sees the event;
// the Input Router owns that translation. Events are transient: created by
// the host, forwarded once, never retained.
type InputEvent struct {
	Kind InputKind
	Time time.Time

	// Pointer position (PointerMove, PointerButton, Scroll).
	X float64
	Y float64

	// PointerButton: 1=left 2=middle 3=right, plus toolkit extras.
	Button  uint
	Pressed bool

	// Scroll deltas.
	DeltaX float64
	DeltaY float64

	// Key carries a W3C UI Events key name ("a", "Enter", "ArrowDown").
	KeyName  string
	Location KeyLocation

	// FocusChange.
	Focused bool
}

// KeyLocation distinguishes physically duplicated keys.
type KeyLocation int

const (
	LocationStandard KeyLocation = iota
	LocationLeft
	LocationRight
	LocationNumpad
)

// LoadPhase is one step of a navigation's lifecycle.
type LoadPhase int

const (
	LoadStarted LoadPhase = iota
	LoadCommitted
	LoadFinished
	LoadFailed
)

func (p LoadPhase) String() string {
	switch p {
	case LoadStarted:
		return "started"
	case LoadCommitted:
		return "committed"
	case LoadFinished:
		return "finished"
	case LoadFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the phase ends a navigation attempt.
func (p LoadPhase) Terminal() bool {
	return p == LoadFinished || p == LoadFailed
}

// LoadEvent is a navigation-lifecycle notification. For one navigation the
// engine emits Started → Committed → (Finished | Failed), in order, each at
// most once.
type LoadEvent struct {
	Phase LoadPhase
	// URL is set for Started and Committed.
	URL string
	// Reason is set for Failed.
	Reason string
}
