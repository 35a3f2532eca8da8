package bridge

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravel-dev/weft/internal/enginetest"
	"github.com/ravel-dev/weft/pkg/engine"
)

func TestInputBeforeFirstNavigationIsDropped(t *testing.T) {
	fake := enginetest.NewFake()
	s, _ := newTestSession(t, fake)
	r := NewRouter(zerolog.Nop(), s)

	r.Route(engine.InputEvent{Kind: engine.PointerMove, X: 10, Y: 10})
	r.Route(engine.InputEvent{Kind: engine.Key, KeyName: "Enter", Pressed: true})
	s.flush()

	assert.Empty(t, fake.Inputs(), "idle-state events must never reach the engine")
	assert.Equal(t, uint64(2), r.Dropped())
}

func TestInputForwardedOnceLoading(t *testing.T) {
	fake := enginetest.NewFake()
	s, _ := newTestSession(t, fake)
	r := NewRouter(zerolog.Nop(), s)

	require.NoError(t, s.LoadURL("https://example.com"))
	r.Route(engine.InputEvent{Kind: engine.PointerMove, X: 40, Y: 30})
	s.flush()

	inputs := fake.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, engine.PointerMove, inputs[0].Kind)
	assert.Zero(t, r.Dropped())
}

func TestPointerCoordinatesScaleToDevicePixels(t *testing.T) {
	fake := enginetest.NewFake()
	mailbox := NewMailbox(nil)
	s, err := NewSession(zerolog.Nop(), fake, NewFrameBuffer(), mailbox, Config{
		Engine: engine.Config{Width: 1600, Height: 1200, ScaleFactor: 2.0},
	})
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)
	r := NewRouter(zerolog.Nop(), s)

	require.NoError(t, s.LoadURL("https://example.com"))
	r.Route(engine.InputEvent{Kind: engine.PointerButton, X: 100, Y: 50, Button: 1, Pressed: true})
	r.Route(engine.InputEvent{Kind: engine.Scroll, X: 10, Y: 20, DeltaX: 0, DeltaY: -3})
	s.flush()

	inputs := fake.Inputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, 200.0, inputs[0].X)
	assert.Equal(t, 100.0, inputs[0].Y)
	assert.Equal(t, -6.0, inputs[1].DeltaY)
}

func TestKeyEventsAreNotScaled(t *testing.T) {
	fake := enginetest.NewFake()
	mailbox := NewMailbox(nil)
	s, err := NewSession(zerolog.Nop(), fake, NewFrameBuffer(), mailbox, Config{
		Engine: engine.Config{Width: 1600, Height: 1200, ScaleFactor: 2.0},
	})
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)
	r := NewRouter(zerolog.Nop(), s)

	require.NoError(t, s.LoadURL("https://example.com"))
	r.Route(engine.InputEvent{Kind: engine.Key, KeyName: "a", Pressed: true, Time: time.Now()})
	s.flush()

	inputs := fake.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, "a", inputs[0].KeyName)
}

func TestRouterPreservesEventOrder(t *testing.T) {
	fake := enginetest.NewFake()
	s, _ := newTestSession(t, fake)
	r := NewRouter(zerolog.Nop(), s)

	require.NoError(t, s.LoadURL("https://example.com"))
	for i := 0; i < 20; i++ {
		r.Route(engine.InputEvent{Kind: engine.PointerMove, X: float64(i)})
	}
	s.flush()

	inputs := fake.Inputs()
	require.Len(t, inputs, 20)
	for i, ev := range inputs {
		assert.Equal(t, float64(i), ev.X, "event %d out of order", i)
	}
}
