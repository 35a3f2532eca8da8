package bridge

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravel-dev/weft/internal/enginetest"
	"github.com/ravel-dev/weft/pkg/engine"
)

func newTestSession(t *testing.T, fake engine.Engine) (*Session, *Mailbox) {
	t.Helper()

	mailbox := NewMailbox(nil)
	s, err := NewSession(zerolog.Nop(), fake, NewFrameBuffer(), mailbox, Config{
		Engine: engine.Config{Width: 800, Height: 600},
	})
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)
	return s, mailbox
}

func drainLoads(mailbox *Mailbox) []engine.LoadEvent {
	var out []engine.LoadEvent
	for _, n := range mailbox.Drain(0) {
		if n.Kind == NoticeLoad {
			out = append(out, n.Load)
		}
	}
	return out
}

func TestNewSessionCreateFailureIsEngineUnavailable(t *testing.T) {
	fake := enginetest.NewFake()
	fake.CreateErr = errors.New("compositor thread refused to start")

	_, err := NewSession(zerolog.Nop(), fake, NewFrameBuffer(), NewMailbox(nil), Config{
		Engine: engine.Config{Width: 800, Height: 600},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrEngineUnavailable)
}

func TestLoadURLRejectsInvalidURLsSynchronously(t *testing.T) {
	fake := enginetest.NewFake()
	s, _ := newTestSession(t, fake)

	cases := []string{
		"://missing-scheme",
		"gopher://example.com",
		"http://",
		"javascript:alert(1)",
	}
	for _, raw := range cases {
		err := s.LoadURL(raw)
		assert.ErrorIs(t, err, engine.ErrInvalidURL, "url %q", raw)
	}

	s.flush()
	assert.Empty(t, fake.Loads(), "rejected URLs must never reach the engine")
	assert.Equal(t, StateIdle, s.LoadState())
}

func TestLoadURLDispatchesAndTransitionsToLoading(t *testing.T) {
	fake := enginetest.NewFake()
	s, _ := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://example.com"))
	s.flush()

	assert.Equal(t, []string{"https://example.com"}, fake.Loads())
	assert.Equal(t, StateLoading, s.LoadState())
}

func TestLoadEventsFlowInOrder(t *testing.T) {
	fake := enginetest.NewFake()
	s, mailbox := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://example.com"))
	s.flush()

	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://example.com"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadCommitted, URL: "https://example.com/"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFinished})

	events := drainLoads(mailbox)
	require.Len(t, events, 3)
	assert.Equal(t, engine.LoadStarted, events[0].Phase)
	assert.Equal(t, engine.LoadCommitted, events[1].Phase)
	assert.Equal(t, engine.LoadFinished, events[2].Phase)

	assert.Equal(t, StateLoaded, s.LoadState())
	assert.Equal(t, "https://example.com/", s.CurrentURL())
}

func TestSecondLoadCancelsFirstNavigation(t *testing.T) {
	fake := enginetest.NewFake()
	s, mailbox := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://first.example"))
	require.NoError(t, s.LoadURL("https://second.example"))
	s.flush()

	// Late events from the superseded navigation: all discarded.
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://first.example"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFailed, Reason: "cancelled"})
	assert.Empty(t, drainLoads(mailbox))

	// The new navigation emits normally.
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://second.example"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFinished})

	events := drainLoads(mailbox)
	require.Len(t, events, 2)
	assert.Equal(t, engine.LoadStarted, events[0].Phase)
	assert.Equal(t, "https://second.example", events[0].URL)
	assert.Equal(t, engine.LoadFinished, events[1].Phase)
}

func TestExactlyOneTerminalEventPerNavigation(t *testing.T) {
	fake := enginetest.NewFake()
	s, mailbox := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://example.com"))
	s.flush()

	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://example.com"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFinished})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFinished})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFailed, Reason: "late"})

	var terminals int
	for _, ev := range drainLoads(mailbox) {
		if ev.Phase.Terminal() {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)
}

func TestEngineInitiatedNavigationEmitsEvents(t *testing.T) {
	fake := enginetest.NewFake()
	s, mailbox := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://a.example"))
	s.flush()
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://a.example"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFinished})
	drainLoads(mailbox)

	// Link click inside the page: the engine navigates without a LoadURL.
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://b.example"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadCommitted, URL: "https://b.example/"})
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFinished})

	events := drainLoads(mailbox)
	require.Len(t, events, 3)
	assert.Equal(t, engine.LoadStarted, events[0].Phase)
	assert.Equal(t, "https://b.example", events[0].URL)
	assert.Equal(t, engine.LoadCommitted, events[1].Phase)
	assert.Equal(t, engine.LoadFinished, events[2].Phase)

	assert.Equal(t, StateLoaded, s.LoadState())
	assert.Equal(t, "https://b.example/", s.CurrentURL())

	// The one-terminal rule still holds for the engine-initiated navigation.
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadFinished})
	assert.Empty(t, drainLoads(mailbox))
}

func TestEngineInitiatedNavigationStillSuppressedWhileSuperseded(t *testing.T) {
	fake := enginetest.NewFake()
	s, mailbox := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://first.example"))
	require.NoError(t, s.LoadURL("https://second.example"))
	s.flush()

	// While awaiting the superseding navigation's Started, a Started for
	// any other URL is still a late event from the cancelled one.
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://first.example"})
	assert.Empty(t, drainLoads(mailbox))

	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadStarted, URL: "https://second.example"})
	events := drainLoads(mailbox)
	require.Len(t, events, 1)
	assert.Equal(t, "https://second.example", events[0].URL)
}

func TestOutOfOrderCommitIsDropped(t *testing.T) {
	fake := enginetest.NewFake()
	s, mailbox := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://example.com"))
	s.flush()

	// Committed without Started: nothing may be emitted.
	fake.EmitLoad(engine.LoadEvent{Phase: engine.LoadCommitted, URL: "https://example.com"})
	assert.Empty(t, drainLoads(mailbox))
}

func TestResizeIsIdempotent(t *testing.T) {
	fake := enginetest.NewFake()
	s, _ := newTestSession(t, fake)

	initial := len(fake.Resizes()) // Create counts as the first application

	s.Resize(1024, 768)
	s.Resize(1024, 768)
	s.flush()

	assert.Equal(t, initial+1, len(fake.Resizes()), "identical resize must not dispatch a task")

	s.Resize(800, 600)
	s.flush()
	assert.Equal(t, initial+2, len(fake.Resizes()))

	w, h := s.ViewportSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestEngineRejectedLoadSurfacesAsFailed(t *testing.T) {
	fake := enginetest.NewFake()
	fake.LoadErr = errors.New("network stack not ready")
	s, mailbox := newTestSession(t, fake)

	require.NoError(t, s.LoadURL("https://example.com"))
	s.flush()

	events := drainLoads(mailbox)
	require.Len(t, events, 2)
	assert.Equal(t, engine.LoadStarted, events[0].Phase)
	assert.Equal(t, engine.LoadFailed, events[1].Phase)
	assert.Equal(t, StateFailed, s.LoadState())
}

func TestShutdownIsIdempotentAndReleasesEngine(t *testing.T) {
	fake := enginetest.NewFake()
	mailbox := NewMailbox(nil)
	s, err := NewSession(zerolog.Nop(), fake, NewFrameBuffer(), mailbox, Config{
		Engine: engine.Config{Width: 320, Height: 240},
	})
	require.NoError(t, err)

	s.Shutdown()
	s.Shutdown()
	<-s.Done()

	assert.Equal(t, 1, fake.Destroyed())
	assert.ErrorIs(t, s.LoadURL("https://example.com"), engine.ErrSessionClosed)
}

func TestRuntimeRefcountAcrossSessions(t *testing.T) {
	fake := &enginetest.RuntimeFake{}

	mb1 := NewMailbox(nil)
	s1, err := NewSession(zerolog.Nop(), fake, NewFrameBuffer(), mb1, Config{
		Engine: engine.Config{Width: 100, Height: 100},
	})
	require.NoError(t, err)

	mb2 := NewMailbox(nil)
	s2, err := NewSession(zerolog.Nop(), fake, NewFrameBuffer(), mb2, Config{
		Engine: engine.Config{Width: 100, Height: 100},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fake.RuntimeInits(), "runtime initializes once for the process")

	s1.Shutdown()
	assert.Equal(t, 0, fake.RuntimeShutdowns(), "runtime must outlive remaining sessions")

	s2.Shutdown()
	assert.Equal(t, 1, fake.RuntimeShutdowns())
}

func TestFrameCallbackPublishesAndNudgesHost(t *testing.T) {
	fake := enginetest.NewFake()
	frames := NewFrameBuffer()

	woken := 0
	mailbox := NewMailbox(func() { woken++ })
	s, err := NewSession(zerolog.Nop(), fake, frames, mailbox, Config{
		Engine: engine.Config{Width: 800, Height: 600},
	})
	require.NoError(t, err)
	t.Cleanup(s.Shutdown)

	fake.EmitFrame(engine.Frame{Seq: 1, Width: 800, Height: 600})

	f := frames.TakeLatest()
	require.NotNil(t, f)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Equal(t, 1, woken)

	// Stale frame: dropped, no extra wakeup.
	fake.EmitFrame(engine.Frame{Seq: 1, Width: 800, Height: 600})
	assert.Nil(t, frames.TakeLatest())
}
