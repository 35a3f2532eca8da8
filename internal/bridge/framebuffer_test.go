package bridge

import (
	"sync"
	"testing"

	"github.com/ravel-dev/weft/pkg/engine"
)

func TestTakeLatestIsEmptyBeforeFirstFrame(t *testing.T) {
	b := NewFrameBuffer()

	for i := 0; i < 3; i++ {
		if f := b.TakeLatest(); f != nil {
			t.Fatalf("expected no frame before first submit, got seq %d", f.Seq)
		}
	}
}

func TestTakeLatestReturnsEachFrameOnce(t *testing.T) {
	b := NewFrameBuffer()

	b.Submit(engine.Frame{Seq: 1, Width: 800, Height: 600})
	f := b.TakeLatest()
	if f == nil || f.Seq != 1 {
		t.Fatalf("expected frame 1, got %v", f)
	}
	if f := b.TakeLatest(); f != nil {
		t.Fatalf("expected no new frame on second take, got seq %d", f.Seq)
	}
}

func TestNewerFrameOverwritesOlder(t *testing.T) {
	b := NewFrameBuffer()

	b.Submit(engine.Frame{Seq: 1})
	b.Submit(engine.Frame{Seq: 2})

	f := b.TakeLatest()
	if f == nil || f.Seq != 2 {
		t.Fatalf("expected latest frame 2, got %v", f)
	}
}

func TestStaleSubmitIsDropped(t *testing.T) {
	b := NewFrameBuffer()

	if !b.Submit(engine.Frame{Seq: 5}) {
		t.Fatal("fresh frame rejected")
	}
	if b.Submit(engine.Frame{Seq: 5}) {
		t.Fatal("duplicate seq accepted")
	}
	if b.Submit(engine.Frame{Seq: 3}) {
		t.Fatal("stale seq accepted")
	}

	submitted, dropped := b.Stats()
	if submitted != 1 || dropped != 2 {
		t.Fatalf("expected 1 accepted / 2 dropped, got %d/%d", submitted, dropped)
	}
}

func TestObservedSequencesStrictlyIncrease(t *testing.T) {
	b := NewFrameBuffer()

	var last uint64
	for seq := uint64(1); seq <= 100; seq++ {
		b.Submit(engine.Frame{Seq: seq})
		if seq%7 != 0 {
			continue
		}
		f := b.TakeLatest()
		if f == nil {
			t.Fatalf("expected a frame at seq %d", seq)
		}
		if f.Seq <= last {
			t.Fatalf("sequence regressed: %d after %d", f.Seq, last)
		}
		last = f.Seq
	}
}

func TestConcurrentSubmitKeepsSlotConsistent(t *testing.T) {
	b := NewFrameBuffer()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(base uint64) {
			defer wg.Done()
			for i := uint64(0); i < 500; i++ {
				b.Submit(engine.Frame{Seq: base + i*4})
			}
		}(uint64(g + 1))
	}
	wg.Wait()

	f := b.TakeLatest()
	if f == nil {
		t.Fatal("expected a frame after concurrent submits")
	}
	if f.Seq != 4+499*4 {
		t.Fatalf("expected highest submitted seq %d, got %d", 4+499*4, f.Seq)
	}
}
