package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailboxPreservesPostingOrder(t *testing.T) {
	m := NewMailbox(nil)

	m.Post(Notice{Kind: NoticeTitle, Title: "one"})
	m.Post(Notice{Kind: NoticeTitle, Title: "two"})
	m.Post(Notice{Kind: NoticeTitle, Title: "three"})

	got := m.Drain(0)
	assert.Equal(t, []string{"one", "two", "three"}, []string{got[0].Title, got[1].Title, got[2].Title})
	assert.Zero(t, m.Len())
}

func TestMailboxDrainsBoundedBatches(t *testing.T) {
	m := NewMailbox(nil)
	for i := 0; i < 5; i++ {
		m.Post(Notice{Kind: NoticeFrame})
	}

	assert.Len(t, m.Drain(2), 2)
	assert.Equal(t, 3, m.Len())
	assert.Len(t, m.Drain(10), 3)
	assert.Nil(t, m.Drain(10))
}

func TestMailboxWakesOncePerEmptyTransition(t *testing.T) {
	woken := 0
	m := NewMailbox(func() { woken++ })

	m.Post(Notice{Kind: NoticeFrame})
	m.Post(Notice{Kind: NoticeFrame})
	assert.Equal(t, 1, woken, "burst posts share one wakeup")

	m.Drain(0)
	m.Post(Notice{Kind: NoticeFrame})
	assert.Equal(t, 2, woken, "draining re-arms the wakeup")
}

func TestMailboxSetWakeFlushesPendingNotices(t *testing.T) {
	m := NewMailbox(nil)

	// Posted before any consumer exists: no wake to call yet.
	m.Post(Notice{Kind: NoticeFrame})
	m.Post(Notice{Kind: NoticeTitle, Title: "early"})

	woken := 0
	m.SetWake(func() { woken++ })
	assert.Equal(t, 1, woken, "pending notices fire the wake on install")

	m.Drain(0)
	m.Post(Notice{Kind: NoticeFrame})
	assert.Equal(t, 2, woken, "installed wake behaves like a constructor wake")
}

func TestMailboxSetWakeOnEmptyQueueStaysQuiet(t *testing.T) {
	m := NewMailbox(nil)

	woken := 0
	m.SetWake(func() { woken++ })
	assert.Zero(t, woken)

	m.Post(Notice{Kind: NoticeFrame})
	assert.Equal(t, 1, woken)
}

func TestMailboxDropsPostsAfterClose(t *testing.T) {
	m := NewMailbox(nil)
	m.Post(Notice{Kind: NoticeFrame})
	m.Close()

	m.Post(Notice{Kind: NoticeFrame})
	assert.Zero(t, m.Len())
	assert.Nil(t, m.Drain(0))
}
