package linklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcast_SinglePointFiltering(t *testing.T) {
	b1, b2 := &fakeBackend{}, &fakeBackend{}
	m1 := NewSink("m1", ERROR, b1) // level will be forced open
	m2 := NewSink("m2", FATAL, b2)
	bc := NewBroadcast(WARN, m1, m2)

	t.Run("members_forced_open", func(t *testing.T) {
		assert.Equal(t, TRACE, m1.GetLevel())
		assert.Equal(t, TRACE, m2.GetLevel())
	})
	t.Run("aggregator_filters_once", func(t *testing.T) {
		bc.Info("filtered at the aggregator")
		assert.Equal(t, 0, b1.count())
		assert.Equal(t, 0, b2.count())
		bc.Warn("delivered everywhere")
		assert.Equal(t, 1, b1.count())
		assert.Equal(t, 1, b2.count())
		assert.Equal(t, "delivered everywhere", b1.last())
	})
	t.Run("formatted", func(t *testing.T) {
		bc.Logf(ERROR, "code=%d", 7)
		assert.Equal(t, "code=7", b1.last())
	})
}

func TestBroadcast_AttachDetach(t *testing.T) {
	bc := NewBroadcast(INFO)
	m := NewSink("m", ERROR, &fakeBackend{})
	t.Run("attach", func(t *testing.T) {
		bc.Attach(m)
		assert.Equal(t, 1, bc.MemberCount())
		assert.Equal(t, TRACE, m.GetLevel())
	})
	t.Run("attach_is_idempotent", func(t *testing.T) {
		bc.Attach(m)
		assert.Equal(t, 1, bc.MemberCount())
	})
	t.Run("attach_nil_is_noop", func(t *testing.T) {
		bc.Attach(nil)
		assert.Equal(t, 1, bc.MemberCount())
	})
	t.Run("detach", func(t *testing.T) {
		assert.True(t, bc.Detach(m))
		assert.Equal(t, 0, bc.MemberCount())
		assert.False(t, bc.Detach(m), "second detach should report absence")
	})
}

func TestBroadcast_MemberChainStillForwards(t *testing.T) {
	tail := &fakeBackend{}
	member := NewSink("member", ERROR, &fakeBackend{})
	member.AddToChain(NewSink("tail", TRACE, tail))
	bc := NewBroadcast(DEBUG, member)
	bc.Debug("through the member chain")
	assert.Equal(t, 1, tail.count(), "member's own chain should keep forwarding")
}

func TestBroadcast_SetLevel(t *testing.T) {
	bc := NewBroadcast(INFO)
	assert.Equal(t, INFO, bc.GetLevel())
	bres := bc.SetLevel(ERROR)
	assert.Equal(t, bc, bres, "result is another broadcast")
	assert.Equal(t, ERROR, bc.GetLevel())
}
