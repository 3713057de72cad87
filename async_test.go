package linklog

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsyncBackend_Lifecycle(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		b := NewAsyncBackend(&fakeBackend{})
		assert.NoError(t, b.Start())
		assert.NotPanics(t, func() { b.StopAndWait() })
	})
	t.Run("double_start", func(t *testing.T) {
		b := NewAsyncBackend(&fakeBackend{})
		assert.NoError(t, b.Start())
		err := b.Start()
		assert.Error(t, err, "no error on double start")
		assert.Contains(t, err.Error(), "already started")
		b.StopAndWait()
	})
	t.Run("stop_without_start", func(t *testing.T) {
		b := NewAsyncBackend(&fakeBackend{})
		assert.NotPanics(t, func() { b.StopAndWait() })
	})
	t.Run("double_stop", func(t *testing.T) {
		b := NewAsyncBackend(&fakeBackend{})
		assert.NoError(t, b.Start())
		b.Stop()
		assert.NotPanics(t, func() { b.Stop() })
		b.Wait()
	})
	t.Run("restart_after_stop", func(t *testing.T) {
		b := NewAsyncBackend(&fakeBackend{})
		assert.NoError(t, b.Start())
		b.StopAndWait()
		assert.NoError(t, b.Start())
		b.StopAndWait()
	})
}

func TestAsyncBackend_DrainsInOrder(t *testing.T) {
	target := &fakeBackend{}
	b := NewAsyncBackend(target)
	assert.NoError(t, b.Start())
	const total = 1000
	for i := 0; i < total; i++ {
		b.Emit(INFO, strconv.Itoa(i))
	}
	b.StopAndWait()
	assert.Equal(t, total, target.count(), "records lost before shutdown")
	for i, line := range target.lines {
		assert.Equal(t, strconv.Itoa(i), line, "delivery order broken at %d", i)
	}
}

func TestAsyncBackend_SynchronousWhenStopped(t *testing.T) {
	target := &fakeBackend{}
	b := NewAsyncBackend(target)
	b.Emit(WARN, "before start")
	assert.Equal(t, 1, target.count(), "record not delivered inline while stopped")
	assert.NoError(t, b.Start())
	b.StopAndWait()
	b.Emit(WARN, "after stop")
	assert.Equal(t, 2, target.count())
}

func TestAsyncBackend_SurvivesPanickingTarget(t *testing.T) {
	b := NewAsyncBackend(panicBackend{})
	assert.NoError(t, b.Start())
	for i := 0; i < 8; i++ {
		assert.NotPanics(t, func() { b.Emit(ERROR, "boom") })
	}
	assert.NotPanics(t, func() { b.StopAndWait() })
}

func TestAsyncBackend_InChain(t *testing.T) {
	target := &fakeBackend{}
	b := NewAsyncBackend(target)
	assert.NoError(t, b.Start())
	s := NewSink("bg", DEBUG, b)
	s.Info("queued")
	s.Trace("filtered")
	b.StopAndWait()
	assert.Equal(t, 1, target.count())
	assert.Equal(t, "queued", target.last())
}
