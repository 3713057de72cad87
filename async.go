package linklog

import (
	"fmt"
	"sync"
)

type backendState int8

const (
	BACKEND_STOPPED backendState = iota
	BACKEND_ACTIVE
	BACKEND_STOPPING
)

type asyncEvent struct {
	level Level
	line  string
}

// AsyncBackend decouples callers from a slow destination: Emit appends
// to an unbounded queue and returns, a single worker goroutine drains
// it in enqueue order. Callers never wait on delivery. Before Start and
// after Stop records are delivered synchronously instead of queued, so
// nothing is lost around the lifecycle edges.
type AsyncBackend struct {
	mtx     sync.Mutex
	target  Backend
	queue   []asyncEvent
	state   backendState
	wake    chan struct{}
	waitEnd sync.WaitGroup
}

func NewAsyncBackend(target Backend) *AsyncBackend {
	if target == nil {
		target = NewWriterBackend(nil)
	}
	return &AsyncBackend{
		target: target,
		wake:   make(chan struct{}, 1),
	}
}

func (b *AsyncBackend) Start() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.state == BACKEND_ACTIVE {
		return fmt.Errorf("async backend is already started")
	}
	b.state = BACKEND_ACTIVE
	b.waitEnd.Add(1)
	go func() {
		defer b.waitEnd.Done()
		b.run()
	}()
	return nil
}

// Stop asks the worker to drain the queue and exit.
func (b *AsyncBackend) Stop() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.state == BACKEND_ACTIVE {
		b.state = BACKEND_STOPPING
		b.signal()
	}
}

func (b *AsyncBackend) Wait() {
	b.waitEnd.Wait()
}

func (b *AsyncBackend) StopAndWait() {
	b.Stop()
	b.Wait()
}

func (b *AsyncBackend) Emit(level Level, line string) {
	b.mtx.Lock()
	if b.state != BACKEND_ACTIVE {
		b.mtx.Unlock()
		b.deliver(&asyncEvent{level, line})
		return
	}
	b.queue = append(b.queue, asyncEvent{level, line})
	b.mtx.Unlock()
	b.signal()
}

// signal wakes the worker without ever blocking the caller.
func (b *AsyncBackend) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *AsyncBackend) run() {
	for {
		b.mtx.Lock()
		batch := b.queue
		b.queue = nil
		state := b.state
		b.mtx.Unlock()
		for i := range batch {
			b.deliver(&batch[i])
		}
		if len(batch) > 0 {
			// more may have arrived while delivering
			continue
		}
		if state == BACKEND_STOPPING {
			b.setState(BACKEND_STOPPED)
			return
		}
		<-b.wake
	}
}

// deliver shields the worker from a panicking target so the queue
// keeps draining.
func (b *AsyncBackend) deliver(e *asyncEvent) {
	defer func() { _ = recover() }()
	b.target.Emit(e.level, e.line)
}

func (b *AsyncBackend) setState(state backendState) {
	b.mtx.Lock()
	b.state = state
	b.mtx.Unlock()
}
