package linklog

import (
	"fmt"
	"slices"
	"sync"
)

// Broadcast is the composite counterpart of the chain: one gate at the
// aggregator, every member receives every passing record. Member levels
// are forced open on attach so filtering happens in exactly one place.
// Members are still sinks, so a member's own chain keeps forwarding.
type Broadcast struct {
	mtx     sync.Mutex
	level   Level
	members []*Sink
}

func NewBroadcast(level Level, members ...*Sink) *Broadcast {
	b := &Broadcast{level: normLevel(level)}
	for _, m := range members {
		b.Attach(m)
	}
	return b
}

// Attach adds a member and opens its level up to TRACE. Nil and
// already-attached members are no-ops.
func (b *Broadcast) Attach(member *Sink) *Broadcast {
	if member == nil {
		return b
	}
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if slices.Contains(b.members, member) {
		return b
	}
	member.SetLevel(TRACE)
	b.members = append(b.members, member)
	return b
}

// Detach removes a member, reporting whether it was attached. The
// member's level is left open; the caller owns it again.
func (b *Broadcast) Detach(member *Sink) bool {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for i, m := range b.members {
		if m == member {
			b.members = append(b.members[:i], b.members[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Broadcast) MemberCount() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return len(b.members)
}

func (b *Broadcast) SetLevel(level Level) *Broadcast {
	b.mtx.Lock()
	b.level = normLevel(level)
	b.mtx.Unlock()
	return b
}

func (b *Broadcast) GetLevel() Level {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.level
}

func (b *Broadcast) Log(level Level, args ...any) {
	level = normLevel(level)
	b.mtx.Lock()
	min := b.level
	members := slices.Clone(b.members)
	b.mtx.Unlock()
	if level < min {
		return
	}
	text := fmt.Sprint(args...)
	for _, m := range members {
		m.Log(level, text)
	}
}

func (b *Broadcast) Logf(level Level, format string, args ...any) {
	b.Log(level, fmt.Sprintf(format, args...))
}

func (b *Broadcast) Trace(args ...any) { b.Log(TRACE, args...) }
func (b *Broadcast) Debug(args ...any) { b.Log(DEBUG, args...) }
func (b *Broadcast) Info(args ...any)  { b.Log(INFO, args...) }
func (b *Broadcast) Warn(args ...any)  { b.Log(WARN, args...) }
func (b *Broadcast) Error(args ...any) { b.Log(ERROR, args...) }
func (b *Broadcast) Fatal(args ...any) { b.Log(FATAL, args...) }
