package linklog

// Chain operations hold one sink's lock at a time while walking: read
// the next pointer, release, move on. Under concurrent structural
// changes a walk may observe a stale shape, which at worst delivers a
// record to a just-removed sink or misses a just-added one. Acceptable
// for a logging chain, and it keeps the hot path free of any global
// lock.

// AddToChain appends node at the tail of the chain rooted at s. If node
// is already anywhere in the chain this is a no-op, which both prevents
// double delivery and makes a cycle impossible to build through this
// method. Returns node for fluent chaining; a nil node is a no-op
// returning s.
func (s *Sink) AddToChain(node *Sink) *Sink {
	if node == nil {
		return s
	}
	cur := s
	for {
		if cur == node {
			return node
		}
		cur.mtx.Lock()
		next := cur.next
		if next == nil {
			cur.next = node
			cur.mtx.Unlock()
			return node
		}
		cur.mtx.Unlock()
		cur = next
	}
}

// RemoveFromChain splices node out of the chain rooted at s and clears
// the removed node's own next pointer. Reports whether a removal
// happened. Removing s itself, nil, or a sink not in the chain is a
// safe no-op.
func (s *Sink) RemoveFromChain(node *Sink) bool {
	if node == nil || node == s {
		return false
	}
	prev := s
	for {
		prev.mtx.Lock()
		next := prev.next
		prev.mtx.Unlock()
		if next == nil {
			return false
		}
		if next == node {
			node.mtx.Lock()
			after := node.next
			node.next = nil
			node.mtx.Unlock()
			prev.mtx.Lock()
			prev.next = after
			prev.mtx.Unlock()
			return true
		}
		prev = next
	}
}

// GetChainCount walks from s (inclusive) to the end, minimum 1.
func (s *Sink) GetChainCount() int {
	count := 0
	for cur := s; cur != nil; {
		count++
		cur.mtx.Lock()
		next := cur.next
		cur.mtx.Unlock()
		cur = next
	}
	return count
}

// ClearChain detaches s's own next pointer only. Downstream sinks keep
// their links and stay intact, just unreachable from s.
func (s *Sink) ClearChain() {
	s.mtx.Lock()
	s.next = nil
	s.mtx.Unlock()
}
