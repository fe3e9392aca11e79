package store

// tracker orders responses of one store. Every request takes a sequence
// number when issued; a response is applied only when its number is newer
// than the last applied one, so a slow response never overwrites a newer
// one. The owning store's mutex guards it.
type tracker struct {
	next     uint64
	applied  uint64
	inflight int
}

func (t *tracker) begin() uint64 {
	t.next++
	t.inflight++
	return t.next
}

// end retires seq and reports whether its outcome is still current.
// Only a successful response advances the applied mark.
func (t *tracker) end(seq uint64, ok bool) bool {
	if t.inflight > 0 {
		t.inflight--
	}
	if seq <= t.applied {
		return false
	}
	if ok {
		t.applied = seq
	}
	return true
}

func (t *tracker) busy() bool { return t.inflight > 0 }

// invalidate makes every request issued so far stale.
func (t *tracker) invalidate() { t.applied = t.next }
