package stack

// Tamper writes into a stack's memory and fields without going through the
// API and without updating checksums. It exists to demonstrate and test
// corruption detection; nothing else should use it.
type Tamper struct {
	s *Guarded
}

// Tamper returns a Tamper for s.
func (s *Guarded) Tamper() Tamper { return Tamper{s: s} }

// StructLeftGuard overwrites the struct-level left guard word.
func (t Tamper) StructLeftGuard(w uint64) { t.s.leftGuard = w }

// StructRightGuard overwrites the struct-level right guard word.
func (t Tamper) StructRightGuard(w uint64) { t.s.rightGuard = w }

// Size overwrites the recorded size.
func (t Tamper) Size(n int) { t.s.size = n }

// Capacity overwrites the recorded capacity.
func (t Tamper) Capacity(n int) { t.s.capacity = n }

// Raw returns the whole allocation, guards included, or nil when the stack
// holds none.
func (t Tamper) Raw() []byte {
	if t.s == nil || t.s.buf == nil {
		return nil
	}
	return t.s.buf.mem
}

// Overwrite copies p into the allocation at off and returns the number of
// bytes written. Writes are clipped to the allocation.
func (t Tamper) Overwrite(off int, p []byte) int {
	raw := t.Raw()
	if off < 0 || off >= len(raw) {
		return 0
	}
	return copy(raw[off:], p)
}

// DataLeftGuardOffset is the allocation offset of the left data guard.
func (t Tamper) DataLeftGuardOffset() int { return 0 }

// DataRightGuardOffset is the allocation offset of the right data guard.
func (t Tamper) DataRightGuardOffset() int {
	if t.s == nil || t.s.buf == nil {
		return -1
	}
	return t.s.buf.rightGuardOffset()
}

// SlotOffset is the allocation offset of slot i.
func (t Tamper) SlotOffset(i int) int {
	if t.s == nil || t.s.buf == nil {
		return -1
	}
	return t.s.buf.slotOffset(i)
}
