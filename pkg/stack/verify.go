package stack

// Verify checks the stack and returns every fault it finds. The zero set
// means the stack is healthy.
//
// An unconstructed or destroyed stack reports NullOrUnconstructed alone.
// Otherwise the size bound, the guard words and the checksums are all
// checked and their faults merged.
func (s *Guarded) Verify() Faults {
	if s == nil || s.buf == nil || s.buf.mem == nil {
		return NullOrUnconstructed
	}
	var f Faults
	// The allocation bound holds even when the recorded capacity is damaged.
	if s.size < 0 || s.size > s.capacity || s.size > s.buf.capacity {
		f |= SizeExceedsCapacity
	}
	if s.protect.Guards {
		f |= s.checkGuards()
	}
	if s.protect.Checksums {
		f |= s.checkChecksums()
	}
	return f
}

func (s *Guarded) checkGuards() Faults {
	var f Faults
	if s.leftGuard != LeftGuard {
		f |= StructGuardLeftDamaged
	}
	if s.rightGuard != RightGuard {
		f |= StructGuardRightDamaged
	}
	if w, ok := s.buf.wordAt(0); !ok || w != LeftGuard {
		f |= DataGuardLeftDamaged
	}
	// The trailing guard is located from the recorded capacity, so a
	// damaged capacity shows up as a damaged right guard.
	if w, ok := s.buf.wordAt(s.buf.slotOffset(s.capacity)); !ok || w != RightGuard {
		f |= DataGuardRightDamaged
	}
	return f
}

func (s *Guarded) checkChecksums() Faults {
	var f Faults
	if s.structuralChecksum() != s.structSum {
		f |= StructuralChecksumDamaged
	}
	if s.dataChecksum() != s.dataSum {
		f |= DataChecksumDamaged
	}
	return f
}
