package stack

// Rolling checksum parameters. Structural state is folded with the seed
// 5381 and multiplier 33, element bytes with 3571 and 37. Wrap-around on
// uint64 overflow is intended.
const (
	structuralSeed       uint64 = 5381
	structuralMultiplier uint64 = 33
	dataSeed             uint64 = 3571
	dataMultiplier       uint64 = 37
)

// structuralChecksum folds the identity token, capacity and size.
func (s *Guarded) structuralChecksum() uint64 {
	h := structuralSeed
	for _, b := range s.id {
		h = h*structuralMultiplier + uint64(b)
	}
	h = h*structuralMultiplier + uint64(s.capacity)
	h = h*structuralMultiplier + uint64(s.size)
	return h
}

// dataChecksum folds the bytes of the live slots. A size larger than the
// allocation is clamped so a damaged size cannot read past the region.
func (s *Guarded) dataChecksum() uint64 {
	h := dataSeed
	if s.buf == nil {
		return h
	}
	n := s.size
	if n > s.buf.capacity {
		n = s.buf.capacity
	}
	if n <= 0 {
		return h
	}
	for _, b := range s.buf.slots(0, n) {
		h = h*dataMultiplier + uint64(b)
	}
	return h
}

// rehash stores freshly computed checksums after a mutation.
func (s *Guarded) rehash() {
	if !s.protect.Checksums {
		return
	}
	s.structSum = s.structuralChecksum()
	s.dataSum = s.dataChecksum()
}
