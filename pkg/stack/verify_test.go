package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveStack(t *testing.T, values ...Element) *Guarded {
	t.Helper()
	s := newTestStack(t)
	for _, v := range values {
		require.NoError(t, s.Push(v))
	}
	require.True(t, s.Verify().Healthy())
	return s
}

func TestVerify_DetectsCorruption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(tm Tamper)
		want    Faults
	}{
		{
			name:    "struct left guard",
			corrupt: func(tm Tamper) { tm.StructLeftGuard(0xDDDDDDDDDDDDDDDD) },
			want:    StructGuardLeftDamaged,
		},
		{
			name:    "struct right guard",
			corrupt: func(tm Tamper) { tm.StructRightGuard(0) },
			want:    StructGuardRightDamaged,
		},
		{
			name:    "data left guard",
			corrupt: func(tm Tamper) { tm.Overwrite(tm.DataLeftGuardOffset()+3, []byte{0xDD}) },
			want:    DataGuardLeftDamaged,
		},
		{
			name:    "data right guard",
			corrupt: func(tm Tamper) { tm.Overwrite(tm.DataRightGuardOffset(), []byte{0xDD, 0xDD}) },
			want:    DataGuardRightDamaged,
		},
		{
			name:    "live element byte",
			corrupt: func(tm Tamper) { tm.Overwrite(tm.SlotOffset(1)+2, []byte{0x7F}) },
			want:    DataChecksumDamaged,
		},
		{
			name: "left overrun through the guard into slot 0",
			corrupt: func(tm Tamper) {
				tm.Overwrite(tm.DataLeftGuardOffset(), []byte{0xDD, 0xDD, 0xDD, 0xDD, 0xDD, 0xDD, 0xDD, 0xDD, 0xDD})
			},
			want: DataGuardLeftDamaged | DataChecksumDamaged,
		},
		{
			name: "struct and data guards together",
			corrupt: func(tm Tamper) {
				tm.StructLeftGuard(1)
				tm.Overwrite(tm.DataRightGuardOffset()+7, []byte{0x00})
			},
			want: StructGuardLeftDamaged | DataGuardRightDamaged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := liveStack(t, 10, 20, 30)
			tt.corrupt(s.Tamper())

			assert.Equal(t, tt.want, s.Verify())
			assert.Equal(t, InvalidSize, s.Size())
		})
	}
}

func TestVerify_DamagedSize(t *testing.T) {
	t.Parallel()

	s := liveStack(t, 1, 2)
	s.Tamper().Size(100)

	f := s.Verify()
	assert.True(t, f.Has(SizeExceedsCapacity))
	assert.True(t, f.Has(StructuralChecksumDamaged))
	assert.False(t, f.Has(NullOrUnconstructed))

	s.Tamper().Size(2)
	assert.True(t, s.Verify().Healthy(), "restoring the field restores health")
}

func TestVerify_DamagedCapacityMovesRightGuard(t *testing.T) {
	t.Parallel()

	s := liveStack(t, 1)
	s.Tamper().Capacity(64)

	f := s.Verify()
	assert.True(t, f.Has(DataGuardRightDamaged))
	assert.True(t, f.Has(StructuralChecksumDamaged))
	assert.False(t, f.Has(SizeExceedsCapacity))
	s.Tamper().Capacity(MinCapacity)
}

func TestOperationsRejectCorruptedStack(t *testing.T) {
	t.Parallel()

	s := liveStack(t, 1, 2, 3)
	s.Tamper().Overwrite(s.Tamper().SlotOffset(0), []byte{0xEE})

	err := s.Push(4)
	assert.ErrorIs(t, err, DataChecksumDamaged)
	assert.Equal(t, 3, s.size, "push must not act on a corrupted stack")

	_, err = s.Pop()
	assert.ErrorIs(t, err, DataChecksumDamaged)
	assert.Equal(t, 3, s.size)

	_, err = s.Top()
	assert.ErrorIs(t, err, DataChecksumDamaged)
}

func TestVerify_PoisonIsOutsideChecksum(t *testing.T) {
	t.Parallel()

	s := liveStack(t, 1)
	s.Tamper().Overwrite(s.Tamper().SlotOffset(3), []byte{0x00})

	assert.True(t, s.Verify().Healthy())
	assert.False(t, s.buf.slotPoisoned(3))
	assert.Contains(t, Report(s, Info{}), "[3] = 0xF0F0F000")
}
