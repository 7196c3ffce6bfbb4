package secure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/gstack/pkg/stack"
)

func TestLockedAllocator_Allocate(t *testing.T) {
	t.Parallel()

	a := NewLockedAllocator(0)
	r, err := a.Allocate(48)
	require.NoError(t, err)

	b := r.Bytes()
	require.Len(t, b, 48)
	for i := range b {
		b[i] = byte(i)
	}
	assert.Equal(t, byte(47), r.Bytes()[47], "region is writable and stable")
	assert.Equal(t, 48, a.InUse())
	assert.Equal(t, 1, a.Live())

	r.Release()
	r.Release()
	assert.Zero(t, a.InUse())
	assert.Zero(t, a.Live())
}

func TestLockedAllocator_InvalidSize(t *testing.T) {
	t.Parallel()

	_, err := NewLockedAllocator(0).Allocate(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid size")
}

func TestLockedAllocator_Budget(t *testing.T) {
	t.Parallel()

	a := NewLockedAllocator(64)
	r, err := a.Allocate(40)
	require.NoError(t, err)
	defer r.Release()

	_, err = a.Allocate(40)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget exhausted")
	assert.Equal(t, 40, a.InUse())
}

func TestLockedAllocator_BacksAStack(t *testing.T) {
	t.Parallel()

	a := NewLockedAllocator(0)
	s, err := stack.New(stack.WithAllocator(a))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Push(stack.Element(i)))
	}
	assert.Equal(t, 32, s.Capacity())
	assert.Equal(t, 1, a.Live(), "grown regions replace the old one")

	for i := 19; i >= 0; i-- {
		v, err := s.Pop()
		require.NoError(t, err)
		require.Equal(t, stack.Element(i), v)
	}
	assert.True(t, s.Verify().Healthy())

	require.NoError(t, s.Destroy())
	assert.Zero(t, a.Live())
	assert.Zero(t, a.InUse())
}

func TestLockedAllocator_BudgetSurfacesAsOutOfMemory(t *testing.T) {
	t.Parallel()

	// Room for the initial 4 slots plus guards only.
	a := NewLockedAllocator(2*stack.GuardSize + stack.MinCapacity*stack.ElementSize)
	s, err := stack.New(stack.WithAllocator(a))
	require.NoError(t, err)
	defer s.Destroy()

	for i := 0; i < stack.MinCapacity; i++ {
		require.NoError(t, s.Push(stack.Element(i)))
	}
	assert.ErrorIs(t, s.Push(99), stack.OutOfMemory)
	assert.Equal(t, stack.MinCapacity, s.Size())
}
