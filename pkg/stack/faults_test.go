package stack

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaults_SetOperations(t *testing.T) {
	t.Parallel()

	f := StructGuardLeftDamaged | DataChecksumDamaged

	assert.False(t, f.Healthy())
	assert.Equal(t, 2, f.Count())
	assert.True(t, f.Has(StructGuardLeftDamaged))
	assert.True(t, f.Has(DataChecksumDamaged))
	assert.False(t, f.Has(EmptyStack))
	assert.False(t, f.Has(0), "empty set is never contained")
	assert.Equal(t, []Faults{StructGuardLeftDamaged, DataChecksumDamaged}, f.List())
	assert.Equal(t, "StructGuardLeftDamaged|DataChecksumDamaged", f.String())
}

func TestFaults_AllDistinct(t *testing.T) {
	t.Parallel()

	all := AllFaults()
	require.Len(t, all, 11)

	var union Faults
	for _, f := range all {
		assert.Equal(t, 1, f.Count(), "%s must be a single bit", f)
		assert.NotEmpty(t, f.Message())
		assert.Zero(t, union&f, "%s overlaps another fault", f)
		union |= f
	}
	assert.Equal(t, 11, union.Count())
}

func TestFaults_Error(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Faults(0).Err())
	assert.Equal(t, "OK", Faults(0).String())

	err := (EmptyStack | OutOfMemory).Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no memory")
	assert.Contains(t, err.Error(), "trying to pop from empty stack")
}

func TestFaults_ErrorsIs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("push: %w", DataGuardLeftDamaged|DataGuardRightDamaged)

	assert.True(t, errors.Is(err, DataGuardLeftDamaged))
	assert.True(t, errors.Is(err, DataGuardRightDamaged))
	assert.True(t, errors.Is(err, DataGuardLeftDamaged|DataGuardRightDamaged))
	assert.False(t, errors.Is(err, EmptyStack))

	f, ok := AsFaults(err)
	require.True(t, ok)
	assert.Equal(t, DataGuardLeftDamaged|DataGuardRightDamaged, f)

	_, ok = AsFaults(errors.New("unrelated"))
	assert.False(t, ok)

	f, ok = AsFaults(nil)
	assert.True(t, ok)
	assert.True(t, f.Healthy())
}

func TestFaults_MessageOnlyForSingleFault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "left guard of stack damaged", StructGuardLeftDamaged.Message())
	assert.Empty(t, (EmptyStack | OutOfMemory).Message())
	assert.Empty(t, Faults(0).Message())
}
