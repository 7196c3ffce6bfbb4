package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	steps, err := Parse([]string{"push 5, push -4; pop", "top", "size", "corrupt", "element", "2", "corrupt data-left", "push 0x10", "dump"})
	require.NoError(t, err)

	want := []Step{
		{Kind: Push, Value: 5},
		{Kind: Push, Value: -4},
		{Kind: Pop},
		{Kind: Top},
		{Kind: Size},
		{Kind: Corrupt, Target: TargetElement, Arg: 2},
		{Kind: Corrupt, Target: TargetDataLeft},
		{Kind: Push, Value: 16},
		{Kind: Dump},
	}
	assert.Equal(t, want, steps)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown op", []string{"peek"}, `unknown operation "peek"`},
		{"push without value", []string{"push"}, "push needs an integer"},
		{"push out of range", []string{"push 4294967296"}, "invalid integer"},
		{"push not a number", []string{"push five"}, "invalid integer"},
		{"corrupt without target", []string{"corrupt"}, "corrupt needs a target"},
		{"unknown target", []string{"corrupt heap"}, "unknown corruption target"},
		{"element without slot", []string{"corrupt element"}, "corrupt element needs an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStepString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "push -3", Step{Kind: Push, Value: -3}.String())
	assert.Equal(t, "corrupt size 9", Step{Kind: Corrupt, Target: TargetSize, Arg: 9}.String())
	assert.Equal(t, "corrupt struct-left", Step{Kind: Corrupt, Target: TargetStructLeft}.String())
	assert.Equal(t, "destroy", Step{Kind: Destroy}.String())
}
