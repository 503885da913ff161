package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckArguments_CleanValues(t *testing.T) {
	args := []string{"30", "likes", "alice", "2024-03-05"}
	assert.Empty(t, CheckArguments(args))
}

func TestCheckArguments_DetectsInjectionPatterns(t *testing.T) {
	args := []string{"30", "' OR 1=1 --"}

	results := CheckArguments(args)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, "' OR 1=1 --", results[0].Value)
	assert.NotEmpty(t, results[0].Fingerprint)
}

func TestCheckArguments_Empty(t *testing.T) {
	assert.Empty(t, CheckArguments(nil))
	assert.Empty(t, CheckArguments([]string{}))
}
