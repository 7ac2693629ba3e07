package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	scheduleID, teamID, err := parseIDs([]string{"1234", "101"})
	require.NoError(t, err)
	assert.Equal(t, int64(1234), scheduleID)
	assert.Equal(t, int64(101), teamID)
}

func TestParseIDs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"one arg", []string{"1234"}},
		{"too many", []string{"1", "2", "3"}},
		{"non numeric schedule", []string{"abc", "101"}},
		{"non numeric team", []string{"1234", "x"}},
		{"zero team", []string{"1234", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseIDs(tt.args)
			assert.Error(t, err)
		})
	}
}
