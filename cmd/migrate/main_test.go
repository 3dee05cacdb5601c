package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ExitCodes(t *testing.T) {
	t.Run("unknown_command", func(t *testing.T) {
		require.Equal(t, 2, run([]string{"down"}))
	})

	t.Run("unknown_flag", func(t *testing.T) {
		require.Equal(t, 2, run([]string{"-force"}))
	})

	t.Run("memory_storage", func(t *testing.T) {
		t.Setenv("STORAGE", "memory")
		require.Equal(t, 1, run([]string{"status"}))
	})
}
