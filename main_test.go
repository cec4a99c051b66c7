package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMainDelegatesToExecute(t *testing.T) {
	called := false
	orig := execute
	execute = func() { called = true }
	t.Cleanup(func() { execute = orig })

	main()

	require.True(t, called, "expected execute to be called")
}
