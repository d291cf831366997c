package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpecNotFound(t *testing.T) {
	err := SpecNotFound("imagespec.yaml does not exist")
	require.True(t, IsSpecNotFound(err))
	require.Equal(t, CodeSpecNotFound, Code(err))
	require.Equal(t, "imagespec.yaml does not exist", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	require.Equal(t, "", Code(fmt.Errorf("boom")))
	require.False(t, IsSpecNotFound(fmt.Errorf("boom")))
}

func TestCodeOfWrappedError(t *testing.T) {
	err := fmt.Errorf("loading spec: %w", SpecNotFound("imagespec.yaml does not exist"))
	require.True(t, IsSpecNotFound(err))
	require.Equal(t, CodeSpecNotFound, Code(err))
}
