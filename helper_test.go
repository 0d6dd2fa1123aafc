package logging

import (
	"fmt"
	"strings"
	"testing"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorChain_WithDetailedAndStd(t *testing.T) {
	inner := smerrors.New("file.open").Msg("open Logs/2024.txt: permission denied")
	middle := smerrors.New("file.rotate").Err(inner).Msg("rotate log file")
	outer := smerrors.New("file.write").Err(middle).Msg("write failed")

	chain, ops, root, rootOp := buildErrorChain(outer)
	assert.Equal(t, []string{
		"write failed",
		"rotate log file",
		"open Logs/2024.txt: permission denied",
	}, chain)
	assert.Equal(t, []string{"file.write", "file.rotate", "file.open"}, ops)
	assert.Equal(t, "open Logs/2024.txt: permission denied", root)
	assert.Equal(t, "file.open", rootOp)

	wrapped := fmt.Errorf("sink: %w", outer)
	chain2, _, root2, _ := buildErrorChain(wrapped)
	assert.True(t, strings.HasPrefix(chain2[0], "sink:"))
	assert.Equal(t, root, root2)
}

func TestJoinChain(t *testing.T) {
	assert.Equal(t, "", joinChain(nil))
	assert.Equal(t, "a -> b", joinChain([]string{"a", "b"}))
}

func TestParseDiagnosticsLevel(t *testing.T) {
	l, err := parseDiagnosticsLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, l)

	l, err = parseDiagnosticsLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l)

	_, err = parseDiagnosticsLevel("chatty")
	assert.Error(t, err)
}

func TestExecutableName(t *testing.T) {
	assert.NotEmpty(t, executableName())
}
