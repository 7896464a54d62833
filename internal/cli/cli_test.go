package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_PositionalProjectFile(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"system.prj.hcl"}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "system.prj.hcl", cfg.ProjectFile)
	require.Equal(t, ".", cfg.OutputDir)
	require.Empty(t, cfg.IncludePaths)
}

func TestParse_ProjectFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-project", "system.prj.hcl"}, out)

	require.NoError(t, err)
	require.Equal(t, "system.prj.hcl", cfg.ProjectFile)
}

func TestParse_RepeatedIncludePathsKeepOrder(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-I", "first", "-I", "second", "system.prj.hcl"}, out)

	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, []string(cfg.IncludePaths))
}

func TestParse_OutputDir(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, _, err := Parse([]string{"-o", "gen", "system.prj.hcl"}, out)

	require.NoError(t, err)
	require.Equal(t, "gen", cfg.OutputDir)
}

func TestParse_NoProjectPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-log-format", "xml", "system.prj.hcl"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "log-format")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-log-level", "loud", "system.prj.hcl"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "log-level")
}
