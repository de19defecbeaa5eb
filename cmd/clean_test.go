package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mapforge/levelsweep/internal/model"
)

func TestChooseCandidates_NonInteractiveTakesPreSelection(t *testing.T) {
	originalYes := cleanYesFlag
	cleanYesFlag = true
	t.Cleanup(func() { cleanYesFlag = originalYes })

	candidates := []m.DeleteCandidate{
		{Rel: "art/tex/a.png", PreSelected: true},
		{Rel: "art/tex/b.png", PreSelected: false},
		{Rel: "art/tex/c.png", PreSelected: true},
	}

	selected, ok, err := chooseCandidates(candidates)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []m.DeleteCandidate{
		{Rel: "art/tex/a.png", PreSelected: true},
		{Rel: "art/tex/c.png", PreSelected: true},
	}, selected)
}

func TestChooseCandidates_EmptyList(t *testing.T) {
	selected, ok, err := chooseCandidates(nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, selected)
}

func TestCleanCmd_EndToEnd(t *testing.T) {
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	root := writeScanFixture(t)

	output := &bytes.Buffer{}
	rootCmd.SetOut(output)
	rootCmd.SetErr(output)
	rootCmd.SetArgs([]string{"clean", root, "--yes"})

	require.NoError(t, rootCmd.Execute())

	assert.NoFileExists(t, filepath.Join(root, "art/tex/unused.png"))
	assert.FileExists(t, filepath.Join(root, "art/shapes/rock.dae"))
	assert.FileExists(t, filepath.Join(root, "info.json"))
	assert.Contains(t, output.String(), "processed 1 selected candidates")

	// Every mutating run leaves its audit trail.
	assert.FileExists(t, "Grid Map_Warnings.log")
	assert.FileExists(t, "Grid Map_Errors.log")
}
