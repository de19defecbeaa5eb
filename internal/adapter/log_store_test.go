package adapter

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	m "github.com/mapforge/levelsweep/internal/model"
)

func TestFileLogStoreFlushSplitsBySeverity(t *testing.T) {
	fs := NewBillyFSAdapter(memfs.New())
	store := NewFileLogStore(fs)

	log := m.NewDiagnosticLog()
	log.Append(m.SeverityInfo, "deleted art/tex/unused.png (0.50 MB)")
	log.Append(m.SeverityWarning, `material "asphalt" defined in 2 files: a, b`)
	log.Append(m.SeverityError, "cannot delete art/tex/locked.png: permission denied")

	warnPath, errPath, err := store.Flush("/out", "gridmap", log)
	require.NoError(t, err)
	require.Equal(t, m.Path("/out/gridmap_Warnings.log"), warnPath)
	require.Equal(t, m.Path("/out/gridmap_Errors.log"), errPath)

	warnings, err := fs.ReadFile(warnPath)
	require.NoError(t, err)
	require.Equal(t,
		"[info] deleted art/tex/unused.png (0.50 MB)\n"+
			"[warning] material \"asphalt\" defined in 2 files: a, b\n",
		string(warnings))

	failures, err := fs.ReadFile(errPath)
	require.NoError(t, err)
	require.Equal(t, "[error] cannot delete art/tex/locked.png: permission denied\n", string(failures))
}

func TestFileLogStoreFlushTruncatesPerOperation(t *testing.T) {
	fs := NewBillyFSAdapter(memfs.New())
	store := NewFileLogStore(fs)

	first := m.NewDiagnosticLog()
	first.Append(m.SeverityError, "older failure")

	_, _, err := store.Flush("/out", "gridmap", first)
	require.NoError(t, err)

	_, errPath, err := store.Flush("/out", "gridmap", m.NewDiagnosticLog())
	require.NoError(t, err)

	failures, err := fs.ReadFile(errPath)
	require.NoError(t, err)
	require.Empty(t, failures, "every operation starts a fresh log file")
}

func TestFileLogStoreFlushDefaultsLevelName(t *testing.T) {
	fs := NewBillyFSAdapter(memfs.New())

	warnPath, errPath, err := NewFileLogStore(fs).Flush("/out", "", m.NewDiagnosticLog())
	require.NoError(t, err)
	require.Equal(t, m.Path("/out/level_Warnings.log"), warnPath)
	require.Equal(t, m.Path("/out/level_Errors.log"), errPath)
}

func TestFileLogStoreReadMissingLog(t *testing.T) {
	fs := NewBillyFSAdapter(memfs.New())
	content := "# BeamNG missing files\n\nlevels/gridmap/art/tex/a.png\n  levels/gridmap/art/tex/b.png  \n#skip me\n"
	require.NoError(t, fs.WriteFile("/missing.log", []byte(content), 0o644))

	store := NewFileLogStore(fs)

	entries, err := store.ReadMissingLog("/missing.log")
	require.NoError(t, err)
	require.Equal(t, []string{
		"levels/gridmap/art/tex/a.png",
		"levels/gridmap/art/tex/b.png",
	}, entries)
}

func TestFileLogStoreReadMissingLogEmptyPath(t *testing.T) {
	store := NewFileLogStore(NewBillyFSAdapter(memfs.New()))

	entries, err := store.ReadMissingLog("")
	require.NoError(t, err)
	require.Nil(t, entries)
}

func TestFileLogStoreReadMissingLogMissingFile(t *testing.T) {
	store := NewFileLogStore(NewBillyFSAdapter(memfs.New()))

	_, err := store.ReadMissingLog("/nope.log")
	require.Error(t, err)
}
