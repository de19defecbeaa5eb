package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/mapforge/levelsweep/internal/adapter"
	m "github.com/mapforge/levelsweep/internal/model"
)

type nopNotifier struct{}

func (nopNotifier) Notify(m.Severity, string) {}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ m.Severity, message string) {
	n.messages = append(n.messages, message)
}

func levelFixture(t *testing.T) adapter.LevelFSAdapter {
	t.Helper()

	fs := adapter.NewBillyFSAdapter(memfs.New())

	files := map[string]string{
		"/levels/gridmap/info.json": `{"title":"Grid Map"}`,
		"/levels/gridmap/art/materials.json": `{
			// asphalt for the main roads
			"m_road":{"name":"road","colorMap":"art/tex/road_d"}
		}`,
		"/levels/gridmap/main/items.level.json": `{"class":"TSStatic","shapeName":"art/shapes/rock.dae","position":[10.5,20.0,-3.5]}
{"class":"DecalRoad","nodes":[[0.0,1.0,2.0,4]]}`,
		"/levels/gridmap/art/tex/road_d.dds":  "dds",
		"/levels/gridmap/art/shapes/rock.dae": "dae",
		"/levels/gridmap/art/tex/unused.png":  "png",
		"/levels/gridmap/.git/config":         "ignored",
	}

	for path, content := range files {
		require.NoError(t, fs.WriteFile(m.Path(path), []byte(content), 0o644))
	}

	return fs
}

func newTestWorkflow(fs adapter.LevelFSAdapter) Workflow {
	return NewWorkflow(fs, adapter.NewFileLogStore(fs), nopNotifier{}, DefaultKeepRules(), "/out")
}

func TestWorkflowReadLevel(t *testing.T) {
	fs := levelFixture(t)
	w := newTestWorkflow(fs)

	tree, err := w.ReadLevel(context.Background(), "/levels/gridmap")
	require.NoError(t, err)

	require.Equal(t, "Grid Map", tree.Name, "name comes from the descriptor title")
	require.Len(t, tree.Files, 6, "excluded directories are skipped")
	require.Len(t, tree.Documents, 3)
	require.NotNil(t, tree.Graph())

	// Listing order is stable regardless of walk order.
	for i := 1; i < len(tree.Files); i++ {
		require.True(t, tree.Files[i-1].Rel < tree.Files[i].Rel)
	}

	// The comment inside materials.json is stripped and reported once.
	infos := w.Diagnostics().Filter(m.SeverityInfo)
	require.NotEmpty(t, infos)
	require.Contains(t, infos[0].Message, "stripped comment")
}

func TestWorkflowReadLevelMissingRootIsFatal(t *testing.T) {
	fs := adapter.NewBillyFSAdapter(memfs.New())
	w := newTestWorkflow(fs)

	_, err := w.ReadLevel(context.Background(), "/levels/nowhere")
	require.Error(t, err)
	require.Contains(t, err.Error(), "/levels/nowhere")
}

func TestWorkflowReadLevelMalformedDocumentIsNotFatal(t *testing.T) {
	fs := levelFixture(t)
	require.NoError(t, fs.WriteFile("/levels/gridmap/broken/items.level.json", []byte(`{"a":`), 0o644))

	w := newTestWorkflow(fs)

	tree, err := w.ReadLevel(context.Background(), "/levels/gridmap")
	require.NoError(t, err)
	require.Len(t, tree.Documents, 3, "the malformed document is skipped")

	failures := w.Diagnostics().Filter(m.SeverityError)
	require.Len(t, failures, 1)
	require.Contains(t, failures[0].Message, "cannot parse broken/items.level.json")
}

func TestWorkflowResolveAndDelete(t *testing.T) {
	fs := levelFixture(t)
	w := newTestWorkflow(fs)
	ctx := context.Background()

	tree, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.NoError(t, err)

	candidates, err := w.Resolve(ctx, tree, "")
	require.NoError(t, err)
	require.Equal(t, []m.DeleteCandidate{
		{Rel: "art/tex/unused.png", SizeMB: 3.0 / (1024 * 1024), PreSelected: true},
	}, candidates)

	_, err = w.Delete(ctx, tree, candidates)
	require.NoError(t, err)
	require.False(t, fs.Exists("/levels/gridmap/art/tex/unused.png"))
	require.True(t, fs.Exists("/out/Grid Map_Warnings.log"))

	// The mutated tree is stale until re-read.
	_, err = w.Resolve(ctx, tree, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "stale")

	fresh, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.NoError(t, err)

	candidates, err = w.Resolve(ctx, fresh, "")
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestWorkflowResolveSurfacesGraphWarnings(t *testing.T) {
	fs := levelFixture(t)
	require.NoError(t, fs.WriteFile("/levels/gridmap/art/extra.materials.json",
		[]byte(`{"m_ghost":{"name":"ghost","colorMap":"art/tex/ghost"}}`), 0o644))

	notifier := &recordingNotifier{}
	w := NewWorkflow(fs, adapter.NewFileLogStore(fs), notifier, DefaultKeepRules(), "/out")
	ctx := context.Background()

	tree, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.NoError(t, err)

	_, err = w.Resolve(ctx, tree, "")
	require.NoError(t, err)

	var notified bool
	for _, msg := range notifier.messages {
		if strings.Contains(msg, `unresolved reference "art/tex/ghost"`) {
			notified = true
		}
	}
	require.True(t, notified, "graph warnings reach the notifier")

	// A read-only resolve persists the same warnings.
	got, err := fs.ReadFile("/out/Grid Map_Warnings.log")
	require.NoError(t, err)
	require.Contains(t, string(got), `unresolved reference "art/tex/ghost"`)
}

func TestWorkflowResolveReclassifiesAfterDocumentRemoval(t *testing.T) {
	fs := levelFixture(t)
	ctx := context.Background()

	// Drop the mission group: its shape reference disappears with it.
	require.NoError(t, fs.Remove("/levels/gridmap/main/items.level.json"))

	w := newTestWorkflow(fs)

	tree, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.NoError(t, err)

	candidates, err := w.Resolve(ctx, tree, "")
	require.NoError(t, err)

	rels := make([]m.Path, len(candidates))
	for i, c := range candidates {
		rels[i] = c.Rel
	}

	require.Equal(t, []m.Path{"art/shapes/rock.dae", "art/tex/unused.png"}, rels)
}

func TestWorkflowResolveHonorsMissingLog(t *testing.T) {
	fs := levelFixture(t)
	require.NoError(t, fs.WriteFile("/missing.log",
		[]byte("# reported by the game\n\n/levels/gridmap/art/tex/unused.png\n"), 0o644))

	w := newTestWorkflow(fs)
	ctx := context.Background()

	tree, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.NoError(t, err)

	candidates, err := w.Resolve(ctx, tree, "/missing.log")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.False(t, candidates[0].PreSelected)
}

func TestWorkflowShiftDryRunThenCommit(t *testing.T) {
	fs := levelFixture(t)
	w := newTestWorkflow(fs)
	ctx := context.Background()

	tree, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.NoError(t, err)

	off := mustOffset(t, "1.5", "-2.0", "0.5")

	plan, err := w.PlanShift(ctx, tree, off)
	require.NoError(t, err)
	require.Equal(t, 2, plan.Changed)

	// Planning never touches disk.
	src, err := fs.ReadFile("/levels/gridmap/main/items.level.json")
	require.NoError(t, err)
	require.Contains(t, string(src), "[10.5,20.0,-3.5]")

	committed, err := w.Shift(ctx, tree, off)
	require.NoError(t, err)
	require.Equal(t, 2, committed)

	got, err := fs.ReadFile("/levels/gridmap/main/items.level.json")
	require.NoError(t, err)
	require.Contains(t, string(got), "[12.0,18.0,-3.0]")
	require.Contains(t, string(got), "[[1.5,-1.0,2.5,4]]")
	require.True(t, tree.Stale())
}

func TestWorkflowShiftNullOffsetLeavesFilesUntouched(t *testing.T) {
	fs := levelFixture(t)
	w := newTestWorkflow(fs)
	ctx := context.Background()

	tree, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.NoError(t, err)

	before, err := fs.ReadFile("/levels/gridmap/main/items.level.json")
	require.NoError(t, err)

	committed, err := w.Shift(ctx, tree, mustOffset(t, "0", "0", "0"))
	require.NoError(t, err)
	require.Zero(t, committed)
	require.False(t, tree.Stale(), "no file was written")

	after, err := fs.ReadFile("/levels/gridmap/main/items.level.json")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestWorkflowCancelledContext(t *testing.T) {
	fs := levelFixture(t)
	w := newTestWorkflow(fs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.ReadLevel(ctx, "/levels/gridmap")
	require.ErrorIs(t, err, context.Canceled)
}
