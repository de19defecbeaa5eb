package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mapforge/levelsweep/internal/adapter"
	"github.com/mapforge/levelsweep/internal/controller"
	m "github.com/mapforge/levelsweep/internal/model"
	"github.com/mapforge/levelsweep/internal/parser"
)

// Workflow is the engine entry point. One workflow drives one operation; the
// caller serializes operations against the same level tree and re-reads the
// level after any physical change.
type Workflow interface {
	// ReadLevel walks the level root, parses every recognized file and
	// builds the dependency graph. An unreadable root is the only fatal
	// error; per-file failures become diagnostics.
	ReadLevel(ctx context.Context, root m.Path) (*m.LevelTree, error)

	// Resolve produces the ordered delete-candidate list, cross-referencing
	// the optional missing-files log.
	Resolve(ctx context.Context, tree *m.LevelTree, missingLog m.Path) ([]m.DeleteCandidate, error)

	// Delete removes the selected candidates best-effort and flushes the
	// diagnostic log files.
	Delete(ctx context.Context, tree *m.LevelTree, selected []m.DeleteCandidate) (*m.DiagnosticLog, error)

	// PlanShift computes the position rewrite without touching disk.
	PlanShift(ctx context.Context, tree *m.LevelTree, off Offset) (*ShiftPlan, error)

	// Shift applies the offset and returns the number of position fields
	// actually rewritten.
	Shift(ctx context.Context, tree *m.LevelTree, off Offset) (int, error)

	// Diagnostics returns the log accumulated by this workflow so far.
	Diagnostics() *m.DiagnosticLog
}

type workflow struct {
	fs       adapter.LevelFSAdapter
	logs     adapter.LogStore
	rules    KeepRules
	executor *Executor
	diag     *m.DiagnosticLog
}

// NewWorkflow creates a Workflow for a single operation, flushing its log
// files into the output directory. Appending to the workflow's DiagnosticLog
// is the single emission path: every kept entry fans out to the notifier and
// to slog through the log's observer, no matter which stage produced it.
func NewWorkflow(
	fs adapter.LevelFSAdapter,
	logs adapter.LogStore,
	notify controller.Notifier,
	rules KeepRules,
	output m.Path,
) Workflow {
	diag := m.NewDiagnosticLog()
	diag.Observe(func(entry m.Diagnostic) {
		notify.Notify(entry.Severity, entry.Message)

		switch entry.Severity {
		case m.SeverityError:
			slog.Error(entry.Message)
		case m.SeverityWarning:
			slog.Warn(entry.Message)
		default:
			slog.Info(entry.Message)
		}
	})

	return &workflow{
		fs:       fs,
		logs:     logs,
		rules:    rules,
		executor: NewExecutor(fs, logs, output),
		diag:     diag,
	}
}

func (w *workflow) Diagnostics() *m.DiagnosticLog {
	return w.diag
}

func (w *workflow) ReadLevel(ctx context.Context, root m.Path) (*m.LevelTree, error) {
	if _, err := w.fs.Stat(root); err != nil {
		return nil, fmt.Errorf("level root %s: %w", root, err)
	}

	files, err := w.listFiles(root)
	if err != nil {
		return nil, fmt.Errorf("enumerate level tree %s: %w", root, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree := &m.LevelTree{Root: root, Files: files}
	tree.Documents = w.parseAll(ctx, tree)
	tree.Name = w.levelName(tree)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree.SetGraph(BuildGraph(tree, w.rules, w.diag))

	w.diag.Appendf(m.SeverityInfo, "read level %q: %d files, %d documents",
		tree.Name, len(tree.Files), len(tree.Documents))

	return tree, nil
}

// listFiles enumerates the physical tree, sorted by relative path so every
// later stage is independent of filesystem enumeration order.
func (w *workflow) listFiles(root m.Path) ([]m.FileRecord, error) {
	prefix := strings.TrimSuffix(string(root), "/") + "/"

	var files []m.FileRecord

	err := w.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == string(root) {
				return err
			}

			w.diag.Appendf(m.SeverityWarning, "cannot read %s: %v", path, err)

			return nil
		}

		if info.IsDir() {
			if path != string(root) && w.rules.Excludes(info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		rel := strings.ReplaceAll(strings.TrimPrefix(path, prefix), "\\", "/")
		files = append(files, m.FileRecord{Rel: m.Path(rel), Size: info.Size()})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })

	return files, nil
}

// parseAll parses every recognized file. A file is always fully parsed before
// the next cancellation check; per-file failures never stop the stage.
func (w *workflow) parseAll(ctx context.Context, tree *m.LevelTree) []*m.ParsedDocument {
	var docs []*m.ParsedDocument

	for _, file := range tree.Files {
		if ctx.Err() != nil {
			return docs
		}

		if parser.DetectKind(file.Rel) == m.KindUnknown {
			continue
		}

		raw, err := w.fs.ReadFile(tree.Abs(file.Rel))
		if err != nil {
			w.diag.Appendf(m.SeverityError, "cannot read %s: %v", file.Rel, err)
			continue
		}

		doc, err := parser.Parse(file.Rel, raw, w.diag)
		if err != nil {
			w.diag.Appendf(m.SeverityError, "%v", err)
			continue
		}

		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs
}

func (w *workflow) levelName(tree *m.LevelTree) string {
	for _, doc := range tree.Documents {
		if doc.Kind != m.KindDescriptor {
			continue
		}

		if name := parser.LevelName(doc); name != "" {
			return name
		}
	}

	return tree.Root.Base()
}

func (w *workflow) Resolve(ctx context.Context, tree *m.LevelTree, missingLog m.Path) ([]m.DeleteCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graph := tree.Graph()
	if graph == nil {
		return nil, fmt.Errorf("level tree is stale, re-read the level first")
	}

	missing, err := w.logs.ReadMissingLog(missingLog)
	if err != nil {
		return nil, err
	}

	candidates := ResolveOrphans(tree, graph, missing, w.diag)

	w.diag.Appendf(m.SeverityInfo, "resolved %d delete candidates for level %q", len(candidates), tree.Name)

	// A read-only scan ends here, so its audit trail is persisted now. A
	// following mutation re-flushes the same log with its entries added.
	if err := w.executor.flush(tree, w.diag); err != nil {
		return nil, err
	}

	return candidates, nil
}

func (w *workflow) Delete(ctx context.Context, tree *m.LevelTree, selected []m.DeleteCandidate) (*m.DiagnosticLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if tree.Stale() {
		return nil, fmt.Errorf("level tree is stale, re-read the level first")
	}

	return w.executor.Delete(tree, selected, w.diag)
}

func (w *workflow) PlanShift(ctx context.Context, tree *m.LevelTree, off Offset) (*ShiftPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if tree.Stale() {
		return nil, fmt.Errorf("level tree is stale, re-read the level first")
	}

	plan := &ShiftPlan{}

	for _, doc := range tree.Documents {
		if doc.Kind != m.KindMissionGroup {
			continue
		}

		if ctx.Err() != nil {
			break
		}

		src, err := w.fs.ReadFile(tree.Abs(doc.Path))
		if err != nil {
			w.diag.Appendf(m.SeverityError, "cannot read %s: %v", doc.Path, err)
			continue
		}

		shift, err := PlanShift(doc, src, off)
		if err != nil {
			w.diag.Appendf(m.SeverityError, "%v", err)
			continue
		}

		plan.Files = append(plan.Files, *shift)
		plan.Changed += shift.FieldsChanged
	}

	return plan, nil
}

func (w *workflow) Shift(ctx context.Context, tree *m.LevelTree, off Offset) (int, error) {
	plan, err := w.PlanShift(ctx, tree, off)
	if err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	committed, _, err := w.executor.CommitRewrite(tree, plan, w.diag)
	if err != nil {
		return committed, err
	}

	w.diag.Appendf(m.SeverityInfo, "shifted %d position fields in level %q", committed, tree.Name)

	return committed, nil
}
