package domain

import (
	"log/slog"

	"github.com/mapforge/levelsweep/internal/adapter"
	m "github.com/mapforge/levelsweep/internal/model"
)

// Executor performs the physical mutations of an operation: deletions and
// rewrite commits. Every mutation is best-effort per file; failures become
// error diagnostics and processing continues. The accumulated log is flushed
// to the persisted warning/error files before control returns.
type Executor struct {
	fs     adapter.LevelFSAdapter
	logs   adapter.LogStore
	output m.Path
}

// NewExecutor constructs an Executor writing its log files into output.
func NewExecutor(fs adapter.LevelFSAdapter, logs adapter.LogStore, output m.Path) *Executor {
	return &Executor{fs: fs, logs: logs, output: output}
}

// Delete removes the selected candidates one by one. A file that cannot be
// removed (locked, permissions) is recorded as a DeletionError and the rest
// of the candidates are still processed. Any successful deletion invalidates
// the tree's cached graph.
func (e *Executor) Delete(tree *m.LevelTree, selected []m.DeleteCandidate, diag *m.DiagnosticLog) (*m.DiagnosticLog, error) {
	deleted := 0

	for _, candidate := range selected {
		abs := tree.Abs(candidate.Rel)

		if err := e.fs.Remove(abs); err != nil {
			delErr := &m.DeletionError{Path: candidate.Rel, Err: err}
			diag.Append(m.SeverityError, delErr.Error())
			slog.Error("deletion failed", "path", candidate.Rel, "error", err)

			continue
		}

		deleted++

		diag.Appendf(m.SeverityInfo, "deleted %s (%.2f MB)", candidate.Rel, candidate.SizeMB)
	}

	if deleted > 0 {
		tree.Invalidate()
	}

	return diag, e.flush(tree, diag)
}

// CommitRewrite writes the planned file shifts to disk and returns the number
// of position fields actually committed. Each file is replaced atomically
// with its fully rewritten content; a failed write is recorded as a
// RewriteError for that file and the remaining files are still committed.
func (e *Executor) CommitRewrite(tree *m.LevelTree, plan *ShiftPlan, diag *m.DiagnosticLog) (int, *m.DiagnosticLog, error) {
	committed := 0
	written := 0

	for _, file := range plan.Files {
		if file.FieldsChanged == 0 {
			continue
		}

		abs := tree.Abs(file.Rel)

		if err := e.fs.SpliceFile(abs, file.After); err != nil {
			rwErr := &m.RewriteError{Path: file.Rel, Detail: err.Error()}
			diag.Append(m.SeverityError, rwErr.Error())
			slog.Error("rewrite failed", "path", file.Rel, "error", err)

			continue
		}

		written++
		committed += file.FieldsChanged

		diag.Appendf(m.SeverityInfo, "shifted %d position fields in %s", file.FieldsChanged, file.Rel)
	}

	if written > 0 {
		tree.Invalidate()
	}

	return committed, diag, e.flush(tree, diag)
}

func (e *Executor) flush(tree *m.LevelTree, diag *m.DiagnosticLog) error {
	warnPath, errPath, err := e.logs.Flush(e.output, tree.Name, diag)
	if err != nil {
		return err
	}

	slog.Info("diagnostic log flushed", "warnings", warnPath, "errors", errPath, "entries", diag.Len())

	return nil
}
