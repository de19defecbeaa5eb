package adapter

import (
	"fmt"
	"strings"

	m "github.com/mapforge/levelsweep/internal/model"
)

// LogStore persists the diagnostic log of an operation and reads the
// externally produced missing-files log.
type LogStore interface {
	// Flush writes two plain-text files into dir, one line per diagnostic:
	// <level>_Warnings.log with info and warning entries, <level>_Errors.log
	// with error entries. Files are truncated per operation. It returns the
	// written paths.
	Flush(dir m.Path, level string, log *m.DiagnosticLog) (m.Path, m.Path, error)

	// ReadMissingLog reads the game-produced record of unloadable asset
	// paths, one per line. Blank lines and '#' comments are ignored. The
	// engine only ever reads this file.
	ReadMissingLog(path m.Path) ([]string, error)
}

// FileLogStore implements LogStore on a LevelFSAdapter.
type FileLogStore struct {
	fs LevelFSAdapter
}

// NewFileLogStore constructs a FileLogStore.
func NewFileLogStore(fs LevelFSAdapter) *FileLogStore {
	return &FileLogStore{fs: fs}
}

// Flush writes the warning and error files for one operation.
func (s *FileLogStore) Flush(dir m.Path, level string, log *m.DiagnosticLog) (m.Path, m.Path, error) {
	if level == "" {
		level = "level"
	}

	warnPath := m.Path(fmt.Sprintf("%s/%s_Warnings.log", dir, level))
	errPath := m.Path(fmt.Sprintf("%s/%s_Errors.log", dir, level))

	var warnings, errors strings.Builder

	for _, entry := range log.Entries() {
		line := fmt.Sprintf("[%s] %s\n", entry.Severity, entry.Message)

		if entry.Severity == m.SeverityError {
			errors.WriteString(line)
		} else {
			warnings.WriteString(line)
		}
	}

	if err := s.fs.WriteFile(warnPath, []byte(warnings.String()), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", warnPath, err)
	}

	if err := s.fs.WriteFile(errPath, []byte(errors.String()), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", errPath, err)
	}

	return warnPath, errPath, nil
}

// ReadMissingLog reads the missing-files log line by line.
func (s *FileLogStore) ReadMissingLog(path m.Path) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read missing-files log %s: %w", path, err)
	}

	var entries []string

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entries = append(entries, line)
	}

	return entries, nil
}
