package adapter

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"

	m "github.com/mapforge/levelsweep/internal/model"
)

// CompressionLevel selects the packaging trade-off. The value only affects
// archive size and speed, never engine correctness.
type CompressionLevel string

const (
	// CompressionNone stores files without compression.
	CompressionNone CompressionLevel = "none"
	// CompressionFastest favors speed over size.
	CompressionFastest CompressionLevel = "fastest"
	// CompressionOptimal is the balanced default.
	CompressionOptimal CompressionLevel = "optimal"
	// CompressionSmallest favors size over speed.
	CompressionSmallest CompressionLevel = "smallest"
)

// ParseCompressionLevel maps a flag value onto a CompressionLevel.
func ParseCompressionLevel(value string) (CompressionLevel, error) {
	switch CompressionLevel(strings.ToLower(value)) {
	case CompressionNone, CompressionFastest, CompressionOptimal, CompressionSmallest:
		return CompressionLevel(strings.ToLower(value)), nil
	default:
		return "", fmt.Errorf("unknown compression level %q (want none, fastest, optimal or smallest)", value)
	}
}

func (c CompressionLevel) flateLevel() int {
	switch c {
	case CompressionFastest:
		return flate.BestSpeed
	case CompressionSmallest:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}

// ArchiveService packs and unpacks level archives. The engine treats both
// directions as opaque: an archive in, a directory out, and back.
type ArchiveService interface {
	// Unpack extracts archivePath into a sibling directory named after the
	// archive plus destSuffix and returns the extracted root.
	Unpack(archivePath m.Path, destSuffix string) (m.Path, error)

	// Pack builds <levelName>.zip next to sourcePath from the tree under
	// sourcePath and returns the archive path.
	Pack(sourcePath m.Path, levelName string, level CompressionLevel) (m.Path, error)
}

// ZipArchiveService implements ArchiveService with zip archives on the host
// filesystem.
type ZipArchiveService struct{}

// NewZipArchiveService constructs a ZipArchiveService.
func NewZipArchiveService() *ZipArchiveService {
	return &ZipArchiveService{}
}

// Unpack extracts the archive next to itself.
func (s *ZipArchiveService) Unpack(archivePath m.Path, destSuffix string) (m.Path, error) {
	reader, err := zip.OpenReader(string(archivePath))
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer func() { _ = reader.Close() }()

	base := strings.TrimSuffix(string(archivePath), filepath.Ext(string(archivePath)))
	dest := base + destSuffix

	if err := os.MkdirAll(dest, 0o750); err != nil {
		return "", fmt.Errorf("create destination %s: %w", dest, err)
	}

	for _, entry := range reader.File {
		if err := extractEntry(entry, dest); err != nil {
			return "", err
		}
	}

	return m.Path(dest), nil
}

func extractEntry(entry *zip.File, dest string) error {
	name := filepath.FromSlash(entry.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("archive entry %q escapes the destination", entry.Name)
	}

	target := filepath.Join(dest, name)

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o750)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}

	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}

	return out.Close()
}

// Pack builds the level archive from the tree under sourcePath.
func (s *ZipArchiveService) Pack(sourcePath m.Path, levelName string, level CompressionLevel) (m.Path, error) {
	if levelName == "" {
		levelName = filepath.Base(string(sourcePath))
	}

	archivePath := filepath.Join(filepath.Dir(string(sourcePath)), levelName+".zip")

	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive %s: %w", archivePath, err)
	}

	writer := zip.NewWriter(out)
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level.flateLevel())
	})

	method := uint16(zip.Deflate)
	if level == CompressionNone {
		method = zip.Store
	}

	walkErr := filepath.Walk(string(sourcePath), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(string(sourcePath), path)
		if err != nil {
			return err
		}

		header := &zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   method,
			Modified: info.ModTime(),
		}

		entry, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()

		_, err = io.Copy(entry, in)

		return err
	})

	if walkErr != nil {
		_ = writer.Close()
		_ = out.Close()
		_ = os.Remove(archivePath)

		return "", fmt.Errorf("pack %s: %w", sourcePath, walkErr)
	}

	if err := writer.Close(); err != nil {
		_ = out.Close()

		return "", fmt.Errorf("finalize archive: %w", err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}

	return m.Path(archivePath), nil
}
