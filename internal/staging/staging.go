// Package staging writes record exports atomically: files are built under a
// staging directory and only renamed into place once complete.
package staging

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// CompressedSuffix marks exports written with zstd.
const CompressedSuffix = ".zst"

type Manager struct {
	baseDir     string
	stagingRoot string
}

func NewManager(baseDir string) *Manager {
	return &Manager{
		baseDir:     baseDir,
		stagingRoot: filepath.Join(baseDir, ".staging"),
	}
}

func (m *Manager) FinalDir() string {
	return m.baseDir
}

func (m *Manager) StagingRoot() string {
	return m.stagingRoot
}

func (m *Manager) StagingPath(name string) string {
	return filepath.Join(m.stagingRoot, name)
}

// WriteToStaging writes recs as newline-delimited JSON to the staging copy of
// name, compressing when name ends in CompressedSuffix. It returns the number
// of bytes on disk.
func (m *Manager) WriteToStaging(ctx context.Context, name string, recs []store.Record) (int64, error) {
	destPath := m.StagingPath(name)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return 0, fmt.Errorf("creating directories: %w", err)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	cw := &countingWriter{w: f}
	err = writeRecords(ctx, cw, recs, strings.HasSuffix(name, CompressedSuffix))
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("writing export: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}

	return cw.n, nil
}

// Commit moves the staged name into the final directory.
func (m *Manager) Commit(name string) error {
	destPath := filepath.Join(m.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}
	if err := os.Rename(m.StagingPath(name), destPath); err != nil {
		return fmt.Errorf("committing %s: %w", name, err)
	}
	return nil
}

func (m *Manager) CleanupStaging() error {
	return os.RemoveAll(m.stagingRoot)
}

// Export stages and commits recs as name in one step.
func (m *Manager) Export(ctx context.Context, name string, recs []store.Record) (int64, error) {
	defer func() { _ = m.CleanupStaging() }()

	size, err := m.WriteToStaging(ctx, name, recs)
	if err != nil {
		return 0, err
	}
	if err := m.Commit(name); err != nil {
		return 0, err
	}
	return size, nil
}

// Open returns a reader over an export written by Export, decompressing
// files that end in CompressedSuffix.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("opening zstd stream: %w", err)
	}
	return &zstdFile{Decoder: dec, f: f}, nil
}

func writeRecords(ctx context.Context, w io.Writer, recs []store.Record, compress bool) error {
	var zw *zstd.Encoder
	if compress {
		var err error
		if zw, err = zstd.NewWriter(w); err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		w = zw
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range recs {
		if err := ctx.Err(); err != nil {
			if zw != nil {
				_ = zw.Close()
			}
			return err
		}
		if err := enc.Encode(&recs[i]); err != nil {
			if zw != nil {
				_ = zw.Close()
			}
			return fmt.Errorf("encoding record %s: %w", recs[i].ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if zw != nil {
		return zw.Close()
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}
