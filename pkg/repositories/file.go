package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cbodonnell/tetris/pkg/repositories/models"
	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix marks a file repository path whose blob is zstd compressed.
const CompressedSuffix = ".zst"

// FileRepository stores the list as a single JSON document that is read and
// rewritten whole.
type FileRepository struct {
	path     string
	compress bool
}

// NewFileRepository creates a repository backed by the file at path. The
// file and its directory are created on the first save.
func NewFileRepository(path string) Repository {
	return &FileRepository{
		path:     path,
		compress: strings.HasSuffix(path, CompressedSuffix),
	}
}

func (r *FileRepository) Close(ctx context.Context) error {
	return nil
}

func (r *FileRepository) LoadHighScores(ctx context.Context) ([]models.HighScore, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrNotFound{Resource: r.path}
		}
		return nil, fmt.Errorf("failed to read %s: %v", r.path, err)
	}

	if r.compress {
		b, err = decompress(b)
		if err != nil {
			return nil, err
		}
	}

	var scores []models.HighScore
	if err := json.Unmarshal(b, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %v", r.path, err)
	}
	return scores, nil
}

func (r *FileRepository) SaveHighScores(ctx context.Context, scores []models.HighScore) error {
	if scores == nil {
		scores = []models.HighScore{}
	}
	b, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode high scores: %v", err)
	}
	if r.compress {
		b, err = compress(b)
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	// write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %v", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %v", r.path, err)
	}

	return nil
}

func compress(b []byte) ([]byte, error) {
	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress high scores: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}
	return compressed.Bytes(), nil
}

func decompress(b []byte) ([]byte, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()

	out, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress high scores: %v", err)
	}
	return out, nil
}
