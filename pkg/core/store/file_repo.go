package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileRepo stores one JSON document per ticker in a directory. It backs the
// preset endpoints when no database is configured.
type FileRepo struct {
	dir string
	log *zap.Logger
}

// NewFileRepo creates dir if needed. log may be nil.
func NewFileRepo(dir string, log *zap.Logger) (*FileRepo, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir == "" {
		dir = filepath.Join("data", "presets")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preset dir: %w", err)
	}
	return &FileRepo{dir: dir, log: log.Named("preset_files")}, nil
}

func (r *FileRepo) path(ticker string) string {
	return filepath.Join(r.dir, ticker+".json")
}

// Save writes the preset atomically via a temp file and rename.
func (r *FileRepo) Save(ctx context.Context, p Preset) error {
	ticker, err := normalizeTicker(p.Ticker)
	if err != nil {
		return err
	}
	p.Ticker = ticker
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+ticker+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save preset %s: %w", ticker, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save preset %s: %w", ticker, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save preset %s: %w", ticker, err)
	}
	return os.Rename(tmp.Name(), r.path(ticker))
}

func (r *FileRepo) Get(ctx context.Context, ticker string) (Preset, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return Preset{}, err
	}
	return r.load(r.path(t))
}

func (r *FileRepo) load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(path), ".json"))
	}
	if err != nil {
		return Preset{}, fmt.Errorf("failed to read preset: %w", err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return p, nil
}

// Search scans every preset in the directory. Unreadable files are logged and
// skipped.
func (r *FileRepo) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Match{}, nil
	}

	paths, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	q := strings.ToLower(query)
	matches := []Match{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := r.load(path)
		if err != nil {
			r.log.Warn("skipping unreadable preset", zap.String("file", path), zap.Error(err))
			continue
		}
		if strings.HasPrefix(strings.ToLower(p.Ticker), q) || strings.HasPrefix(strings.ToLower(p.Name), q) {
			matches = append(matches, Match{Ticker: p.Ticker, Name: p.Name})
		}
	}
	return rankMatches(matches, query, clampLimit(limit)), nil
}
