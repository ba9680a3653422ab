package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/config"
)

func TestFromConfig_FileFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Presets.Dir = filepath.Join(t.TempDir(), "presets")

	repo, closeFn, err := FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &FileRepo{}, repo)
	assert.DirExists(t, cfg.Presets.Dir)
}
