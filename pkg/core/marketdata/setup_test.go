package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"intrinsic_valuation/pkg/core/config"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default()

	p, closeFn := FromConfig(cfg, nil, nil)
	defer closeFn()
	assert.IsType(t, &ChartClient{}, p)

	cfg.Redis.Addr = "127.0.0.1:0"
	p, closeFn = FromConfig(cfg, nil, nil)
	defer closeFn()
	assert.IsType(t, &CachedProvider{}, p)
}
