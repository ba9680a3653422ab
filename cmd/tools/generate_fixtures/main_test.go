package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/valuation/fixtures"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "fixtures")
	doc := fixtures.Generate()

	files, err := write(dir, doc)
	require.NoError(t, err)
	require.Len(t, files, 3)

	data, err := os.ReadFile(filepath.Join(dir, "dcf.json"))
	require.NoError(t, err)
	var dcf []fixtures.DCFOutcome
	require.NoError(t, json.Unmarshal(data, &dcf))
	require.Len(t, dcf, len(doc.DCF))

	for i, c := range dcf {
		assert.Equal(t, doc.DCF[i].Name, c.Name)
		if doc.DCF[i].Error != "" {
			assert.Nil(t, c.Output)
			assert.Equal(t, doc.DCF[i].Error, c.Error)
			continue
		}
		require.NotNil(t, c.Output, c.Name)
		assert.InDelta(t, doc.DCF[i].Output.ValuePerShare, c.Output.ValuePerShare, 1e-9)
	}

	data, err = os.ReadFile(filepath.Join(dir, "r_and_d_adjustment.json"))
	require.NoError(t, err)
	var rd []fixtures.RDOutcome
	require.NoError(t, json.Unmarshal(data, &rd))
	assert.Len(t, rd, len(doc.RDAdjustment))
}

func TestWrite_BadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := write(filepath.Join(file, "sub"), fixtures.Generate())
	assert.Error(t, err)
}
