/*
 * config_test.go, part of trajcol.
 *
 *
 * Copyright 2024 The trajcol Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnicholas/trajcol"
	"github.com/tcnicholas/trajcol/nd"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const sample = `
immutable: [symbols, tags]
mutable: [forces]
info: [energy, step]
precision: float64
compression: lz4
`

func TestParseAndDefaults(Te *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	require.NoError(Te, err)
	cfg.ApplyDefaults()
	require.NoError(Te, cfg.Validate())
	assert.Equal(Te, []string{"symbols", "tags"}, cfg.Immutable)
	assert.Equal(Te, "info", cfg.LogLevel)
	d, err := cfg.FloatPrecision()
	require.NoError(Te, err)
	assert.Equal(Te, nd.Float64, d)

	T, err := cfg.Trajectory(zap.NewNop())
	require.NoError(Te, err)
	assert.Equal(Te, []string{"numbers", "symbols", "tags"}, T.Immutable())
	assert.Equal(Te, []string{"forces", "positions"}, T.Mutable())
	assert.Equal(Te, []string{"energy", "step"}, T.InfoKeys())

	empty, err := Parse(strings.NewReader(""))
	require.NoError(Te, err)
	empty.ApplyDefaults()
	assert.Equal(Te, Default(), empty)

	_, err = Parse(strings.NewReader("precison: float64\n"))
	assert.Error(Te, err)
}

func TestValidate(Te *testing.T) {
	cfg := Default()
	cfg.Precision = "int64"
	cfg.Compression = "gzip"
	cfg.LogLevel = "loud"
	cfg.Immutable = []string{"charges"}
	cfg.Mutable = []string{"charges"}
	err := cfg.Validate()
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, trajcol.ErrKeyConflict))
	for _, s := range []string{"precision", "gzip", "loud", "'charges'"} {
		assert.Contains(Te, err.Error(), s)
	}
	_, err = cfg.Trajectory(zap.NewNop())
	assert.Error(Te, err)
}

func TestLoadWithEnv(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "trajcol.yaml")
	require.NoError(Te, os.WriteFile(name, []byte(sample), 0o644))
	Te.Setenv("TRAJCOL_COMPRESSION", "snappy")
	Te.Setenv("TRAJCOL_LOG_LEVEL", "debug")
	Te.Setenv("TRAJCOL_INFO", "energy, volume,")
	cfg, err := Load(name)
	require.NoError(Te, err)
	assert.Equal(Te, "snappy", cfg.Compression)
	assert.Equal(Te, "float64", cfg.Precision)
	assert.Equal(Te, []string{"energy", "volume"}, cfg.Info)

	log, err := cfg.Logger()
	require.NoError(Te, err)
	assert.True(Te, log.Core().Enabled(zapcore.DebugLevel))

	Te.Setenv("TRAJCOL_PRECISION", "float16")
	_, err = Load(name)
	assert.Error(Te, err)

	_, err = Load(filepath.Join(Te.TempDir(), "missing.yaml"))
	assert.ErrorIs(Te, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(Te *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	require.NoError(Te, err)
	out, err := cfg.Marshal()
	require.NoError(Te, err)
	back, err := Parse(strings.NewReader(string(out)))
	require.NoError(Te, err)
	assert.Equal(Te, cfg, back)
	assert.Equal(Te, "x", GetEnvOrDefault("TRAJCOL_SURELY_UNSET", "x"))
}
