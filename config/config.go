/*
 * config.go, part of trajcol.
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

//Package config holds the settings of the trajcol command: which properties
//go to each group of the container and how it is encoded.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tcnicholas/trajcol"
	"github.com/tcnicholas/trajcol/container"
	"github.com/tcnicholas/trajcol/nd"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

//Config is the content of a trajcol YAML file.
type Config struct {
	Immutable   []string `yaml:"immutable"`
	Mutable     []string `yaml:"mutable"`
	Info        []string `yaml:"info"`
	Precision   string   `yaml:"precision"`   //float32 or float64
	Compression string   `yaml:"compression"` //none, zstd, s2, lz4 or snappy
	LogLevel    string   `yaml:"log_level"`
}

//Default returns a Config with every default set.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

//ApplyDefaults fills the empty settings.
func (cfg *Config) ApplyDefaults() {
	if cfg.Precision == "" {
		cfg.Precision = "float32"
	}
	if cfg.Compression == "" {
		cfg.Compression = "zstd"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

//Validate checks the settings, including that the property names don't
//conflict.
func (cfg *Config) Validate() error {
	var errs []error
	if _, err := cfg.FloatPrecision(); err != nil {
		errs = append(errs, err)
	}
	if _, err := container.ParseCompression(cfg.Compression); err != nil {
		errs = append(errs, err)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := trajcol.ValidateKeys(cfg.Immutable, cfg.Mutable); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

//FloatPrecision returns the dtype named by Precision.
func (cfg *Config) FloatPrecision() (nd.DType, error) {
	d, ok := nd.ParseDType(strings.ToLower(cfg.Precision))
	if !ok || d.Category() != nd.CategoryFloat {
		return nd.Invalid, fmt.Errorf("precision must be float32 or float64, not %q", cfg.Precision)
	}
	return d, nil
}

//Options returns the trajcol options for cfg, which must be valid.
func (cfg *Config) Options(log *zap.Logger) ([]trajcol.Option, error) {
	d, err := cfg.FloatPrecision()
	if err != nil {
		return nil, err
	}
	c, err := container.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	return []trajcol.Option{
		trajcol.WithFloatPrecision(d),
		trajcol.WithCompression(c),
		trajcol.WithLogger(log),
	}, nil
}

//Trajectory builds the trajcol.Trajectory described by cfg.
func (cfg *Config) Trajectory(log *zap.Logger) (*trajcol.Trajectory, error) {
	opts, err := cfg.Options(log)
	if err != nil {
		return nil, err
	}
	return trajcol.New(cfg.Immutable, cfg.Mutable, cfg.Info, opts...)
}

//Logger builds a zap logger at the configured level.
func (cfg *Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

//Parse reads a YAML configuration from r. Unknown fields are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

//Load reads the configuration in filename, applies the defaults and the
//environment overrides, and validates it. An empty filename gives the
//defaults.
func Load(filename string) (*Config, error) {
	cfg := &Config{}
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		cfg, err = Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	LoadFromEnv(cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Marshal returns cfg as YAML.
func (cfg *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}
