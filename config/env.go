/*
 * env.go, part of trajcol.
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
	"os"
	"strings"
)

//LoadFromEnv loads configuration from environment variables
func LoadFromEnv(cfg *Config) {
	if p := os.Getenv("TRAJCOL_PRECISION"); p != "" {
		cfg.Precision = p
	}
	if c := os.Getenv("TRAJCOL_COMPRESSION"); c != "" {
		cfg.Compression = c
	}
	if l := os.Getenv("TRAJCOL_LOG_LEVEL"); l != "" {
		cfg.LogLevel = l
	}
	if v := os.Getenv("TRAJCOL_INFO"); v != "" {
		cfg.Info = splitList(v)
	}
}

//GetEnvOrDefault returns environment variable or default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var ret []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}
