/*
 * commands.go, part of trajcol.
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

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tcnicholas/trajcol"
	"github.com/tcnicholas/trajcol/chemplot"
	"github.com/tcnicholas/trajcol/config"
	"github.com/tcnicholas/trajcol/container"
	"github.com/tcnicholas/trajcol/sizefmt"
	"github.com/tcnicholas/trajcol/stf"
	"github.com/tcnicholas/trajcol/store"
	"github.com/tcnicholas/trajcol/xyz"
	"go.uber.org/zap"
)

type globalFlags struct {
	config   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "trajcol",
		Short:         "Store atomistic trajectories in compact columnar containers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.config, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.AddCommand(newConvertCmd(g), newExtractCmd(g), newInspectCmd(g), newPlotCmd(g))
	return root
}

//setup loads the configuration, applies the global flags and builds the
//logger.
func (g *globalFlags) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func loadContainer(cmd *cobra.Command, log *zap.Logger, location string) (*container.Container, error) {
	b, key, err := store.Open(cmd.Context(), location, log)
	if err != nil {
		return nil, err
	}
	return store.GetContainer(cmd.Context(), b, key)
}

func isSTF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".stf")
}

//readTrajectory reads an extended XYZ or, by extension, an STF file. The
//atomic numbers for STF come from the first frame of the XYZ topology file.
func readTrajectory(name, topology string) ([]*trajcol.Snapshot, error) {
	if !isSTF(name) {
		return xyz.ReadFile(name)
	}
	var numbers []int64
	if topology != "" {
		top, err := xyz.ReadFile(topology)
		if err != nil {
			return nil, err
		}
		if len(top) == 0 {
			return nil, fmt.Errorf("topology %s has no frames", topology)
		}
		numbers = top[0].Numbers()
	}
	snaps, _, err := stf.ReadFile(name, numbers)
	return snaps, err
}

func newConvertCmd(g *globalFlags) *cobra.Command {
	var immutable, mutable, info []string
	var precision, compression, topology string
	cmd := &cobra.Command{
		Use:   "convert <in.xyz|in.stf> <out>",
		Short: "Convert an extended XYZ or STF trajectory to a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			f := cmd.Flags()
			if f.Changed("immutable") {
				cfg.Immutable = immutable
			}
			if f.Changed("mutable") {
				cfg.Mutable = mutable
			}
			if f.Changed("info") {
				cfg.Info = info
			}
			if f.Changed("precision") {
				cfg.Precision = precision
			}
			if f.Changed("compression") {
				cfg.Compression = compression
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			T, err := cfg.Trajectory(log)
			if err != nil {
				return err
			}
			snaps, err := readTrajectory(args[0], topology)
			if err != nil {
				return err
			}
			C, err := T.Encode(snaps)
			if err != nil {
				return err
			}
			b, key, err := store.Open(cmd.Context(), args[1], log)
			if err != nil {
				return err
			}
			if err := store.PutContainer(cmd.Context(), b, key, C); err != nil {
				return err
			}
			var raw, stored int64
			for _, d := range C.Datasets() {
				raw += int64(d.RawBytes)
				stored += int64(d.StoredBytes)
			}
			log.Info("trajectory converted",
				zap.String("in", args[0]), zap.String("out", args[1]),
				zap.Int("frames", len(snaps)),
				zap.String("raw", sizefmt.HumanReadable(raw, "")),
				zap.String("stored", sizefmt.HumanReadable(stored, "")))
			fmt.Fprintf(cmd.OutOrStdout(), "%d frames written to %s (%s)\n", len(snaps), args[1], sizefmt.HumanReadable(stored, ""))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&immutable, "immutable", nil, "immutable properties")
	f.StringSliceVar(&mutable, "mutable", nil, "mutable properties")
	f.StringSliceVar(&info, "info", nil, "per-frame info keys")
	f.StringVar(&precision, "precision", "", "float32 or float64")
	f.StringVar(&compression, "compression", "", "none, zstd, s2, lz4 or snappy")
	f.StringVar(&topology, "topology", "", "XYZ file with the atoms of an STF trajectory")
	return cmd
}

func newExtractCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <container> <out.xyz|out.stf>",
		Short: "Write the frames of a container as extended XYZ or STF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := g.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			C, err := loadContainer(cmd, log, args[0])
			if err != nil {
				return err
			}
			T, err := trajcol.New(nil, nil, nil, trajcol.WithLogger(log))
			if err != nil {
				return err
			}
			snaps, err := T.Decode(C)
			if err != nil {
				return err
			}
			if isSTF(args[1]) {
				err = stf.WriteFile(args[1], snaps, nil)
			} else {
				err = xyz.WriteFile(args[1], snaps)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d frames written to %s\n", len(snaps), args[1])
			return nil
		},
	}
}

func newInspectCmd(g *globalFlags) *cobra.Command {
	var unit string
	cmd := &cobra.Command{
		Use:   "inspect <container>",
		Short: "List the datasets of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := g.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			C, err := loadContainer(cmd, log, args[0])
			if err != nil {
				return err
			}
			return inspect(cmd.OutOrStdout(), C, unit)
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "size unit (B, KB, MB, GB, TB), automatic if empty")
	return cmd
}

func inspect(w io.Writer, C *container.Container, unit string) error {
	fmt.Fprintf(w, "container %s, compression %s\n", C.ID(), C.Compression())
	var raw, stored int64
	for _, d := range C.Datasets() {
		shape := make([]string, len(d.Shape))
		for i, v := range d.Shape {
			shape[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(w, "  %-28s %-8s (%s) %12s %12s\n", d.Path, d.DType, strings.Join(shape, ", "),
			sizefmt.HumanReadable(int64(d.RawBytes), unit), sizefmt.HumanReadable(int64(d.StoredBytes), unit))
		raw += int64(d.RawBytes)
		stored += int64(d.StoredBytes)
	}
	_, err := fmt.Fprintf(w, "total %s, stored %s\n", sizefmt.HumanReadable(raw, unit), sizefmt.HumanReadable(stored, unit))
	return err
}

func newPlotCmd(g *globalFlags) *cobra.Command {
	var keys []string
	var title string
	cmd := &cobra.Command{
		Use:   "plot <container> <out.png>",
		Short: "Plot per-frame info values against the frame index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := g.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			C, err := loadContainer(cmd, log, args[0])
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				keys = C.Keys(trajcol.SecInfo)
			}
			T, err := trajcol.New(nil, nil, nil, trajcol.WithLogger(log))
			if err != nil {
				return err
			}
			snaps, err := T.Decode(C)
			if err != nil {
				return err
			}
			if title == "" {
				title = args[0]
			}
			return chemplot.InfoPlot(snaps, keys, title, args[1])
		},
	}
	cmd.Flags().StringSliceVar(&keys, "info", nil, "info keys to plot, all if empty")
	cmd.Flags().StringVar(&title, "title", "", "plot title")
	return cmd
}
