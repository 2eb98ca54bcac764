/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"versecast/internal/config"
	"versecast/internal/crash"
	"versecast/internal/domain"
	applog "versecast/internal/log"
	"versecast/internal/scripture"
	"versecast/internal/version"
)

type rootOpts struct {
	configPath string
	cfg        config.AppConfig
}

func newRootCmd(cc *crash.Context) *cobra.Command {
	ro := &rootOpts{}
	root := &cobra.Command{
		Use:           "versecast",
		Short:         "Render scripture passages as projection slides",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var (
				cfg config.AppConfig
				err error
			)
			if ro.configPath != "" {
				cfg, err = config.LoadFile(ro.configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ro.cfg = cfg
			applog.Init(applog.Options{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				AddSource: cfg.Logging.Source,
				File:      cfg.Logging.File,
			})
			if cc != nil {
				cc.Operation = cmd.Name()
			}
			applog.WithComponent("cli").Debug("config loaded",
				slog.String("dialect", scripture.DialectFor(cfg.Scripture.DSN).String()),
				slog.String("dsn", scripture.RedactDSN(cfg.Scripture.DSN)))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&ro.configPath, "config", "", "config file (default is the per-user config.yaml)")

	root.AddCommand(
		newRenderCmd(ro, cc),
		newImportCmd(ro),
		newPresetsCmd(),
		newVersionCmd(),
	)
	return root
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List display presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range domain.Presets() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", p.Name, p.Canvas)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
}
