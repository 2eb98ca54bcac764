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
	"os"

	"github.com/spf13/cobra"

	applog "versecast/internal/log"
	"versecast/internal/scripture"
)

func newImportCmd(ro *rootOpts) *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a bolls.life translation dump into the verse store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = ro.cfg.Scripture.DSN
			}
			l := applog.WithOperation(applog.WithComponent("cli"), "import")
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			st, err := scripture.Open(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			n, err := st.ImportJSON(cmd.Context(), f)
			if err != nil {
				return err
			}
			l.Info("import done", slog.Int("verses", n), slog.String("file", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d verses\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "verse store DSN (overrides config)")
	return cmd
}
