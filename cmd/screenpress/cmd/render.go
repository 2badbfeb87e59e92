/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"screenpress/internal/domain"
	"screenpress/internal/export"
	applog "screenpress/internal/log"

	"github.com/spf13/cobra"
)

var (
	outPath    string
	wantBase64 bool
)

var renderCmd = &cobra.Command{
	Use:   "render <document.json>",
	Short: "Render a parsed screenplay to PDF",
	Long: `Render a parsed screenplay document to PDF.

Without -o the file is written beside the input, named after the title.
With --base64 the PDF and its stats are printed to stdout as JSON instead.

Examples:
  screenpress render pilot.json
  screenpress render pilot.json -o out/pilot.pdf --profile a4 --scene-numbers left`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		l := applog.WithOperation(applog.WithComponent("cli"), "render").With(slog.String("input", input))
		doc, err := domain.LoadFile(input)
		if err != nil {
			return err
		}
		opts, err := buildOptions(appCfg, flags)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var stats *export.Stats
		if wantBase64 {
			res, err := export.ExportBase64(ctx, doc, opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			stats = &res.Stats
		} else {
			path := outPath
			if path == "" {
				path = defaultOutput(input, doc)
			}
			if stats, err = export.ExportFile(ctx, doc, path, opts); err != nil {
				return err
			}
			l.Info("pdf written", slog.String("path", path), slog.Int("pages", stats.PageCountReal))
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}

		if dsn := storeDSN(appCfg, flags); dsn != "" {
			if err := saveStats(ctx, dsn, documentName(input), stats); err != nil {
				return fmt.Errorf("save line map: %w", err)
			}
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&outPath, "output", "o", "", "output PDF path")
	renderCmd.Flags().BoolVar(&wantBase64, "base64", false, "print base64 PDF and stats as JSON")
	rootCmd.AddCommand(renderCmd)
}
