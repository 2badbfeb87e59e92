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

	"screenpress/internal/domain"
	"screenpress/internal/export"
	"screenpress/internal/storage"

	"github.com/spf13/cobra"
)

var (
	saveLineMap bool
	fromStore   bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <document.json | name>",
	Short: "Print page counts and the line map of a screenplay",
	Long: `Lay out a parsed screenplay without writing a PDF and print its stats as JSON.

With --save the line map is stored under the input name in the line-map store.
With --stored the argument is a document name and the stats come from the store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var st *export.Stats
		if fromStore {
			dsn := storeDSN(appCfg, flags)
			if dsn == "" {
				return fmt.Errorf("no line-map store configured (use --store or %s)", "SCREENPRESS_STATS_DSN")
			}
			s, err := storage.OpenLineMapStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			if st, err = s.Load(ctx, args[0]); err != nil {
				return err
			}
		} else {
			doc, err := domain.LoadFile(args[0])
			if err != nil {
				return err
			}
			opts, err := buildOptions(appCfg, flags)
			if err != nil {
				return err
			}
			if st, err = export.ExportStats(ctx, doc, opts); err != nil {
				return err
			}
			if saveLineMap {
				dsn := storeDSN(appCfg, flags)
				if dsn == "" {
					return fmt.Errorf("--save needs a line-map store (use --store or %s)", "SCREENPRESS_STATS_DSN")
				}
				if err := saveStats(ctx, dsn, documentName(args[0]), st); err != nil {
					return fmt.Errorf("save line map: %w", err)
				}
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

func init() {
	statsCmd.Flags().BoolVar(&saveLineMap, "save", false, "store the line map")
	statsCmd.Flags().BoolVar(&fromStore, "stored", false, "read stats from the line-map store")
	rootCmd.AddCommand(statsCmd)
}
