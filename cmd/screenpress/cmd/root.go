/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cmd holds the cobra commands of the screenpress CLI.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"screenpress/internal/config"
	applog "screenpress/internal/log"

	"github.com/spf13/cobra"
)

var (
	configPath string
	appCfg     config.AppConfig
	flags      renderFlags
)

var rootCmd = &cobra.Command{
	Use:   "screenpress",
	Short: "Paginate parsed screenplays into PDF",
	Long: `screenpress lays out a parsed screenplay document (JSON) on industry standard
pages and writes a PDF with title page, scene numbers, continuation markers,
bookmarks and optional highlighting.

Configuration is read from the user config file and SCREENPRESS_* variables;
flags win over both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		appCfg = cfg
		applog.Init(cfg.LogOptions())
		applog.WithComponent("cli").Debug("start", slog.String("command", cmd.CommandPath()))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default is the per-user config.yaml)")
	pf.StringVar(&flags.profile, "profile", "", "print profile preset: usletter or a4")
	pf.StringVar(&flags.profileFile, "profile-file", "", "YAML file with print profile overrides")
	pf.StringVar(&flags.font, "font", "", "script font family (Courier for the built-in font)")
	pf.StringSliceVar(&flags.fontDirs, "font-dir", nil, "directories searched for font files")
	pf.StringVar(&flags.sceneNumbers, "scene-numbers", "", "scene number placement: none, left, right or both")
	pf.StringSliceVar(&flags.characters, "highlight-character", nil, "highlight the lines of a character (repeatable)")
	pf.StringVar(&flags.lines, "highlight-lines", "", "changed source lines, e.g. 3,10-12")
	pf.StringVar(&flags.color, "highlight-color", "", "colour for changed lines, e.g. #ffee88")
	pf.StringVar(&flags.store, "store", "", "line-map store DSN (SQLite path or postgres:// URL)")
}
