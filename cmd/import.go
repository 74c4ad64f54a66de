/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/pronadmin/internal/usecase/backup"
)

const (
	importInputKey    = "backup.import.input"
	importGzipKey     = "backup.import.gzip"
	importSectionsKey = "backup.import.sections"
	importDryRunKey   = "backup.import.dry_run"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replay an NDJSON backup against the API",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		inputPath := viper.GetString(importInputKey)
		gzipEnabled := viper.GetBool(importGzipKey)
		sections := sectionsFromConfig(importSectionsKey)
		dryRun := viper.GetBool(importDryRunKey)

		if inputPath == "" {
			return errors.New("set --input to a backup file, or - for stdin")
		}
		if !gzipEnabled && inputPath != "-" && strings.HasSuffix(strings.ToLower(inputPath), ".gz") {
			gzipEnabled = true
		}

		service, err := newBackupService(cmd)
		if err != nil {
			return err
		}

		var (
			reader  = cmd.InOrStdin()
			closers []func() error
		)

		if inputPath != "-" {
			file, openErr := os.Open(filepath.Clean(inputPath))
			if openErr != nil {
				return fmt.Errorf("open backup file: %w", openErr)
			}
			reader = file
			closers = append(closers, file.Close)
		}

		if gzipEnabled {
			gzr, gzErr := gzip.NewReader(reader)
			if gzErr != nil {
				for _, closer := range closers {
					_ = closer()
				}
				return fmt.Errorf("open gzip reader: %w", gzErr)
			}
			reader = gzr
			closers = append([]func() error{gzr.Close}, closers...)
		}

		defer func() {
			for _, closer := range closers {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		importOpts := []backup.ImportOption{backup.WithDryRun(dryRun)}
		if len(sections) > 0 {
			importOpts = append(importOpts, backup.WithImportSections(sections))
		}

		summary, err := service.Import(ctx, reader, importOpts...)
		if summary != nil {
			rows := make([][]string, 0, 3)
			for _, sec := range []string{backup.SectionCategories, backup.SectionDialogs, backup.SectionPhrases} {
				rows = append(rows, []string{
					sec,
					strconv.Itoa(summary.Created[sec]),
					strconv.Itoa(summary.Reused[sec]),
					strconv.Itoa(summary.Skipped[sec]),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"Section", "Created", "Reused", "Skipped"}, rows)
		}
		if err != nil {
			return fmt.Errorf("import backup: %w", err)
		}

		if dryRun {
			cmd.Println("Dry run complete: nothing was written")
		} else {
			cmd.Println("Import complete")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "backup file path, - for stdin")
	importCmd.Flags().Bool("gzip", false, "input is gzip compressed")
	importCmd.Flags().StringSlice("sections", nil, "only import these sections (categories, dialogs, phrases)")
	importCmd.Flags().Bool("dry-run", false, "validate the backup without calling the API")

	bindImportConfig()
}

func bindImportConfig() {
	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importGzipKey, importCmd.Flags().Lookup("gzip"))
	bindFlagToViper(importSectionsKey, importCmd.Flags().Lookup("sections"))
	bindFlagToViper(importDryRunKey, importCmd.Flags().Lookup("dry-run"))
}
