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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/pronadmin/internal/usecase/backup"
)

const (
	exportOutputKey   = "backup.export.output"
	exportGzipKey     = "backup.export.gzip"
	exportSectionsKey = "backup.export.sections"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export categories, dialogs and phrases as an NDJSON backup",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		outputPath := viper.GetString(exportOutputKey)
		gzipEnabled := viper.GetBool(exportGzipKey)
		sections := sectionsFromConfig(exportSectionsKey)

		if outputPath == "" {
			outputPath = defaultExportFilename(gzipEnabled)
		}
		if !gzipEnabled && outputPath != "-" && strings.HasSuffix(strings.ToLower(outputPath), ".gz") {
			gzipEnabled = true
		}

		service, err := newBackupService(cmd)
		if err != nil {
			return err
		}

		var (
			writer   = cmd.OutOrStdout()
			closeFns []func() error
		)

		if outputPath != "-" {
			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			file, openErr := os.Create(outputPath)
			if openErr != nil {
				return fmt.Errorf("create backup file: %w", openErr)
			}
			writer = file
			closeFns = append(closeFns, file.Close)
		}

		if gzipEnabled {
			gz := gzip.NewWriter(writer)
			writer = gz
			closeFns = append([]func() error{gz.Close}, closeFns...)
		}

		defer func() {
			for _, closer := range closeFns {
				if cerr := closer(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		progress := newCLIProgress(cmd.ErrOrStderr())
		exportOpts := []backup.ExportOption{backup.WithProgressReporter(progress)}
		if len(sections) > 0 {
			exportOpts = append(exportOpts, backup.WithSections(sections))
		}

		if err := service.Export(ctx, writer, exportOpts...); err != nil {
			return fmt.Errorf("export backup: %w", err)
		}

		if outputPath == "-" {
			cmd.PrintErrln("Export complete: written to stdout")
		} else {
			cmd.Printf("Export complete: %s\n", outputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "backup file path, - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip the output")
	exportCmd.Flags().StringSlice("sections", nil, "only export these sections (categories, dialogs, phrases)")

	bindExportConfig()
}

func defaultExportFilename(gzipEnabled bool) string {
	ts := time.Now().UTC().Format("20060102-150405")
	filename := fmt.Sprintf("pronadmin-backup-%s.jsonl", ts)
	if gzipEnabled {
		filename += ".gz"
	}
	return filename
}

func bindExportConfig() {
	bindFlagToViper(exportOutputKey, exportCmd.Flags().Lookup("output"))
	bindFlagToViper(exportGzipKey, exportCmd.Flags().Lookup("gzip"))
	bindFlagToViper(exportSectionsKey, exportCmd.Flags().Lookup("sections"))
}

type cliProgress struct {
	out         io.Writer
	totals      map[string]int
	counts      map[string]int
	lastPrinted map[string]int
	steps       map[string]int
}

func newCLIProgress(out io.Writer) *cliProgress {
	return &cliProgress{
		out:         out,
		totals:      make(map[string]int),
		counts:      make(map[string]int),
		lastPrinted: make(map[string]int),
		steps:       make(map[string]int),
	}
}

func (p *cliProgress) StartTable(section string, total int) {
	if total < 0 {
		total = 0
	}
	p.totals[section] = total
	p.counts[section] = 0
	p.lastPrinted[section] = 0
	p.steps[section] = progressStep(total)
	fmt.Fprintf(p.out, "exporting %s (%d records)\n", section, total)
}

func (p *cliProgress) Increment(section string, delta int) {
	if delta <= 0 {
		return
	}
	current := p.counts[section] + delta
	p.counts[section] = current
	step := p.steps[section]
	if step <= 0 {
		step = 1
	}
	if current == p.totals[section] || current-p.lastPrinted[section] >= step {
		fmt.Fprintf(p.out, "  %s: %d/%d\n", section, current, p.totals[section])
		p.lastPrinted[section] = current
	}
}

func (p *cliProgress) FinishTable(section string) {
	fmt.Fprintf(p.out, "exported %s: %d records\n", section, p.counts[section])
	delete(p.counts, section)
	delete(p.totals, section)
	delete(p.lastPrinted, section)
	delete(p.steps, section)
}

func progressStep(total int) int {
	if total <= 0 {
		return 100
	}
	return min(max(total/10, 1), 100)
}
