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
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/pronadmin/internal/app"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger(cmd)
		if err != nil {
			return err
		}
		client, err := app.ProvideAPIClient(cfg, logger)
		if err != nil {
			return err
		}
		resp, err := client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("API is offline: %w", err)
		}
		h := resp.Data
		status := "Offline"
		if h.Healthy() {
			status = "Online"
		}
		renderTable(cmd.OutOrStdout(),
			[]string{"URL", "Status", "Version", "Project", "Mock Mode"},
			[][]string{{client.HealthURL(), status, h.Version, h.Project, strconv.FormatBool(h.MockMode)}})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
