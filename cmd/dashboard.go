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

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/eslsoft/pronadmin/internal/app"
	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show content totals and API status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newCLIEnv(cmd)
		if err != nil {
			return err
		}
		dash := app.ProvideDashboard(env.client.Dialogs(), env.client.HealthChecker(), env.client.Categories(), env.schema(), env.log)
		view, err := dash.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("Failed to load dashboard data: %w", err)
		}

		out := cmd.OutOrStdout()
		renderTable(out, []string{"Dialogs", "Phrases", "Categories", "API", "Mode"}, [][]string{{
			strconv.Itoa(view.TotalDialogs),
			strconv.Itoa(view.TotalPhrases),
			strconv.Itoa(view.TotalCategories),
			view.APIStatus(),
			view.Mode(),
		}})
		renderTable(out, []string{"Category", "Dialogs", "Share"}, lo.Map(view.Distribution, func(s usecase.CategoryShare, _ int) []string {
			return []string{orDash(s.Label), strconv.Itoa(s.Count), strconv.Itoa(s.Percent) + "%"}
		}))
		cmd.Println("Recent dialogs")
		renderTable(out, []string{"ID", "Title", "Category", "Difficulty", "Phrases"}, lo.Map(view.Recent, func(d entity.Dialog, _ int) []string {
			return dialogRow(d)
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
