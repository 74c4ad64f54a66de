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
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Look up learners",
}

func score(v float64) string { return fmt.Sprintf("%.1f", v) }

// pageFlags reads --limit/--offset clamped to the window the API accepts.
func pageFlags(cmd *cobra.Command) repository.Pagination {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	return repository.Pagination{Limit: limit, Offset: offset}.Normalize()
}

var usersShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a learner's progress and assessment history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newCLIEnv(cmd)
		if err != nil {
			return err
		}
		lookup := usecase.NewUserLookup(env.client.Users(), env.log)
		report, err := lookup.Lookup(cmd.Context(), args[0], pageFlags(cmd))
		if err != nil {
			return errors.New(usecase.LookupMessage(err))
		}

		p := report.Progress
		improvement := "-"
		if p.ImprovementRate != nil {
			improvement = fmt.Sprintf("%+.1f%%", *p.ImprovementRate)
		}
		out := cmd.OutOrStdout()
		renderTable(out, []string{"Metric", "Value"}, [][]string{
			{"Total assessments", strconv.Itoa(p.TotalAssessments)},
			{"Average overall", score(p.AverageOverallScore)},
			{"Average accuracy", score(p.AverageAccuracy)},
			{"Average prosody", score(p.AverageProsody)},
			{"Average fluency", score(p.AverageFluency)},
			{"Average completeness", score(p.AverageCompleteness)},
			{"Best score", score(p.BestScore)},
			{"Worst score", score(p.WorstScore)},
			{"Improvement", improvement},
		})

		if len(p.CategoriesPracticed) > 0 {
			names := lo.Keys(p.CategoriesPracticed)
			sort.SliceStable(names, func(i, j int) bool {
				ci, cj := p.CategoriesPracticed[names[i]], p.CategoriesPracticed[names[j]]
				if ci != cj {
					return ci > cj
				}
				return names[i] < names[j]
			})
			renderTable(out, []string{"Category", "Assessments"}, lo.Map(names, func(name string, _ int) []string {
				return []string{entity.DisplayName(name), strconv.Itoa(p.CategoriesPracticed[name])}
			}))
		}

		cmd.Printf("Assessment History (%d)\n", len(report.Assessments))
		renderTable(out, []string{"Date", "Phrase", "Overall", "Accuracy", "Prosody", "Fluency", "Band"},
			lo.Map(report.Assessments, func(a entity.Assessment, _ int) []string {
				return []string{
					a.CreatedAt.Format("2006-01-02 15:04"),
					a.PhraseText,
					score(a.OverallScore),
					score(a.AccuracyScore),
					score(a.ProsodyScore),
					score(a.FluencyScore),
					string(entity.BandOf(a.OverallScore)),
				}
			}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersShowCmd)

	usersShowCmd.Flags().Int("limit", repository.DefaultPageLimit, "assessments per page")
	usersShowCmd.Flags().Int("offset", 0, "assessments to skip")
}
