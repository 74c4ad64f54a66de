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
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

var phrasesCmd = &cobra.Command{
	Use:     "phrases",
	Aliases: []string{"phrase"},
	Short:   "Manage practice phrases",
}

func phraseRows(phrases []entity.Phrase) [][]string {
	return lo.Map(phrases, func(p entity.Phrase, _ int) []string {
		return []string{
			strconv.FormatInt(p.ID, 10),
			strconv.Itoa(p.Order),
			p.ReferenceText,
			orDash(p.Phonetic()),
			orDash(string(p.Difficulty)),
		}
	})
}

func optionalOrder(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("order") {
		return nil
	}
	v, _ := cmd.Flags().GetInt("order")
	return &v
}

var phrasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List phrases across dialogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		if err := store.Fetch(cmd.Context()); err != nil {
			return err
		}
		dialogID, _ := cmd.Flags().GetInt64("dialog")
		phrases := lo.FlatMap(store.Items(), func(d entity.Dialog, _ int) []entity.Phrase {
			if dialogID > 0 && d.ID != dialogID {
				return nil
			}
			return d.Phrases
		})
		phrases, err = usecase.Select(phrases, queryFrom(cmd), usecase.PhraseFields)
		if err != nil {
			return err
		}
		if len(phrases) == 0 {
			cmd.Println("No phrases yet")
			return nil
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Order", "Text", "Phonetic", "Difficulty"}, phraseRows(phrases))
		return nil
	},
}

var phrasesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a phrase to a dialog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dialogID, _ := cmd.Flags().GetInt64("dialog")
		text, _ := cmd.Flags().GetString("text")
		payload := entity.PhraseCreate{
			DialogID:              dialogID,
			ReferenceText:         text,
			PhoneticTranscription: optionalFlag(cmd, "phonetic"),
			Order:                 optionalOrder(cmd),
			Difficulty:            optionalDifficulty(cmd, "difficulty"),
		}
		if err := payload.Validate(); err != nil {
			return err
		}
		_, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		created, err := store.AddPhrase(cmd.Context(), payload)
		if err != nil {
			return err
		}
		cmd.Printf("Added phrase %d to dialog %d\n", created.ID, created.DialogID)
		return nil
	},
}

var phrasesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a phrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "phrase")
		if err != nil {
			return err
		}
		patch := entity.PhraseUpdate{
			ReferenceText:         optionalFlag(cmd, "text"),
			PhoneticTranscription: optionalFlag(cmd, "phonetic"),
			Order:                 optionalOrder(cmd),
			Difficulty:            optionalDifficulty(cmd, "difficulty"),
		}
		if err := patch.Validate(); err != nil {
			return err
		}
		_, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		updated, err := store.EditPhrase(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		cmd.Printf("Updated phrase %d\n", updated.ID)
		return nil
	},
}

var phrasesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a phrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "phrase")
		if err != nil {
			return err
		}
		_, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		deleted, err := store.RemovePhraseConfirmed(cmd.Context(), id, confirmerFor(cmd))
		if err != nil {
			return err
		}
		if !deleted {
			cmd.Println("Cancelled")
			return nil
		}
		cmd.Printf("Deleted phrase %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(phrasesCmd)
	phrasesCmd.AddCommand(phrasesListCmd, phrasesCreateCmd, phrasesUpdateCmd, phrasesDeleteCmd)

	queryFlags(phrasesListCmd)
	phrasesListCmd.Flags().Int64("dialog", 0, "only phrases of this dialog")
	phrasesCreateCmd.Flags().Int64("dialog", 0, "owning dialog id (required)")
	for _, c := range []*cobra.Command{phrasesCreateCmd, phrasesUpdateCmd} {
		c.Flags().String("text", "", "reference text")
		c.Flags().String("phonetic", "", "phonetic transcription")
		c.Flags().Int("order", 0, "position within the dialog")
		c.Flags().String("difficulty", "", "Beginner, Intermediate or Advanced")
	}
	phrasesDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
