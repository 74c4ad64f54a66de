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
	"context"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

var dialogsCmd = &cobra.Command{
	Use:     "dialogs",
	Aliases: []string{"dialog"},
	Short:   "Manage practice dialogs",
}

func dialogStore(cmd *cobra.Command) (*cliEnv, *usecase.DialogStore, error) {
	env, err := newCLIEnv(cmd)
	if err != nil {
		return nil, nil, err
	}
	return env, usecase.NewDialogStore(env.client.Dialogs(), env.client.Phrases(), env.log), nil
}

// resolveCategory turns the --category flag into the reference the schema
// expects: a label for v1, an id (given as id or name) for v2.
func resolveCategory(ctx context.Context, env *cliEnv, ref string) (string, *int64, error) {
	if !env.schema().HasCategoryAPI() {
		return ref, nil, nil
	}
	categories, err := env.client.Categories().List(ctx)
	if err != nil {
		return "", nil, err
	}
	id, err := entity.ResolveCategoryID(ref, categories)
	if err != nil {
		return "", nil, err
	}
	return "", &id, nil
}

func dialogRow(d entity.Dialog) []string {
	return []string{
		strconv.FormatInt(d.ID, 10),
		d.Title,
		orDash(entity.DisplayName(d.CategoryKey())),
		orDash(string(d.DifficultyLevel)),
		strconv.Itoa(len(d.Phrases)),
	}
}

var dialogsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dialogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		if err := store.Fetch(cmd.Context()); err != nil {
			return err
		}
		items, err := store.Select(queryFrom(cmd))
		if err != nil {
			return err
		}
		cmd.Printf("%d dialogs\n", len(items))
		renderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Category", "Difficulty", "Phrases"},
			lo.Map(items, func(d entity.Dialog, _ int) []string { return dialogRow(d) }))
		return nil
	},
}

var dialogsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a dialog with its phrases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "dialog")
		if err != nil {
			return err
		}
		_, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		d, err := store.Lookup(cmd.Context(), id)
		if err != nil {
			return err
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Category", "Difficulty", "Phrases"}, [][]string{dialogRow(*d)})
		if desc := d.DescriptionText(); desc != "" {
			cmd.Println(desc)
		}
		if len(d.Phrases) == 0 {
			cmd.Println("No phrases yet")
			return nil
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Order", "Text", "Phonetic", "Difficulty"}, phraseRows(d.Phrases))
		return nil
	},
}

var dialogsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dialog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		ref, _ := cmd.Flags().GetString("category")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		label, categoryID, err := resolveCategory(cmd.Context(), env, ref)
		if err != nil {
			return err
		}
		payload := entity.DialogCreate{
			Title:           title,
			Category:        label,
			CategoryID:      categoryID,
			DifficultyLevel: entity.ParseDifficulty(difficulty),
			Description:     optionalFlag(cmd, "description"),
		}
		if err := payload.Validate(env.schema()); err != nil {
			return err
		}
		created, err := store.Add(cmd.Context(), payload)
		if err != nil {
			return err
		}
		cmd.Printf("Created dialog %d %q\n", created.ID, created.Title)
		return nil
	},
}

var dialogsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a dialog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "dialog")
		if err != nil {
			return err
		}
		env, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		patch := entity.DialogUpdate{
			Title:           optionalFlag(cmd, "title"),
			DifficultyLevel: optionalDifficulty(cmd, "difficulty"),
			Description:     optionalFlag(cmd, "description"),
		}
		if ref := optionalFlag(cmd, "category"); ref != nil {
			label, categoryID, err := resolveCategory(cmd.Context(), env, *ref)
			if err != nil {
				return err
			}
			if categoryID != nil {
				patch.CategoryID = categoryID
			} else {
				patch.Category = &label
			}
		}
		if err := patch.Validate(); err != nil {
			return err
		}
		updated, err := store.Edit(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		cmd.Printf("Updated dialog %d %q\n", updated.ID, updated.Title)
		return nil
	},
}

var dialogsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a dialog and its phrases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "dialog")
		if err != nil {
			return err
		}
		_, store, err := dialogStore(cmd)
		if err != nil {
			return err
		}
		deleted, err := store.RemoveConfirmed(cmd.Context(), id, confirmerFor(cmd))
		if err != nil {
			return err
		}
		if !deleted {
			cmd.Println("Cancelled")
			return nil
		}
		cmd.Printf("Deleted dialog %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dialogsCmd)
	dialogsCmd.AddCommand(dialogsListCmd, dialogsShowCmd, dialogsCreateCmd, dialogsUpdateCmd, dialogsDeleteCmd)

	queryFlags(dialogsListCmd)
	for _, c := range []*cobra.Command{dialogsCreateCmd, dialogsUpdateCmd} {
		c.Flags().String("title", "", "dialog title")
		c.Flags().String("category", "", "category name or id (v1: free-text label)")
		c.Flags().String("difficulty", "", "Beginner, Intermediate or Advanced")
		c.Flags().String("description", "", "optional description")
	}
	dialogsDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
