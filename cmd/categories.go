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

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Manage dialog categories",
}

// categoryStore opens the store for a v2 API. v1 servers have no categories.
func categoryStore(cmd *cobra.Command) (*cliEnv, *usecase.CategoryStore, error) {
	env, err := newCLIEnv(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !env.schema().HasCategoryAPI() {
		return nil, nil, fmt.Errorf("schema %s has no categories API", env.schema())
	}
	return env, usecase.NewCategoryStore(env.client.Categories(), env.log), nil
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := categoryStore(cmd)
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
		if len(items) == 0 {
			cmd.Println("No categories yet. Create one to get started.")
			return nil
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Description", "Dialogs"},
			lo.Map(items, func(c entity.Category, _ int) []string {
				return []string{strconv.FormatInt(c.ID, 10), c.Label(), orDash(c.DescriptionText()), strconv.Itoa(c.DialogCount)}
			}))
		return nil
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		payload := entity.CategoryCreate{Name: name, Description: optionalFlag(cmd, "description")}
		if err := payload.Validate(); err != nil {
			return err
		}
		_, store, err := categoryStore(cmd)
		if err != nil {
			return err
		}
		created, err := store.Add(cmd.Context(), payload)
		if err != nil {
			return err
		}
		cmd.Printf("Created category %d %q\n", created.ID, created.Name)
		return nil
	},
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "category")
		if err != nil {
			return err
		}
		patch := entity.CategoryUpdate{Name: optionalFlag(cmd, "name"), Description: optionalFlag(cmd, "description")}
		if err := patch.Validate(); err != nil {
			return err
		}
		_, store, err := categoryStore(cmd)
		if err != nil {
			return err
		}
		updated, err := store.Edit(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		cmd.Printf("Updated category %d %q\n", updated.ID, updated.Name)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category with its dialogs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0], "category")
		if err != nil {
			return err
		}
		_, store, err := categoryStore(cmd)
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
		cmd.Printf("Deleted category %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesCreateCmd, categoriesUpdateCmd, categoriesDeleteCmd)

	queryFlags(categoriesListCmd)
	categoriesCreateCmd.Flags().String("name", "", "category name (required)")
	categoriesCreateCmd.Flags().String("description", "", "optional description")
	categoriesUpdateCmd.Flags().String("name", "", "new name")
	categoriesUpdateCmd.Flags().String("description", "", "new description")
	categoriesDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}
