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

	"github.com/spf13/cobra"
)

var errInvalidLogin = errors.New("Invalid email or password")

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the console",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger(cmd)
		if err != nil {
			return err
		}
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Email: ")
			if email, err = readLine(cmd.InOrStdin()); err != nil {
				return err
			}
		}
		if password == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			if password, err = readLine(cmd.InOrStdin()); err != nil {
				return err
			}
		}

		sess, closeStore, err := openSession(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		ok, err := sess.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if !ok {
			return errInvalidLogin
		}
		user, _ := sess.User()
		cmd.Printf("Signed in as %s (%s)\n", user.Name, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger(cmd)
		if err != nil {
			return err
		}
		sess, closeStore, err := openSession(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := sess.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		cmd.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger(cmd)
		if err != nil {
			return err
		}
		sess, closeStore, err := openSession(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		user, ok := sess.User()
		if !ok {
			return errNotLoggedIn
		}
		renderTable(cmd.OutOrStdout(), []string{"Email", "Name", "Role"}, [][]string{{user.Email, user.Name, string(user.Role)}})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().String("email", "", "account email (prompted when empty)")
	loginCmd.Flags().String("password", "", "account password (prompted when empty)")
}
