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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pronadmin",
	Short: "Admin console for the PronIELTS pronunciation platform",
	Long: `pronadmin manages categories, dialogs and practice phrases through the
PronIELTS REST API and looks up learner assessments. Run "pronadmin serve"
for the web console or use the sub-commands directly.`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which aborts in-flight API calls.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "", "PronIELTS API base URL (default http://localhost:8000/api/v1)")
	flags.String("schema", "", "dialog schema version of the API: v1 or v2")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format: text or json")
	flags.String("storage-driver", "", "client state store: sqlite3, postgres, redis or memory")
	flags.String("storage-dsn", "", "DSN of the client state store")

	bindFlagToViper("api.base_url", flags.Lookup("api-url"))
	bindFlagToViper("api.schema_version", flags.Lookup("schema"))
	bindFlagToViper("log.level", flags.Lookup("log-level"))
	bindFlagToViper("log.format", flags.Lookup("log-format"))
	bindFlagToViper("storage.driver", flags.Lookup("storage-driver"))
	bindFlagToViper("storage.dsn", flags.Lookup("storage-dsn"))
}
