package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eslsoft/pronadmin/internal/adapter/apiclient"
	"github.com/eslsoft/pronadmin/internal/app"
	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
	"github.com/eslsoft/pronadmin/internal/infrastructure/server"
	"github.com/eslsoft/pronadmin/internal/infrastructure/storage"
	"github.com/eslsoft/pronadmin/internal/usecase"
	"github.com/eslsoft/pronadmin/internal/usecase/session"
)

var errNotLoggedIn = errors.New(`not logged in, run "pronadmin login" first`)

// cliEnv is what every API-backed command needs.
type cliEnv struct {
	cfg    *config.Config
	log    *logrus.Logger
	client *apiclient.Client
	user   entity.AuthUser
}

func (e *cliEnv) schema() entity.SchemaVersion { return e.client.Schema() }

func loadConfigAndLogger(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := app.ProvideConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := server.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	return cfg, logger, nil
}

// openSession opens the persisted login over the configured state store.
// The returned func closes the store.
func openSession(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*session.Session, func(), error) {
	kv, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open state store: %w", err)
	}
	sess, err := session.Open(ctx, kv, session.WithLogger(logger))
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	return sess, func() { _ = kv.Close() }, nil
}

// newCLIEnv loads config, checks the login and builds the API client.
func newCLIEnv(cmd *cobra.Command) (*cliEnv, error) {
	cfg, logger, err := loadConfigAndLogger(cmd)
	if err != nil {
		return nil, err
	}
	sess, closeStore, err := openSession(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	user, ok := sess.User()
	if !ok {
		return nil, errNotLoggedIn
	}
	client, err := app.ProvideAPIClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &cliEnv{cfg: cfg, log: logger, client: client, user: user}, nil
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(rows)
	table.Render()
}

// terminalConfirmer asks on the command's stdin. Only y or yes counts.
func terminalConfirmer(cmd *cobra.Command) usecase.Confirmer {
	return usecase.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", message)
		answer, err := readLine(cmd.InOrStdin())
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}

func confirmerFor(cmd *cobra.Command) usecase.Confirmer {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return usecase.AlwaysConfirm
	}
	return terminalConfirmer(cmd)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func parseIDArg(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

// queryFlags adds --filter and --order-by to a list command.
func queryFlags(cmd *cobra.Command) {
	cmd.Flags().String("filter", "", "CEL filter expression, e.g. name.contains(\"Part\")")
	cmd.Flags().String("order-by", "", "order clause, e.g. \"id desc\"")
}

func queryFrom(cmd *cobra.Command) usecase.Query {
	filter, _ := cmd.Flags().GetString("filter")
	orderBy, _ := cmd.Flags().GetString("order-by")
	return usecase.Query{Filter: filter, OrderBy: orderBy}
}

// optionalFlag returns a pointer to the flag value only when it was set.
func optionalFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func optionalDifficulty(cmd *cobra.Command, name string) *entity.Difficulty {
	raw := optionalFlag(cmd, name)
	if raw == nil {
		return nil
	}
	d := entity.ParseDifficulty(*raw)
	return &d
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
