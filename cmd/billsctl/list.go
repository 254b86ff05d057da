package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	billapp "github.com/billed/backend/internal/application/bill"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/auth"
	"github.com/billed/backend/internal/infrastructure/config"
	"github.com/billed/backend/internal/infrastructure/persistence"
	"github.com/billed/backend/internal/infrastructure/remote"
	"github.com/billed/backend/internal/interfaces/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type listOptions struct {
	source string
	locale string
	email  string
	token  string
}

func newListCmd(a *app) *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the bills of a user, latest first",
		Long: `Print the bills a user would see on the bills page.

Without --email the listing runs as an administrator and shows every bill.
The remote source needs a token; one is signed with the configured JWT
secret when --token is not given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.source == "" {
				opts.source = a.cfg.App.BillSource
			}
			if opts.locale == "" {
				opts.locale = a.cfg.Locale.Default
			}
			return runList(cmd.Context(), cmd.OutOrStdout(), a.cfg, a.log, opts)
		},
	}
	cmd.Flags().StringVar(&opts.source, "source", "", "Bill source: db, remote or memory (default from config)")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "Status label locale: fr or en (default from config)")
	cmd.Flags().StringVar(&opts.email, "email", "", "List as this employee instead of as an administrator")
	cmd.Flags().StringVar(&opts.token, "token", "", "Bearer token for the remote source")
	return cmd
}

func runList(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger, opts listOptions) error {
	sess, err := cliSession(cfg, opts)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, log, opts.source, sess)
	if err != nil {
		return err
	}
	defer closeStore()

	c := billapp.NewController(billapp.ScopeToSession(store, sess), nil, nil, sess,
		billapp.WithFormatter(billapp.NewFormatterForLocale(opts.locale)),
		billapp.WithLogger(log),
	)
	bills, err := c.GetBills(ctx)
	if err != nil {
		return err
	}
	return printBills(out, view.SortByDateDesc(bills))
}

func cliSession(cfg *config.Config, opts listOptions) (session.Context, error) {
	user := session.User{Type: session.UserTypeAdmin, Email: "billsctl@billed.local"}
	if opts.email != "" {
		user = session.User{Type: session.UserTypeEmployee, Email: opts.email}
	}
	if err := user.Validate(); err != nil {
		return session.Context{}, err
	}

	token := opts.token
	if token == "" && opts.source == config.SourceRemote {
		issued, _, err := auth.NewJWTService(cfg.JWT).Issue(user)
		if err != nil {
			return session.Context{}, fmt.Errorf("failed to sign a token: %w", err)
		}
		token = issued
	}
	return session.Context{User: user, JWT: token}, nil
}

func openStore(cfg *config.Config, log *zap.Logger, source string, sess session.Context) (billapp.UserStore, func(), error) {
	switch source {
	case config.SourceMemory:
		return persistence.NewFixtureBillStore(), func() {}, nil
	case config.SourceRemote:
		client, err := remote.NewClient(cfg.RemoteStore, remote.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return client.ForSession(sess), func() {}, nil
	case config.SourceDB:
		db, err := persistence.NewDatabase(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		return persistence.NewGormBillRepository(db.DB), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown bill source %q", source)
	}
}

func printBills(out io.Writer, bills []billapp.DisplayBill) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tNAME\tAMOUNT\tSTATUS\tEMAIL")
	for _, b := range bills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s €\t%s\t%s\n", b.Date, b.Type, b.Name, b.Amount.String(), b.Status, b.Email)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d bill(s)\n", len(bills))
	return err
}
