// Package cli is the terminal front end: each command opens the stored
// session, runs one view operation against the backend and prints the result.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"farmmarket/console/internal/apiclient"
	"farmmarket/console/internal/config"
	"farmmarket/console/internal/log"
	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/session"
	"farmmarket/console/internal/storage"
)

// app carries the dependencies built once the root flags are parsed.
type app struct {
	configFile string
	logLevel   string

	cfg      *config.AppConfig
	log      zerolog.Logger
	store    storage.Storage
	sessions *session.Store
	client   *apiclient.Client
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg
	a.log = log.NewWithWriter(cmd.ErrOrStderr(), cfg.Environment, cfg.Logging.Level)

	store, err := storage.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.store = store
	a.sessions = session.NewStore(store, a.log)
	a.client = apiclient.New(cfg.API.BaseURL, a.sessions,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(a.log.With().Str("component", "api").Logger()),
	)
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Error().Err(err).Msg("storage close error")
	}
}

// guard loads the session for view and turns a redirect into a hint the
// terminal user can act on.
func (a *app) guard(ctx context.Context, view nav.View) (models.Session, error) {
	sess, err := a.sessions.Guard(ctx, view)
	if err == nil {
		return sess, nil
	}
	if to, ok := session.AsRedirect(err); ok {
		if to == nav.EntryPath {
			return models.Session{}, errors.New("not signed in: run `marketplace login` first")
		}
		return models.Session{}, fmt.Errorf("the %s view is not available to %s accounts", view, sess.User.Role)
	}
	return models.Session{}, err
}

// newRoot builds the command tree. Storage opened by a command is closed
// by Run.
func newRoot() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "marketplace",
		Short:         "Farm marketplace console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default marketplace.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newLoginCommand(a),
		newRegisterCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newNavCommand(a),
		newProductsCommand(a),
		newOrdersCommand(a),
		newInventoryCommand(a),
		newDeliveriesCommand(a),
		newTrackCommand(a),
		newServeCommand(a),
	)
	return root, a
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, a := newRoot()
	defer a.close()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// userError replaces err with the message a view would show for it.
func userError(err error, fb service.Fallbacks) error {
	if err == nil {
		return nil
	}
	v := service.Describe(err, fb)
	if len(v.Fields) == 0 {
		return errors.New(v.Message)
	}
	return fmt.Errorf("%s %v", v.Message, v.Fields)
}

func parseID(arg, name string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, arg)
	}
	return id, nil
}
