package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/service"
	"farmmarket/console/internal/session"
	"farmmarket/console/internal/validate"
)

func (a *app) authService() *service.AuthService {
	return service.NewAuthService(a.client, a.sessions, a.log.With().Str("component", "auth").Logger())
}

func newLoginCommand(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.authService().Login(cmd.Context(), email, password)
			if err != nil {
				return userError(err, service.LoginFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", sess.User.Name, sess.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var form validate.RegistrationForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.authService().Register(cmd.Context(), form)
			if err != nil {
				return userError(err, service.RegisterFallbacks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s as %s\n", sess.User.Email, sess.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password")
	cmd.Flags().StringVar(&form.Role, "role", "BUYER", "BUYER, FARMER or ADMIN")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.authService().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.sessions.Load(cmd.Context())
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", sess.User.Name, sess.User.Email)
			fmt.Fprintf(out, "id:   %d\n", sess.User.ID)
			fmt.Fprintf(out, "role: %s\n", sess.User.Role)

			// The token is opaque to the backend contract; expiry is shown
			// only when it happens to be a readable JWT.
			if info, err := session.Inspect(sess.Token); err == nil && !info.ExpiresAt.IsZero() {
				state := "valid"
				if info.Expired(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(out, "token expires: %s (%s)\n", info.ExpiresAt.Format(time.RFC3339), state)
			}
			return nil
		},
	}
}

func newNavCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "List the views available to the signed-in role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.guard(cmd.Context(), nav.ViewDashboard)
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			for _, item := range nav.Items(sess.User.Role) {
				fmt.Fprintf(w, "%s\t%s\n", item.Name, item.Path)
			}
			return w.Flush()
		},
	}
}
