package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/notice"
	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/cloo-solutions/jobfinder/internal/view"
	"github.com/spf13/cobra"
)

// AuthCmd creates the auth parent command
func AuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage your session",
		Long:  "Log in, sign up, log out and show who is logged in",
	}

	cmd.AddCommand(AuthLoginCmd())
	cmd.AddCommand(AuthSignupCmd())
	cmd.AddCommand(AuthLogoutCmd())
	cmd.AddCommand(AuthStatusCmd())

	return cmd
}

func AuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long:  "Log in and store the session token. Missing values are read from stdin.",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email, err = promptIfEmpty(in, app.Err, "Email: ", email); err != nil {
				return err
			}
			if password, err = promptIfEmpty(in, app.Err, "Password: ", password); err != nil {
				return err
			}
			return runAuthLogin(ctx, app, domain.Credentials{Email: email, Password: password})
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

func AuthSignupCmd() *cobra.Command {
	var req domain.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if req.Email, err = promptIfEmpty(in, app.Err, "Email: ", req.Email); err != nil {
				return err
			}
			if req.Password, err = promptIfEmpty(in, app.Err, "Password: ", req.Password); err != nil {
				return err
			}
			return runAuthSignup(ctx, app, req)
		}),
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")

	return cmd
}

func AuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			return runAuthLogout(ctx, app)
		}),
	}
}

func AuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is logged in",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			sess := app.Session.Session()
			status := map[string]any{
				"logged_in":     sess.LoggedIn(),
				"user":          sess.User,
				"session_store": app.Config.SessionStore,
				"profile":       app.Config.Profile,
			}
			return app.Render(status, func(w io.Writer) { view.Session(w, sess) })
		}),
	}
}

func runAuthLogin(ctx context.Context, app *App, creds domain.Credentials) error {
	if err := domain.ValidateCredentials(creds.Email, creds.Password); err != nil {
		return err
	}

	res, err := app.API.Login(ctx, creds)
	if err != nil {
		return app.fail("Login failed", err)
	}
	return startSession(ctx, app, res, "Logged in")
}

func runAuthSignup(ctx context.Context, app *App, req domain.SignupRequest) error {
	if err := domain.ValidateCredentials(req.Email, req.Password); err != nil {
		return err
	}

	res, err := app.API.Signup(ctx, req)
	if err != nil {
		return app.fail("Sign up failed", err)
	}
	return startSession(ctx, app, res, "Account created")
}

func startSession(ctx context.Context, app *App, res *domain.AuthResult, title string) error {
	if err := app.Session.SetSession(ctx, res.Token, res.User); err != nil {
		return app.fail(title+" but the session could not be stored", err)
	}
	_, _ = app.State.Dispatch(state.SessionChanged{LoggedIn: true})

	app.Notifier.Notify(notice.Notice{Kind: notice.KindSuccess, Title: title, Message: res.User.DisplayName()})
	if app.JSON {
		return writeJSON(app.Out, map[string]any{"logged_in": true, "user": res.User})
	}
	return nil
}

func runAuthLogout(ctx context.Context, app *App) error {
	err := app.Session.Logout(ctx)
	_, _ = app.State.Dispatch(state.SessionChanged{LoggedIn: false})
	if err != nil {
		return app.fail("Logout failed", err)
	}
	if app.JSON {
		return writeJSON(app.Out, map[string]any{"logged_in": false})
	}
	return nil
}

// promptIfEmpty returns value, or reads one line from in after printing prompt.
func promptIfEmpty(in *bufio.Reader, prompt io.Writer, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(prompt, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}
