package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/services/dashboard"
	"github.com/mcoot/cricketstats-go/internal/services/login"
	"github.com/mcoot/cricketstats-go/internal/services/signup"
	"github.com/mcoot/cricketstats-go/internal/validation"
	"github.com/mcoot/cricketstats-go/internal/view"
)

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			redirected, err := app.LoginController.Open(ctx)
			if err != nil {
				return err
			}
			if redirected {
				msg, err := alreadyLoggedIn(ctx, app.Session)
				if err != nil {
					return err
				}
				out.PrintMessage(msg)
				return nil
			}

			result, err := app.LoginController.Submit(ctx, user, pass)
			if err != nil {
				return err
			}
			if result.Outcome != login.OutcomeSuccess {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username")
	cmd.Flags().StringVar(&pass, "pass", "", "Password")

	return cmd
}

type usernameReader interface {
	Username(ctx context.Context) (string, error)
}

func alreadyLoggedIn(ctx context.Context, sess usernameReader) (string, error) {
	username, err := sess.Username(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return fmt.Sprintf("Already logged in as %s. Run 'cricket logout' to switch user.", username), nil
}

func newSignupCmd() *cobra.Command {
	var form validation.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			redirected, err := app.SignupController.Open(ctx)
			if err != nil {
				return err
			}
			if redirected {
				out.PrintMessage("Already logged in. Run 'cricket logout' to create another account.")
				return nil
			}

			result, err := app.SignupController.Submit(ctx, form)
			if err != nil {
				return err
			}
			if result.Outcome != signup.OutcomeSuccess {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Username, "user", "", "Username (letters, numbers and underscores)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&form.Password, "pass", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "Password confirmation")

	return cmd
}

func newStrengthCmd() *cobra.Command {
	var confirm, user string

	cmd := &cobra.Command{
		Use:   "strength <password>",
		Short: "Score a password the way the signup form does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := args[0]
			strength := app.SignupController.Strength(password)
			out.Print(view.StrengthReport{Strength: strength, Label: strength.Label(password)})

			if cmd.Flags().Changed("confirm") {
				if _, text := app.SignupController.MatchStatus(password, confirm); text != "" {
					out.PrintMessage(text)
				}
			}
			if cmd.Flags().Changed("user") {
				if hint := app.SignupController.UsernameHint(user); hint != "" {
					out.PrintMessage(hint)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&confirm, "confirm", "", "Check a confirmation against the password")
	cmd.Flags().StringVar(&user, "user", "", "Check a username too")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed := yes
			if !confirmed {
				confirmed = confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Are you sure you want to logout?")
			}
			if !confirmed {
				out.PrintMessage("Logout cancelled")
				return nil
			}

			if err := app.DashboardController.Dispatch(cmd.Context(), dashboard.LogoutEvent{Confirmed: true}); err != nil {
				return err
			}
			out.PrintMessage("Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Gateway.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if err := resp.Err("Failed to load user"); err != nil {
				return err
			}

			var user model.User
			if err := resp.Decode(&user); err != nil {
				return err
			}
			out.Print(user)
			return nil
		},
	}
}

// confirm asks a yes/no question; anything but y or yes is no
func confirm(in io.Reader, prompt io.Writer, question string) bool {
	_, _ = fmt.Fprintf(prompt, "%s [y/N]: ", question)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
