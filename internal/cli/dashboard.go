package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/services/dashboard"
	"github.com/mcoot/cricketstats-go/internal/view/html"
)

var errNotLoggedIn = errors.New("not logged in: run 'cricket login' first")

func newDashboardCmd() *cobra.Command {
	var interactive bool
	var htmlFile string

	cmd := &cobra.Command{
		Use:   "dashboard [section...]",
		Short: "Show the stats dashboard",
		Long: `Show the stats dashboard. The overview is always loaded; any further
sections are shown in order. Sections: overview, matches, batting, bowling,
analytics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sections := make([]dashboard.Section, 0, len(args))
			for _, arg := range args {
				section, err := dashboard.ParseSection(arg)
				if err != nil {
					return err
				}
				sections = append(sections, section)
			}

			if htmlFile != "" {
				return renderHTML(ctx, htmlFile, sections, cmd.OutOrStdout())
			}

			ctrl := app.DashboardController
			if err := openDashboard(ctx, ctrl); err != nil {
				return err
			}
			for _, section := range sections {
				if err := ctrl.Dispatch(ctx, dashboard.NavigateEvent{Section: section}); err != nil {
					return err
				}
			}

			if interactive {
				return runInteractive(ctx, ctrl, cmd.InOrStdin(), cmd.ErrOrStderr())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read section names and actions from stdin")
	cmd.Flags().StringVar(&htmlFile, "html", "", "Write the dashboard as an HTML page to this file (- for stdout)")

	return cmd
}

func openDashboard(ctx context.Context, ctrl *dashboard.Controller) error {
	ok, err := ctrl.Open(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errNotLoggedIn
	}
	return nil
}

// renderHTML loads the requested sections, or all of them, into one page
func renderHTML(ctx context.Context, path string, sections []dashboard.Section, stdout io.Writer) error {
	page := html.NewPage()
	ctrl := app.NewDashboard(page)

	if err := openDashboard(ctx, ctrl); err != nil {
		return err
	}
	if len(sections) == 0 {
		sections = dashboard.Sections[1:]
	}
	for _, section := range sections {
		if err := ctrl.Dispatch(ctx, dashboard.NavigateEvent{Section: section}); err != nil {
			return err
		}
	}
	if err := ctrl.Dispatch(ctx, dashboard.NavigateEvent{Section: dashboard.SectionOverview}); err != nil {
		return err
	}

	if path == "-" {
		return page.Render(ctx, stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := page.Render(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	out.PrintMessage(fmt.Sprintf("Dashboard written to %s", path))
	return nil
}

const interactiveHelp = `Commands:
  overview | matches | batting | bowling | analytics   show a section
  add                                                  add a match
  logout                                               log out
  help                                                 show this help
  quit                                                 leave the dashboard`

// runInteractive drives the dashboard from typed commands until quit, EOF,
// logout or the session ending
func runInteractive(ctx context.Context, ctrl *dashboard.Controller, in io.Reader, prompt io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(prompt, "dashboard> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(prompt)
			return scanner.Err()
		}

		var event dashboard.Event
		switch input := strings.ToLower(strings.TrimSpace(scanner.Text())); input {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			_, _ = fmt.Fprintln(prompt, interactiveHelp)
			continue
		case "add":
			event = dashboard.AddMatchEvent{}
		case "logout":
			_, _ = fmt.Fprint(prompt, "Are you sure you want to logout? [y/N]: ")
			confirmed := false
			if scanner.Scan() {
				answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
				confirmed = answer == "y" || answer == "yes"
			}
			event = dashboard.LogoutEvent{Confirmed: confirmed}
			if confirmed {
				return ctrl.Dispatch(ctx, event)
			}
		default:
			event = dashboard.NavigateEvent{Section: dashboard.Section(input)}
		}

		err := ctrl.Dispatch(ctx, event)
		switch {
		case errors.Is(err, model.ErrSessionExpired), errors.Is(err, model.ErrMissingToken):
			return err
		case err != nil:
			out.PrintError(err)
		}
		if _, ok := event.(dashboard.AddMatchEvent); ok {
			out.PrintMessage("Record a match with 'cricket match add --date YYYY-MM-DD --ground NAME'")
		}
	}
}
