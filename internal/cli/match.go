package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/validation"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match management commands",
	}

	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchAddCmd())

	return cmd
}

func newMatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := out.SectionErrors()
			if err := app.DashboardController.LoadMatches(cmd.Context()); err != nil {
				return err
			}
			if out.SectionErrors() > shown {
				return errReported
			}
			return nil
		},
	}
}

func newMatchAddCmd() *cobra.Command {
	var m model.MatchCreate
	var inning, result string
	var position, runs, balls, fours, sixes int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a match",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			m.Inning = model.Inning(inning)
			m.MatchResult = model.MatchResult(result)
			m.BattingPosition = optionalInt(flags.Changed("position"), position)
			m.RunsScored = optionalInt(flags.Changed("runs"), runs)
			m.BallsFaced = optionalInt(flags.Changed("balls"), balls)
			m.Fours = optionalInt(flags.Changed("fours"), fours)
			m.Sixes = optionalInt(flags.Changed("sixes"), sixes)

			if err := validation.Match(m); err != nil {
				return err
			}

			created, err := app.DashboardController.CreateMatch(cmd.Context(), m)
			if err != nil {
				return err
			}
			out.Print(*created)
			return nil
		},
	}

	cmd.Flags().StringVar(&m.Date, "date", "", "Match date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&m.Ground, "ground", "", "Ground name (required)")
	cmd.Flags().StringVar(&inning, "inning", "", "Innings batted in: first, second")
	cmd.Flags().IntVar(&position, "position", 0, "Batting position, 1-11")
	cmd.Flags().StringVar(&m.CameToBat, "came-to-bat", "", "Whether you batted: yes, no")
	cmd.Flags().IntVar(&runs, "runs", 0, "Runs scored")
	cmd.Flags().IntVar(&balls, "balls", 0, "Balls faced")
	cmd.Flags().IntVar(&fours, "fours", 0, "Fours hit")
	cmd.Flags().IntVar(&sixes, "sixes", 0, "Sixes hit")
	cmd.Flags().StringVar(&m.Out, "out", "", "Whether you were out: yes, no")
	cmd.Flags().StringVar(&result, "result", "", "Match result: won, lost, tie, no_result")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("ground")

	return cmd
}

func optionalInt(set bool, n int) *int {
	if !set {
		return nil
	}
	return &n
}
