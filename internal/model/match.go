package model

// MatchResult is the outcome of a match from the player's side
type MatchResult string

const (
	MatchResultWon      MatchResult = "won"
	MatchResultLost     MatchResult = "lost"
	MatchResultTie      MatchResult = "tie"
	MatchResultNoResult MatchResult = "no_result"
)

// Inning identifies which innings of the match the player batted in
type Inning string

const (
	InningFirst  Inning = "first"
	InningSecond Inning = "second"
)

// Match is a single recorded match as returned by the API.
// Optional numeric fields are nil when the backend omits them.
type Match struct {
	ID              int         `json:"match_id,omitempty"`
	Date            string      `json:"date"`
	Ground          string      `json:"ground"`
	Inning          Inning      `json:"inning,omitempty"`
	BattingPosition *int        `json:"batting_position,omitempty"`
	CameToBat       string      `json:"came_to_bat,omitempty"`
	RunsScored      *int        `json:"runs_scored,omitempty"`
	BallsFaced      *int        `json:"balls_faced,omitempty"`
	Fours           *int        `json:"fours,omitempty"`
	Sixes           *int        `json:"sixes,omitempty"`
	Out             string      `json:"out,omitempty"`
	MatchResult     MatchResult `json:"match_result,omitempty"`
}

// MatchCreate is the payload for recording a new match
type MatchCreate struct {
	Date            string      `json:"date" validate:"required,datetime=2006-01-02"`
	Ground          string      `json:"ground" validate:"required"`
	Inning          Inning      `json:"inning,omitempty" validate:"omitempty,oneof=first second"`
	BattingPosition *int        `json:"batting_position,omitempty" validate:"omitempty,min=1,max=11"`
	CameToBat       string      `json:"came_to_bat,omitempty" validate:"omitempty,oneof=yes no"`
	RunsScored      *int        `json:"runs_scored,omitempty" validate:"omitempty,min=0"`
	BallsFaced      *int        `json:"balls_faced,omitempty" validate:"omitempty,min=0"`
	Fours           *int        `json:"fours,omitempty" validate:"omitempty,min=0"`
	Sixes           *int        `json:"sixes,omitempty" validate:"omitempty,min=0"`
	Out             string      `json:"out,omitempty" validate:"omitempty,oneof=yes no"`
	MatchResult     MatchResult `json:"match_result,omitempty" validate:"omitempty,oneof=won lost tie no_result"`
}

// BattingSummary feeds the dashboard overview cards
type BattingSummary struct {
	TotalMatches   int     `json:"total_matches"`
	TotalRuns      int     `json:"total_runs"`
	BattingAverage float64 `json:"batting_average"`
	StrikeRate     float64 `json:"strike_rate"`
}

// BattingDetailed is the full batting breakdown. Only the first four fields
// are rendered as cards; the rest are passed through for JSON output.
type BattingDetailed struct {
	Innings      int `json:"innings"`
	HighestScore int `json:"highest_score"`
	Fifties      int `json:"fifties"`
	Hundreds     int `json:"hundreds"`

	Matches           *int     `json:"matches,omitempty"`
	RunsScored        *int     `json:"runs_scored,omitempty"`
	BallsFaced        *int     `json:"balls_faced,omitempty"`
	Fours             *int     `json:"fours,omitempty"`
	Sixes             *int     `json:"sixes,omitempty"`
	Thirties          *int     `json:"thirties,omitempty"`
	ThirtiesPlus      *int     `json:"thirties_plus,omitempty"`
	Ducks             *int     `json:"ducks,omitempty"`
	MatchesWon        *int     `json:"matches_won,omitempty"`
	BattingAverage    *float64 `json:"batting_average,omitempty"`
	BattingStrikeRate *float64 `json:"batting_strike_rate,omitempty"`
	BallsPerBoundary  *float64 `json:"balls_per_boundary,omitempty"`
	WinPct            *float64 `json:"win_pct,omitempty"`
}
