package flashscore

import "encoding/json"

// rawTournament mirrors one element of the provider's top-level list.
// Matches stay raw so one malformed record cannot sink the whole
// tournament decode.
type rawTournament struct {
	Name          string            `json:"name"`
	CountryName   string            `json:"country_name"`
	TournamentURL string            `json:"tournament_url"`
	ImagePath     string            `json:"image_path"`
	Matches       []json.RawMessage `json:"matches"`
}

type rawMatch struct {
	MatchID     string          `json:"match_id"`
	Timestamp   int64           `json:"timestamp"`
	MatchStatus *rawMatchStatus `json:"match_status"`
	HomeTeam    *rawTeam        `json:"home_team"`
	AwayTeam    *rawTeam        `json:"away_team"`
	Scores      *rawScores      `json:"scores"`
	StageName   string          `json:"stage_name"`
}

type rawMatchStatus struct {
	Stage        string `json:"stage"`
	IsCancelled  bool   `json:"is_cancelled"`
	IsPostponed  bool   `json:"is_postponed"`
	IsStarted    bool   `json:"is_started"`
	IsInProgress bool   `json:"is_in_progress"`
	IsFinished   bool   `json:"is_finished"`
	LiveTime     string `json:"live_time"`
}

type rawTeam struct {
	TeamID    string `json:"team_id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	// The provider really does spell the first key this way, so all
	// three must be decoded and tried in order.
	SmaillImagePath string `json:"smaill_image_path"`
	SmallImagePath  string `json:"small_image_path"`
	ImagePath       string `json:"image_path"`
}

type rawScores struct {
	Home           *int `json:"home"`
	Away           *int `json:"away"`
	HomeFirstHalf  *int `json:"home_1st_half"`
	AwayFirstHalf  *int `json:"away_1st_half"`
	HomeSecondHalf *int `json:"home_2nd_half"`
	AwaySecondHalf *int `json:"away_2nd_half"`
}
