package pbp

import "fmt"

// EventPlayer is one participant slot on an event. Slots are positional:
// player_1 is the event-team actor, player_2 and player_3 fill in by role.
type EventPlayer struct {
	Name     string `json:"name,omitempty"`
	EhID     string `json:"eh_id,omitempty"`
	APIID    int64  `json:"api_id,omitempty"`
	Jersey   int    `json:"jersey,omitempty"`
	Position string `json:"position,omitempty"`
	Role     string `json:"type,omitempty"`
}

// Empty reports whether the slot is unoccupied.
func (p EventPlayer) Empty() bool {
	return p.Name == "" && p.APIID == 0
}

// OnIceSide holds one team's on-ice snapshot, split by position class with
// parallel identity arrays so exports can emit names, EH IDs, and API IDs
// as separate columns.
type OnIceSide struct {
	Forwards      []string `json:"forwards"`
	ForwardsEhID  []string `json:"forwards_eh_id"`
	ForwardsAPIID []int64  `json:"forwards_api_id"`
	Defense       []string `json:"defense"`
	DefenseEhID   []string `json:"defense_eh_id"`
	DefenseAPIID  []int64  `json:"defense_api_id"`
	Goalies       []string `json:"goalie"`
	GoaliesEhID   []string `json:"goalie_eh_id"`
	GoaliesAPIID  []int64  `json:"goalie_api_id"`
}

// Skaters returns the number of non-goalie players on ice.
func (s OnIceSide) Skaters() int {
	return len(s.Forwards) + len(s.Defense)
}

// HasGoalie reports whether a goalie is on the ice.
func (s OnIceSide) HasGoalie() bool {
	return len(s.Goalies) > 0
}

// ChangePlayer identifies a player going over the boards in a change event.
type ChangePlayer struct {
	Name     string `json:"name"`
	EhID     string `json:"eh_id,omitempty"`
	APIID    int64  `json:"api_id,omitempty"`
	Jersey   int    `json:"jersey"`
	Position string `json:"position,omitempty"`
}

// ChangeDetail is the payload of a CHANGE event.
type ChangeDetail struct {
	PlayersOn  []ChangePlayer `json:"players_on,omitempty"`
	PlayersOff []ChangePlayer `json:"players_off,omitempty"`
	ZoneStart  Zone           `json:"zone_start,omitempty"`
}

// Flags are the dummy indicator columns emitted alongside each event so the
// aggregator can reduce with plain sums.
type Flags struct {
	Shot    int `json:"shot"`
	Fenwick int `json:"fenwick"`
	Corsi   int `json:"corsi"`
	Block   int `json:"block"`
	Miss    int `json:"miss"`
	Goal    int `json:"goal"`
	Hit     int `json:"hit"`
	Give    int `json:"give"`
	Take    int `json:"take"`
	Fac     int `json:"fac"`
	Penl    int `json:"penl"`
	Change  int `json:"change"`
	Stop    int `json:"stop"`
	Chl     int `json:"chl"`
	Ozf     int `json:"ozf"`
	Nzf     int `json:"nzf"`
	Dzf     int `json:"dzf"`
	Ozc     int `json:"ozc"`
	Nzc     int `json:"nzc"`
	Dzc     int `json:"dzc"`
	Otf     int `json:"otf"`
	Pen0    int `json:"pen0"`
	Pen2    int `json:"pen2"`
	Pen4    int `json:"pen4"`
	Pen5    int `json:"pen5"`
	Pen10   int `json:"pen10"`
}

// Event is one reconciled play-by-play row. Optional numeric fields are
// pointers so exports can distinguish zero from absent; optional strings
// use the empty string.
type Event struct {
	GameID   int     `json:"game_id"`
	Season   int     `json:"season"`
	Session  Session `json:"session"`
	GameDate string  `json:"game_date"`

	EventIdx    int `json:"event_idx"`
	EventIdxAPI int `json:"event_idx_api,omitempty"`

	Period        int `json:"period"`
	PeriodSeconds int `json:"period_seconds"`
	GameSeconds   int `json:"game_seconds"`

	Event       Tag    `json:"event"`
	Description string `json:"description,omitempty"`

	EventTeam string `json:"event_team,omitempty"`
	OppTeam   string `json:"opp_team,omitempty"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	IsHome    int    `json:"is_home"`

	Zone    Zone `json:"zone,omitempty"`
	CoordsX *int `json:"coords_x"`
	CoordsY *int `json:"coords_y"`

	Player1   EventPlayer `json:"player_1"`
	Player2   EventPlayer `json:"player_2"`
	Player3   EventPlayer `json:"player_3"`
	OppGoalie EventPlayer `json:"opp_goalie"`

	ShotType      string   `json:"shot_type,omitempty"`
	PBPDistance   *float64 `json:"pbp_distance"`
	EventDistance *float64 `json:"event_distance"`
	EventAngle    *float64 `json:"event_angle"`
	Danger        int      `json:"danger"`
	HighDanger    int      `json:"high_danger"`

	Penalty       string `json:"penalty,omitempty"`
	PenaltyLength int    `json:"penalty_length,omitempty"`

	StrengthState string `json:"strength_state,omitempty"`
	ScoreState    string `json:"score_state,omitempty"`
	OppScoreState string `json:"opp_score_state,omitempty"`
	ScoreDiff     int    `json:"score_diff"`
	HomeScore     int    `json:"home_score"`
	AwayScore     int    `json:"away_score"`

	HomeOn OnIceSide `json:"home_on"`
	AwayOn OnIceSide `json:"away_on"`

	Change ChangeDetail `json:"change_detail,omitempty"`

	Version     int      `json:"version"`
	SortValue   int      `json:"sort_value"`
	EventLength int      `json:"event_length"`
	XG          *float64 `json:"xg"`

	Flags Flags `json:"flags"`
}

// Key returns a short identity string used in logs and fix lookups.
func (e *Event) Key() string {
	return fmt.Sprintf("%d/%d", e.GameID, e.EventIdx)
}

// TeamOn returns the event team's on-ice snapshot and the opponent's.
// No-team rows resolve from the home perspective.
func (e *Event) TeamOn() (own, opp *OnIceSide) {
	if e.EventTeam == e.AwayTeam && e.EventTeam != "" {
		return &e.AwayOn, &e.HomeOn
	}
	return &e.HomeOn, &e.AwayOn
}

// RosterPlayer is one joined roster row: the HTML report identity enriched
// with the API identity for the same (team, jersey) pair.
type RosterPlayer struct {
	GameID     int     `json:"game_id"`
	Season     int     `json:"season"`
	Session    Session `json:"session"`
	Team       string  `json:"team"`
	TeamVenue  Venue   `json:"team_venue"`
	Jersey     int     `json:"jersey"`
	PlayerName string  `json:"player_name"`
	EhID       string  `json:"eh_id"`
	APIID      int64   `json:"api_id,omitempty"`
	Position   string  `json:"position"`
	Starter    int     `json:"starter"`
	Status     string  `json:"status"`
}

// Roster statuses.
const (
	StatusActive  = "ACTIVE"
	StatusScratch = "SCRATCH"
)

// IsForward reports whether the position is a forward position.
func (r RosterPlayer) IsForward() bool { return IsForwardPosition(r.Position) }

// IsDefense reports whether the position is defense.
func (r RosterPlayer) IsDefense() bool { return r.Position == "D" }

// IsGoalie reports whether the position is goalie.
func (r RosterPlayer) IsGoalie() bool { return r.Position == "G" }

// IsForwardPosition reports whether a position code counts toward the
// forward group.
func IsForwardPosition(pos string) bool {
	switch pos {
	case "C", "L", "R", "F", "W", "LW", "RW":
		return true
	default:
		return false
	}
}

// Shift is one repaired shift row from the TOI reports, in elapsed seconds
// within its period.
type Shift struct {
	GameID       int     `json:"game_id"`
	Season       int     `json:"season"`
	Session      Session `json:"session"`
	Team         string  `json:"team"`
	TeamVenue    Venue   `json:"team_venue"`
	Jersey       int     `json:"jersey"`
	PlayerName   string  `json:"player_name"`
	EhID         string  `json:"eh_id"`
	APIID        int64   `json:"api_id,omitempty"`
	Position     string  `json:"position"`
	Goalie       int     `json:"goalie"`
	ShiftCount   int     `json:"shift_count"`
	Period       int     `json:"period"`
	StartSeconds int     `json:"start_seconds"`
	EndSeconds   int     `json:"end_seconds"`
	Duration     int     `json:"duration"`
}

// Change is one team's substitution tick built from shift rows: everyone
// whose shift starts at GameSeconds comes on, everyone whose shift ends
// there goes off.
type Change struct {
	GameID        int            `json:"game_id"`
	Season        int            `json:"season"`
	Session       Session        `json:"session"`
	Team          string         `json:"team"`
	TeamVenue     Venue          `json:"team_venue"`
	Period        int            `json:"period"`
	PeriodSeconds int            `json:"period_seconds"`
	GameSeconds   int            `json:"game_seconds"`
	PlayersOn     []ChangePlayer `json:"players_on,omitempty"`
	PlayersOff    []ChangePlayer `json:"players_off,omitempty"`
	Description   string         `json:"description"`
}
