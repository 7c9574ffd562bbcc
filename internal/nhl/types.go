package nhl

// Response shapes for the api-web JSON endpoints. Only the fields the
// pipeline reads are declared; the feed carries plenty more.

// LocalizedString is the API's {"default": "..."} wrapper.
type LocalizedString struct {
	Default string `json:"default"`
}

// TeamInfo identifies one side of a game.
type TeamInfo struct {
	ID     int             `json:"id"`
	Abbrev string          `json:"abbrev"`
	Name   LocalizedString `json:"commonName"`
	Place  LocalizedString `json:"placeName"`
	Score  int             `json:"score"`
}

// RosterSpot is one dressed player in the game-center feed.
type RosterSpot struct {
	TeamID        int             `json:"teamId"`
	PlayerID      int64           `json:"playerId"`
	FirstName     LocalizedString `json:"firstName"`
	LastName      LocalizedString `json:"lastName"`
	SweaterNumber int             `json:"sweaterNumber"`
	PositionCode  string          `json:"positionCode"`
	Headshot      string          `json:"headshot"`
}

// PeriodDescriptor carries the period number and its type (REG, OT, SO).
type PeriodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

// PlayDetails is the per-event detail bag. Which fields are present depends
// on the event type.
type PlayDetails struct {
	EventOwnerTeamID int    `json:"eventOwnerTeamId"`
	XCoord           *int   `json:"xCoord"`
	YCoord           *int   `json:"yCoord"`
	ZoneCode         string `json:"zoneCode"`
	ShotType         string `json:"shotType"`
	Reason           string `json:"reason"`
	SecondaryReason  string `json:"secondaryReason"`
	TypeCode         string `json:"typeCode"`
	DescKey          string `json:"descKey"`
	Duration         int    `json:"duration"`
	ScoringPlayerID  int64  `json:"scoringPlayerId"`
	Assist1PlayerID  int64  `json:"assist1PlayerId"`
	Assist2PlayerID  int64  `json:"assist2PlayerId"`
	ShootingPlayerID int64  `json:"shootingPlayerId"`
	GoalieInNetID    int64  `json:"goalieInNetId"`
	BlockingPlayerID int64  `json:"blockingPlayerId"`
	HittingPlayerID  int64  `json:"hittingPlayerId"`
	HitteePlayerID   int64  `json:"hitteePlayerId"`
	WinningPlayerID  int64  `json:"winningPlayerId"`
	LosingPlayerID   int64  `json:"losingPlayerId"`
	PlayerID         int64  `json:"playerId"`
	CommittedByID    int64  `json:"committedByPlayerId"`
	DrawnByID        int64  `json:"drawnByPlayerId"`
	ServedByID       int64  `json:"servedByPlayerId"`
	AwayScore        int    `json:"awayScore"`
	HomeScore        int    `json:"homeScore"`
	AwaySOG          int    `json:"awaySOG"`
	HomeSOG          int    `json:"homeSOG"`
}

// Play is one event in the game-center play-by-play feed.
type Play struct {
	EventID          int              `json:"eventId"`
	PeriodDescriptor PeriodDescriptor `json:"periodDescriptor"`
	TimeInPeriod     string           `json:"timeInPeriod"`
	TimeRemaining    string           `json:"timeRemaining"`
	SituationCode    string           `json:"situationCode"`
	TypeCode         int              `json:"typeCode"`
	TypeDescKey      string           `json:"typeDescKey"`
	SortOrder        int              `json:"sortOrder"`
	Details          *PlayDetails     `json:"details"`
}

// GameCenter is the game-center play-by-play response.
type GameCenter struct {
	ID           int             `json:"id"`
	Season       int             `json:"season"`
	GameType     int             `json:"gameType"`
	GameDate     string          `json:"gameDate"`
	StartTimeUTC string          `json:"startTimeUTC"`
	Venue        LocalizedString `json:"venue"`
	GameState    string          `json:"gameState"`
	HomeTeam     TeamInfo        `json:"homeTeam"`
	AwayTeam     TeamInfo        `json:"awayTeam"`
	RosterSpots  []RosterSpot    `json:"rosterSpots"`
	Plays        []Play          `json:"plays"`
}

// TeamAbbrev resolves an API team ID against the two sides of the game.
// Returns the empty string for IDs belonging to neither.
func (g *GameCenter) TeamAbbrev(teamID int) string {
	switch teamID {
	case g.HomeTeam.ID:
		return g.HomeTeam.Abbrev
	case g.AwayTeam.ID:
		return g.AwayTeam.Abbrev
	default:
		return ""
	}
}

// ScheduleGame is one game in the schedule feeds.
type ScheduleGame struct {
	ID           int             `json:"id"`
	Season       int             `json:"season"`
	GameType     int             `json:"gameType"`
	GameDate     string          `json:"gameDate"`
	StartTimeUTC string          `json:"startTimeUTC"`
	Venue        LocalizedString `json:"venue"`
	GameState    string          `json:"gameState"`
	HomeTeam     TeamInfo        `json:"homeTeam"`
	AwayTeam     TeamInfo        `json:"awayTeam"`
}

// ScheduleDay is one calendar day of games.
type ScheduleDay struct {
	Date  string         `json:"date"`
	Games []ScheduleGame `json:"games"`
}

// Schedule is the /v1/schedule/{date} response, one week at a time.
type Schedule struct {
	NextStartDate     string        `json:"nextStartDate"`
	PreviousStartDate string        `json:"previousStartDate"`
	GameWeek          []ScheduleDay `json:"gameWeek"`
}

// ClubSchedule is the /v1/club-schedule-season/{team}/{season} response.
type ClubSchedule struct {
	Games []ScheduleGame `json:"games"`
}

// StandingsTeam is one row of the standings table.
type StandingsTeam struct {
	TeamName       LocalizedString `json:"teamName"`
	TeamAbbrev     LocalizedString `json:"teamAbbrev"`
	Conference     string          `json:"conferenceName"`
	Division       string          `json:"divisionName"`
	GamesPlayed    int             `json:"gamesPlayed"`
	Wins           int             `json:"wins"`
	Losses         int             `json:"losses"`
	OTLosses       int             `json:"otLosses"`
	Points         int             `json:"points"`
	GoalsFor       int             `json:"goalFor"`
	GoalsAgainst   int             `json:"goalAgainst"`
	GoalDifference int             `json:"goalDifferential"`
	L10Wins        int             `json:"l10Wins"`
	L10Losses      int             `json:"l10Losses"`
	StreakCode     string          `json:"streakCode"`
	StreakCount    int             `json:"streakCount"`
}

// Standings is the /v1/standings/{date} response.
type Standings struct {
	Standings []StandingsTeam `json:"standings"`
}
