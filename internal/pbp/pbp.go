// Package pbp defines the canonical play-by-play record types that every
// stage of the scrape pipeline normalizes into. Parsers emit these records,
// the reconciler and on-ice reconstructor mutate them, and the aggregator
// consumes them — the package is the contract between stages, so nothing
// here reaches back into parsing or HTTP.
package pbp

// --------------------------------------------------------------------------
// Sessions
// --------------------------------------------------------------------------

// Session is the competition phase a game belongs to.
type Session string

const (
	SessionPreseason Session = "PR"
	SessionRegular   Session = "R"
	SessionPlayoffs  Session = "P"
)

// SessionFromCode maps the NHL gameType code (digits 5-6 of a game ID) to a
// session. Unknown codes return the empty session.
func SessionFromCode(code int) Session {
	switch code {
	case 1:
		return SessionPreseason
	case 2:
		return SessionRegular
	case 3:
		return SessionPlayoffs
	default:
		return ""
	}
}

// Code returns the numeric gameType code for the session (PR=1, R=2, P=3).
func (s Session) Code() int {
	switch s {
	case SessionPreseason:
		return 1
	case SessionRegular:
		return 2
	case SessionPlayoffs:
		return 3
	default:
		return 0
	}
}

// --------------------------------------------------------------------------
// Venues and zones
// --------------------------------------------------------------------------

// Venue marks which side of the matchup a record belongs to.
type Venue string

const (
	VenueHome Venue = "HOME"
	VenueAway Venue = "AWAY"
)

// Zone is the rink zone from the event team's perspective. ZoneOTF is only
// valid as a change's zone_start.
type Zone string

const (
	ZoneOff Zone = "OFF"
	ZoneNeu Zone = "NEU"
	ZoneDef Zone = "DEF"
	ZoneOTF Zone = "OTF"
)

// Flip swaps offensive and defensive zones; the neutral zone is its own
// mirror. Used when re-expressing a zone from the opposing perspective.
func (z Zone) Flip() Zone {
	switch z {
	case ZoneOff:
		return ZoneDef
	case ZoneDef:
		return ZoneOff
	default:
		return z
	}
}

// --------------------------------------------------------------------------
// Event tags
// --------------------------------------------------------------------------

// Tag is a normalized event type shared by both feeds.
type Tag string

const (
	TagFac    Tag = "FAC"
	TagHit    Tag = "HIT"
	TagGive   Tag = "GIVE"
	TagTake   Tag = "TAKE"
	TagShot   Tag = "SHOT"
	TagMiss   Tag = "MISS"
	TagBlock  Tag = "BLOCK"
	TagGoal   Tag = "GOAL"
	TagPenl   Tag = "PENL"
	TagDelPen Tag = "DELPEN"
	TagStop   Tag = "STOP"
	TagChange Tag = "CHANGE"
	TagPstr   Tag = "PSTR"
	TagPend   Tag = "PEND"
	TagGend   Tag = "GEND"
	TagSoc    Tag = "SOC"
	TagEistr  Tag = "EISTR"
	TagEiend  Tag = "EIEND"
	TagAnthem Tag = "ANTHEM"
	TagPgstr  Tag = "PGSTR"
	TagPgend  Tag = "PGEND"
	TagChl    Tag = "CHL"
)

// IsFenwick reports whether the tag is an unblocked shot attempt.
func (t Tag) IsFenwick() bool {
	return t == TagGoal || t == TagShot || t == TagMiss
}

// IsCorsi reports whether the tag is any shot attempt.
func (t Tag) IsCorsi() bool {
	return t.IsFenwick() || t == TagBlock
}

// HasTeam reports whether events with this tag carry an event team.
func (t Tag) HasTeam() bool {
	switch t {
	case TagPgstr, TagPgend, TagAnthem, TagPstr, TagPend, TagGend,
		TagStop, TagSoc, TagEistr, TagEiend, TagDelPen:
		return false
	default:
		return true
	}
}

// sortValues fixes the relative order of co-timestamped events. Within one
// (period, period_seconds) tick, in-play events precede the goal that ends
// play, the goal precedes the stoppage bookkeeping, penalties are assessed
// before the benches change, and changes land before the faceoff that
// restarts play.
var sortValues = map[Tag]int{
	TagPgstr:  1,
	TagPgend:  2,
	TagAnthem: 3,
	TagHit:    4,
	TagGive:   4,
	TagTake:   4,
	TagShot:   4,
	TagMiss:   4,
	TagBlock:  4,
	TagDelPen: 4,
	TagGoal:   5,
	TagStop:   6,
	TagPenl:   6,
	TagEiend:  6,
	TagPstr:   7,
	TagChange: 8,
	TagChl:    9,
	TagEistr:  10,
	TagFac:    12,
	TagPend:   13,
	TagSoc:    14,
	TagGend:   15,
}

// SortValue returns the within-tick ordering weight for a tag. Unknown tags
// sort with the in-play events.
func SortValue(t Tag) int {
	if v, ok := sortValues[t]; ok {
		return v
	}
	return 4
}

// --------------------------------------------------------------------------
// Player roles
// --------------------------------------------------------------------------

// Roles describe how a player participated in an event. The strings match
// the NHL's own vocabulary so they survive round-trips through exports.
const (
	RoleGoalScorer      = "GOAL SCORER"
	RolePrimaryAssist   = "PRIMARY ASSIST"
	RoleSecondaryAssist = "SECONDARY ASSIST"
	RoleShooter         = "SHOOTER"
	RoleBlocker         = "BLOCKER"
	RoleHitter          = "HITTER"
	RoleHittee          = "HITTEE"
	RoleCommittedBy     = "COMMITTED BY"
	RoleDrawnBy         = "DRAWN BY"
	RoleServedBy        = "SERVED BY"
	RoleWinner          = "WINNER"
	RoleLoser           = "LOSER"
	RoleGiver           = "GIVER"
	RoleTaker           = "TAKER"
)

// Sentinel player names for events with no resolvable player.
const (
	SentinelBench    = "BENCH"
	SentinelReferee  = "REFEREE"
	SentinelTeammate = "TEAMMATE"
	SentinelEmptyNet = "EMPTY NET"
)

// --------------------------------------------------------------------------
// Period arithmetic
// --------------------------------------------------------------------------

// Period lengths in seconds.
const (
	PeriodSeconds    = 1200
	RegOTSeconds     = 300
	ShootoutStart    = 3900 // game_seconds at the start of a regular-season shootout
	RegulationLength = 3 * PeriodSeconds
)

// PeriodMaxSeconds returns the maximum elapsed seconds for a period given
// the session. Regulation and playoff overtime periods run 20 minutes;
// regular-season overtime runs 5.
func PeriodMaxSeconds(session Session, period int) int {
	if period <= 3 {
		return PeriodSeconds
	}
	if session == SessionRegular {
		if period == 4 {
			return RegOTSeconds
		}
		return 0 // shootout has no clock
	}
	return PeriodSeconds
}

// GameSeconds converts a period and elapsed seconds to cumulative game
// seconds. Regular-season shootouts are pinned to the 3900 mark.
func GameSeconds(session Session, period, periodSeconds int) int {
	if session == SessionRegular && period == 5 {
		return ShootoutStart + periodSeconds
	}
	return (period-1)*PeriodSeconds + periodSeconds
}

// PeriodBoundaries are the game-second marks at which changes are treated
// as period-boundary changes rather than stoppage changes.
func PeriodBoundaries(session Session, maxGameSeconds int) map[int]bool {
	b := map[int]bool{0: true, 1200: true, 2400: true, 3600: true, ShootoutStart: true}
	b[maxGameSeconds] = true
	return b
}
