package parse

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/slapshotlabs/rinkline/internal/names"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// captainRE strips the captaincy marker the roster report appends to names.
var captainRE = regexp.MustCompile(`\s*\([AC]\)\s*$`)

// HTMLRosters parses the RO report. The report lays out four player tables
// in document order: visitor dressed, home dressed, visitor scratches, home
// scratches. Starters are marked bold in the dressed tables.
func HTMLRosters(report []byte, meta GameMeta) ([]pbp.RosterPlayer, error) {
	doc, err := parseDoc(report)
	if err != nil {
		return nil, fmt.Errorf("roster report: %w", err)
	}

	tables := playerTables(doc)
	if len(tables) < 2 {
		return nil, fmt.Errorf("roster report for game %d: found %d player tables; want at least 2", meta.GameID, len(tables))
	}

	sections := []struct {
		team    string
		venue   pbp.Venue
		status  string
		starter bool
	}{
		{meta.AwayTeam, pbp.VenueAway, pbp.StatusActive, true},
		{meta.HomeTeam, pbp.VenueHome, pbp.StatusActive, true},
		{meta.AwayTeam, pbp.VenueAway, pbp.StatusScratch, false},
		{meta.HomeTeam, pbp.VenueHome, pbp.StatusScratch, false},
	}

	var rosters []pbp.RosterPlayer
	for i, table := range tables {
		if i >= len(sections) {
			break
		}
		sec := sections[i]
		for _, row := range table {
			jersey, ok := atoi(row.cells[0])
			if !ok {
				continue
			}
			name := names.Normalize(captainRE.ReplaceAllString(row.cells[2], ""))
			if name == "" {
				continue
			}
			pos := strings.ToUpper(strings.TrimSpace(row.cells[1]))
			r := pbp.RosterPlayer{
				GameID:     meta.GameID,
				Season:     meta.Season,
				Session:    meta.Session,
				Team:       sec.team,
				TeamVenue:  sec.venue,
				Jersey:     jersey,
				PlayerName: name,
				EhID:       names.EhID(name, pos, meta.Season),
				Position:   pos,
				Status:     sec.status,
			}
			if sec.starter && row.bold {
				r.Starter = 1
			}
			rosters = append(rosters, r)
		}
	}
	if len(rosters) == 0 {
		return nil, fmt.Errorf("roster report for game %d: no player rows", meta.GameID)
	}
	return rosters, nil
}

// playerRow is one candidate roster row with its styling.
type playerRow struct {
	cells []string
	bold  bool
}

// playerTables groups jersey/position/name rows by their owning table,
// preserving document order. Some seasons omit the position column; those
// rows are padded so callers always see (jersey, position, name).
func playerTables(doc *html.Node) [][]playerRow {
	rows := findAll(doc, func(n *html.Node) bool { return isElement(n, "tr") })

	var tables [][]playerRow
	owners := map[*html.Node]int{}
	for _, tr := range rows {
		cells := rowCells(tr)
		switch len(cells) {
		case 3:
		case 2:
			cells = []string{cells[0], "", cells[1]}
		default:
			continue
		}
		if _, ok := atoi(cells[0]); !ok {
			continue
		}
		owner := tr.Parent
		for owner != nil && !isElement(owner, "table") {
			owner = owner.Parent
		}
		if owner == nil {
			continue
		}
		idx, ok := owners[owner]
		if !ok {
			idx = len(tables)
			owners[owner] = idx
			tables = append(tables, nil)
		}
		tables[idx] = append(tables[idx], playerRow{cells: cells, bold: hasBold(tr)})
	}
	return tables
}

// JoinRosters enriches the HTML rosters with API identity, matching on team
// and jersey. Dressed players only the API knows are appended; players only
// the report knows keep a zero API ID.
func JoinRosters(htmlRosters []pbp.RosterPlayer, gc *nhl.GameCenter, meta GameMeta) []pbp.RosterPlayer {
	type key struct {
		team   string
		jersey int
	}
	spots := make(map[key]nhl.RosterSpot, len(gc.RosterSpots))
	for _, s := range gc.RosterSpots {
		spots[key{names.Team(gc.TeamAbbrev(s.TeamID)), s.SweaterNumber}] = s
	}

	joined := make([]pbp.RosterPlayer, 0, len(htmlRosters))
	matched := make(map[key]bool, len(htmlRosters))
	for _, r := range htmlRosters {
		k := key{r.Team, r.Jersey}
		if s, ok := spots[k]; ok {
			r.APIID = s.PlayerID
			matched[k] = true
		}
		joined = append(joined, r)
	}

	for _, s := range gc.RosterSpots {
		k := key{names.Team(gc.TeamAbbrev(s.TeamID)), s.SweaterNumber}
		if matched[k] {
			continue
		}
		name := names.Normalize(s.FirstName.Default + " " + s.LastName.Default)
		venue := pbp.VenueHome
		if k.team == meta.AwayTeam {
			venue = pbp.VenueAway
		}
		joined = append(joined, pbp.RosterPlayer{
			GameID:     meta.GameID,
			Season:     meta.Season,
			Session:    meta.Session,
			Team:       k.team,
			TeamVenue:  venue,
			Jersey:     k.jersey,
			PlayerName: name,
			EhID:       names.EhID(name, s.PositionCode, meta.Season),
			APIID:      s.PlayerID,
			Position:   s.PositionCode,
			Status:     pbp.StatusActive,
		})
	}
	return joined
}
