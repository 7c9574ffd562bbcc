package stats

import (
	"math"
	"testing"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

func onIceSide(team string) pbp.OnIceSide {
	return pbp.OnIceSide{
		Forwards:      []string{team + " F1", team + " F2", team + " F3"},
		ForwardsEhID:  []string{team + ".F1", team + ".F2", team + ".F3"},
		ForwardsAPIID: []int64{1, 2, 3},
		Defense:       []string{team + " D1", team + " D2"},
		DefenseEhID:   []string{team + ".D1", team + ".D2"},
		DefenseAPIID:  []int64{4, 5},
		Goalies:       []string{team + " G"},
		GoaliesEhID:   []string{team + ".G"},
		GoaliesAPIID:  []int64{6},
	}
}

func statEvent(tag pbp.Tag, team string, length int) pbp.Event {
	ev := pbp.Event{
		GameID: 2023020001, Season: 20232024, Session: pbp.SessionRegular,
		Period: 1, Event: tag, EventTeam: team,
		HomeTeam: "TOR", AwayTeam: "MTL",
		HomeOn: onIceSide("TOR"), AwayOn: onIceSide("MTL"),
		EventLength:   length,
		StrengthState: "5v5",
		ScoreState:    "0v0",
	}
	if team == "TOR" {
		ev.OppTeam, ev.IsHome = "MTL", 1
	} else if team == "MTL" {
		ev.OppTeam = "TOR"
	}
	switch tag {
	case pbp.TagGoal:
		ev.Flags = pbp.Flags{Goal: 1, Shot: 1, Fenwick: 1, Corsi: 1}
	case pbp.TagShot:
		ev.Flags = pbp.Flags{Shot: 1, Fenwick: 1, Corsi: 1}
	case pbp.TagMiss:
		ev.Flags = pbp.Flags{Miss: 1, Fenwick: 1, Corsi: 1}
	case pbp.TagBlock:
		ev.Flags = pbp.Flags{Block: 1, Corsi: 1}
	case pbp.TagFac:
		ev.Flags = pbp.Flags{Fac: 1}
	}
	return ev
}

// fixture: TOR goal, TOR shot, MTL miss, MTL shot blocked by TOR.
func fixtureEvents() []pbp.Event {
	goal := statEvent(pbp.TagGoal, "TOR", 30)
	goal.Player1 = pbp.EventPlayer{Name: "TOR F1", EhID: "TOR.F1", APIID: 1, Position: "C", Role: pbp.RoleGoalScorer}
	goal.Player2 = pbp.EventPlayer{Name: "TOR F2", EhID: "TOR.F2", APIID: 2, Position: "L", Role: pbp.RolePrimaryAssist}
	goal.Player3 = pbp.EventPlayer{Name: "TOR D1", EhID: "TOR.D1", APIID: 4, Position: "D", Role: pbp.RoleSecondaryAssist}

	shot := statEvent(pbp.TagShot, "TOR", 20)
	shot.Player1 = pbp.EventPlayer{Name: "TOR F2", EhID: "TOR.F2", APIID: 2, Position: "L", Role: pbp.RoleShooter}

	miss := statEvent(pbp.TagMiss, "MTL", 40)
	miss.Player1 = pbp.EventPlayer{Name: "MTL F1", EhID: "MTL.F1", APIID: 1, Position: "C", Role: pbp.RoleShooter}

	block := statEvent(pbp.TagBlock, "TOR", 10)
	block.Player1 = pbp.EventPlayer{Name: "TOR D2", EhID: "TOR.D2", APIID: 5, Position: "D", Role: pbp.RoleBlocker}
	block.Player2 = pbp.EventPlayer{Name: "MTL F2", EhID: "MTL.F2", APIID: 2, Position: "L", Role: pbp.RoleShooter}

	return []pbp.Event{goal, shot, miss, block}
}

func findStats(rows []StatsRow, ehID string) *StatsRow {
	for i := range rows {
		if rows[i].PlayerEhID == ehID {
			return &rows[i]
		}
	}
	return nil
}

func TestIndividualAttribution(t *testing.T) {
	rows := Individual(fixtureEvents(), Options{Level: LevelGame})
	byID := map[string]IndRow{}
	for _, r := range rows {
		byID[r.PlayerEhID] = r
	}

	f1 := byID["TOR.F1"]
	if f1.G != 1 || f1.ISF != 1 || f1.IFF != 1 || f1.ICF != 1 {
		t.Errorf("scorer = g %v isf %v iff %v icf %v; want all 1", f1.G, f1.ISF, f1.IFF, f1.ICF)
	}
	if a1 := byID["TOR.F2"]; a1.A1 != 1 || a1.ISF != 1 {
		t.Errorf("primary assist = a1 %v isf %v; want 1, 1", a1.A1, a1.ISF)
	}
	if a2 := byID["TOR.D1"]; a2.A2 != 1 {
		t.Errorf("secondary assist = %v; want 1", a2.A2)
	}
	if blocker := byID["TOR.D2"]; blocker.IBS != 1 {
		t.Errorf("blocker ibs = %v; want 1", blocker.IBS)
	}
	// The blocked attempt is a corsi event for the shooter alone.
	if shooter := byID["MTL.F2"]; shooter.ICF != 1 || shooter.IFF != 0 {
		t.Errorf("blocked shooter = icf %v iff %v; want 1, 0", shooter.ICF, shooter.IFF)
	}
}

func TestOnIceIdentities(t *testing.T) {
	rows := OnIce(fixtureEvents(), Options{Level: LevelGame})
	for _, r := range rows {
		if r.CF != r.SF+r.MSF+r.BSF {
			t.Errorf("%s: cf %v != sf %v + msf %v + bsf %v", r.PlayerEhID, r.CF, r.SF, r.MSF, r.BSF)
		}
		if r.FF != r.SF+r.MSF {
			t.Errorf("%s: ff %v != sf %v + msf %v", r.PlayerEhID, r.FF, r.SF, r.MSF)
		}
		if r.CA != r.SA+r.MSA+r.BSA {
			t.Errorf("%s: ca %v != sa + msa + bsa", r.PlayerEhID, r.CA)
		}
	}
}

func TestOnIceCountsAndTOI(t *testing.T) {
	rows := OnIce(fixtureEvents(), Options{Level: LevelGame})
	var r *OIRow
	for i := range rows {
		if rows[i].PlayerEhID == "TOR.F1" {
			r = &rows[i]
		}
	}
	if r == nil {
		t.Fatal("no row for TOR.F1")
	}
	// On ice for all four events: 100 seconds.
	if want := 100.0 / 60; math.Abs(r.TOI-want) > 1e-9 {
		t.Errorf("toi = %v; want %v", r.TOI, want)
	}
	if r.GF != 1 || r.SF != 2 || r.CF != 2 || r.CA != 2 {
		t.Errorf("gf/sf/cf/ca = %v/%v/%v/%v; want 1/2/2/2", r.GF, r.SF, r.CF, r.CA)
	}
	// The block by TOR is a corsi against for MTL and a bsf for MTL's shooter side.
	var m *OIRow
	for i := range rows {
		if rows[i].PlayerEhID == "MTL.F1" {
			m = &rows[i]
		}
	}
	if m.BSF != 1 || m.CF != 2 {
		t.Errorf("MTL bsf/cf = %v/%v; want 1/2", m.BSF, m.CF)
	}
}

func TestTeamGoalsMatchStream(t *testing.T) {
	events := fixtureEvents()
	rows := TeamStats(events, Options{Level: LevelGame})

	goals := map[string]float64{}
	for i := range events {
		if events[i].Event == pbp.TagGoal {
			goals[events[i].EventTeam]++
		}
	}
	for _, r := range rows {
		if r.GF != goals[r.Team] {
			t.Errorf("team %s gf = %v; want %v", r.Team, r.GF, goals[r.Team])
		}
	}
}

func TestFaceoffZoneIdentity(t *testing.T) {
	fac := statEvent(pbp.TagFac, "TOR", 15)
	fac.Zone = pbp.ZoneOff
	fac.Player1 = pbp.EventPlayer{Name: "TOR F1", EhID: "TOR.F1", APIID: 1, Position: "C", Role: pbp.RoleWinner}
	fac.Player2 = pbp.EventPlayer{Name: "MTL F1", EhID: "MTL.F1", APIID: 1, Position: "C", Role: pbp.RoleLoser}

	rows := OnIce([]pbp.Event{fac}, Options{Level: LevelGame})
	for _, r := range rows {
		if got := r.OZF + r.NZF + r.DZF; got != r.FOW+r.FOL {
			t.Errorf("%s: zone faceoffs %v != faceoffs %v", r.PlayerEhID, got, r.FOW+r.FOL)
		}
	}
	var tor, mtl *OIRow
	for i := range rows {
		switch rows[i].PlayerEhID {
		case "TOR.D1":
			tor = &rows[i]
		case "MTL.D1":
			mtl = &rows[i]
		}
	}
	if tor.OZF != 1 || tor.FOW != 1 {
		t.Errorf("TOR side ozf/fow = %v/%v; want 1/1", tor.OZF, tor.FOW)
	}
	if mtl.DZF != 1 || mtl.FOL != 1 {
		t.Errorf("MTL side dzf/fol = %v/%v; want 1/1 (zone flipped)", mtl.DZF, mtl.FOL)
	}
}

func TestStatsJoin(t *testing.T) {
	rows := Stats(fixtureEvents(), Options{Level: LevelGame})
	r := findStats(rows, "TOR.F1")
	if r == nil {
		t.Fatal("no joined row for TOR.F1")
	}
	if r.G != 1 || r.GF != 1 {
		t.Errorf("joined g/gf = %v/%v; want 1/1", r.G, r.GF)
	}
	if r.Position != "F" {
		t.Errorf("position = %q; want F after normalization", r.Position)
	}
	if want := 60 * 1 / r.TOI; math.Abs(r.GP60-want) > 1e-9 {
		t.Errorf("g_p60 = %v; want %v", r.GP60, want)
	}
	if want := 100 * 2.0 / 4.0; math.Abs(r.CFPercent-want) > 1e-9 {
		t.Errorf("cf_percent = %v; want %v", r.CFPercent, want)
	}
}

func TestStatsStrengthSplit(t *testing.T) {
	events := fixtureEvents()
	events[1].StrengthState = "5v4"
	rows := OnIce(events, Options{Level: LevelGame, Strength: true})
	states := map[string]bool{}
	for _, r := range rows {
		if r.PlayerEhID == "TOR.F1" {
			states[r.StrengthState] = true
		}
	}
	if !states["5v5"] || !states["5v4"] {
		t.Errorf("strength splits = %v; want rows at 5v5 and 5v4", states)
	}
}

func TestLinesGrouping(t *testing.T) {
	rows := Lines(fixtureEvents(), LineForwards, Options{Level: LevelGame})
	if len(rows) != 2 {
		t.Fatalf("got %d line rows; want 2 (one trio per side)", len(rows))
	}
	for _, r := range rows {
		if r.TeammatesF == "" {
			t.Errorf("line ID empty for team %s", r.Team)
		}
		if r.CF != r.SF+r.MSF+r.BSF {
			t.Errorf("line %s: cf identity broken", r.TeammatesF)
		}
	}
	pairs := Lines(fixtureEvents(), LineDefense, Options{Level: LevelGame})
	if len(pairs) != 2 {
		t.Fatalf("got %d pair rows; want 2", len(pairs))
	}
}

func TestAdjustedCountsShift(t *testing.T) {
	lead := statEvent(pbp.TagShot, "TOR", 10)
	lead.ScoreDiff = 2
	tied := statEvent(pbp.TagShot, "TOR", 10)

	rows := TeamStats([]pbp.Event{lead, tied}, Options{Level: LevelGame})
	var tor *TeamRow
	for i := range rows {
		if rows[i].Team == "TOR" {
			tor = &rows[i]
		}
	}
	wLead, _ := adjustFactors(2)
	wTied, _ := adjustFactors(0)
	if want := wLead + wTied; math.Abs(tor.CFAdj-want) > 1e-9 {
		t.Errorf("cf_adj = %v; want %v", tor.CFAdj, want)
	}
	if tor.CF != 2 {
		t.Errorf("cf = %v; want 2 raw", tor.CF)
	}
}
