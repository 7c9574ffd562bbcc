package stats

import (
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// OICounts are the on-ice statistic columns: what happened while a player,
// line, or team was on the ice, split into for and against.
type OICounts struct {
	TOI float64 `json:"toi"`

	GF  float64 `json:"gf"`
	GA  float64 `json:"ga"`
	XGF float64 `json:"xgf"`
	XGA float64 `json:"xga"`
	SF  float64 `json:"sf"`
	SA  float64 `json:"sa"`
	FF  float64 `json:"ff"`
	FA  float64 `json:"fa"`
	CF  float64 `json:"cf"`
	CA  float64 `json:"ca"`
	BSF float64 `json:"bsf"`
	BSA float64 `json:"bsa"`
	MSF float64 `json:"msf"`
	MSA float64 `json:"msa"`
	HF  float64 `json:"hf"`
	HT  float64 `json:"ht"`

	FOW float64 `json:"fow"`
	FOL float64 `json:"fol"`
	OZF float64 `json:"ozf"`
	NZF float64 `json:"nzf"`
	DZF float64 `json:"dzf"`

	PENT float64 `json:"pent"`
	PEND float64 `json:"pend"`

	OZS float64 `json:"ozs"`
	NZS float64 `json:"nzs"`
	DZS float64 `json:"dzs"`
	OTF float64 `json:"otf"`

	CFAdj  float64 `json:"cf_adj"`
	CAAdj  float64 `json:"ca_adj"`
	FFAdj  float64 `json:"ff_adj"`
	FAAdj  float64 `json:"fa_adj"`
	XGFAdj float64 `json:"xgf_adj"`
	XGAAdj float64 `json:"xga_adj"`
}

// OIRow is one group of the on-ice view.
type OIRow struct {
	Key
	OICounts
}

// attackingTeam returns the team a shot attempt belongs to. A block is the
// only event owned by the defending side.
func attackingTeam(ev *pbp.Event) string {
	if ev.Event == pbp.TagBlock {
		return ev.OppTeam
	}
	return ev.EventTeam
}

// charge books one event onto a group's counters from one side's
// perspective. forSide is true when the group's team owns the event (for a
// block, when the group's team took the blocked shot).
func charge(c *OICounts, ev *pbp.Event, forSide bool) {
	c.TOI += float64(ev.EventLength) / 60

	f := ev.Flags
	wHome, wAway := adjustFactors(ev.ScoreDiff)
	wFor, wAgainst := wHome, wAway
	if teamAt(ev, pbp.VenueHome) != attackingTeam(ev) {
		wFor, wAgainst = wAway, wHome
	}

	if forSide {
		c.GF += float64(f.Goal)
		c.SF += float64(f.Shot)
		c.MSF += float64(f.Miss)
		c.BSF += float64(f.Block)
		c.FF += float64(f.Fenwick)
		c.CF += float64(f.Corsi)
		c.FFAdj += float64(f.Fenwick) * wFor
		c.CFAdj += float64(f.Corsi) * wFor
		if f.Fenwick == 1 {
			c.XGF += xg(ev)
			c.XGFAdj += xg(ev) * wFor
		}
	} else {
		c.GA += float64(f.Goal)
		c.SA += float64(f.Shot)
		c.MSA += float64(f.Miss)
		c.BSA += float64(f.Block)
		c.FA += float64(f.Fenwick)
		c.CA += float64(f.Corsi)
		c.FAAdj += float64(f.Fenwick) * wAgainst
		c.CAAdj += float64(f.Corsi) * wAgainst
		if f.Fenwick == 1 {
			c.XGA += xg(ev)
			c.XGAAdj += xg(ev) * wAgainst
		}
	}

	// Faceoffs, hits, and penalties read from the event team's side rather
	// than the attacking side.
	ownSide := forSide
	if ev.Event == pbp.TagBlock {
		ownSide = !forSide
	}
	switch ev.Event {
	case pbp.TagFac:
		zone := ev.Zone
		if ownSide {
			c.FOW++
		} else {
			c.FOL++
			zone = zone.Flip()
		}
		switch zone {
		case pbp.ZoneOff:
			c.OZF++
		case pbp.ZoneNeu:
			c.NZF++
		case pbp.ZoneDef:
			c.DZF++
		}
	case pbp.TagHit:
		if ownSide {
			c.HF++
		} else {
			c.HT++
		}
	case pbp.TagPenl:
		if ownSide {
			c.PENT++
		} else {
			c.PEND++
		}
	}
}

// OnIce reduces the stream into per-player on-ice counts: everything that
// happened while the player was out there, plus his zone starts.
func OnIce(events []pbp.Event, opts Options) []OIRow {
	groups := map[Key]*OICounts{}
	get := func(k Key) *OICounts {
		c, ok := groups[k]
		if !ok {
			c = &OICounts{}
			groups[k] = c
		}
		return c
	}
	playerKey := func(ev *pbp.Event, venue pbp.Venue, name, ehID string, apiID int64, pos string) Key {
		k := baseKey(ev, opts)
		k.Team = teamAt(ev, venue)
		k.Venue = venue
		k.Player = name
		k.PlayerEhID = ehID
		k.PlayerAPIID = apiID
		k.Position = pos
		return withTeammates(k, ev, venue, ehID, opts)
	}

	for i := range events {
		ev := &events[i]
		for _, venue := range []pbp.Venue{pbp.VenueHome, pbp.VenueAway} {
			side := &ev.HomeOn
			if venue == pbp.VenueAway {
				side = &ev.AwayOn
			}
			forSide := teamAt(ev, venue) == attackingTeam(ev) && attackingTeam(ev) != ""
			eachOnIce(side, func(name, ehID string, apiID int64, pos string) {
				charge(get(playerKey(ev, venue, name, ehID, apiID, pos)), ev, forSide)
			})
		}

		// Zone starts belong to the skaters stepping on.
		if ev.Event == pbp.TagChange {
			venue := pbp.VenueAway
			if ev.IsHome == 1 {
				venue = pbp.VenueHome
			}
			for _, p := range ev.Change.PlayersOn {
				if p.EhID == "" {
					continue
				}
				c := get(playerKey(ev, venue, p.Name, p.EhID, p.APIID, p.Position))
				switch ev.Change.ZoneStart {
				case pbp.ZoneOff:
					c.OZS++
				case pbp.ZoneNeu:
					c.NZS++
				case pbp.ZoneDef:
					c.DZS++
				case pbp.ZoneOTF:
					c.OTF++
				}
			}
		}
	}

	rows := make([]OIRow, 0, len(groups))
	for k, c := range groups {
		rows = append(rows, OIRow{Key: k, OICounts: *c})
	}
	sortRows(rows, func(r OIRow) Key { return r.Key })
	return rows
}

// eachOnIce visits every player in an on-ice snapshot.
func eachOnIce(side *pbp.OnIceSide, fn func(name, ehID string, apiID int64, pos string)) {
	for i := range side.Forwards {
		fn(side.Forwards[i], side.ForwardsEhID[i], side.ForwardsAPIID[i], "F")
	}
	for i := range side.Defense {
		fn(side.Defense[i], side.DefenseEhID[i], side.DefenseAPIID[i], "D")
	}
	for i := range side.Goalies {
		fn(side.Goalies[i], side.GoaliesEhID[i], side.GoaliesAPIID[i], "G")
	}
}
