package export

import (
	"github.com/slapshotlabs/rinkline/internal/stats"
)

// IndFrame renders the individual view.
func IndFrame(rows []stats.IndRow) *Frame {
	f := NewFrame()
	for i := range rows {
		f.Next()
		keyColumns(f, &rows[i].Key)
		indColumns(f, &rows[i].IndCounts)
	}
	return f
}

// OnIceFrame renders the on-ice view.
func OnIceFrame(rows []stats.OIRow) *Frame {
	f := NewFrame()
	for i := range rows {
		f.Next()
		keyColumns(f, &rows[i].Key)
		oiColumns(f, &rows[i].OICounts)
	}
	return f
}

// StatsFrame renders the joined player view with rates and shares.
func StatsFrame(rows []stats.StatsRow) *Frame {
	f := NewFrame()
	for i := range rows {
		f.Next()
		keyColumns(f, &rows[i].Key)
		indColumns(f, &rows[i].IndCounts)
		oiColumns(f, &rows[i].OICounts)
		ratesColumns(f, &rows[i].Rates)
	}
	return f
}

// LinesFrame renders the line-combination view.
func LinesFrame(rows []stats.LineRow) *Frame {
	f := NewFrame()
	for i := range rows {
		f.Next()
		f.Str("kind", string(rows[i].Kind))
		keyColumns(f, &rows[i].Key)
		oiColumns(f, &rows[i].OICounts)
	}
	return f
}

// TeamFrame renders the team view.
func TeamFrame(rows []stats.TeamRow) *Frame {
	f := NewFrame()
	for i := range rows {
		f.Next()
		keyColumns(f, &rows[i].Key)
		oiColumns(f, &rows[i].OICounts)
	}
	return f
}

func keyColumns(f *Frame, k *stats.Key) {
	f.Int("season", int64(k.Season))
	f.Str("session", string(k.Session))
	f.IntOrNull("game_id", int64(k.GameID))
	f.IntOrNull("period", int64(k.Period))
	f.Str("team", k.Team)
	f.Str("venue", string(k.Venue))
	f.Str("player", k.Player)
	f.Str("eh_id", k.PlayerEhID)
	f.IntOrNull("api_id", k.PlayerAPIID)
	f.Str("position", k.Position)
	f.Str("strength_state", k.StrengthState)
	f.Str("score_state", k.ScoreState)
	f.Str("forwards", k.TeammatesF)
	f.Str("defense", k.TeammatesD)
	f.Str("own_goalie", k.TeammatesG)
	f.Str("opp_forwards", k.OppF)
	f.Str("opp_defense", k.OppD)
	f.Str("opp_goalie", k.OppG)
}

func indColumns(f *Frame, c *stats.IndCounts) {
	f.Float("g", c.G)
	f.Float("a1", c.A1)
	f.Float("a2", c.A2)
	f.Float("ixg", c.IxG)
	f.Float("isf", c.ISF)
	f.Float("iff", c.IFF)
	f.Float("icf", c.ICF)
	f.Float("imsf", c.IMSF)
	f.Float("ibs", c.IBS)
	f.Float("ihf", c.IHF)
	f.Float("iht", c.IHT)
	f.Float("igive", c.IGive)
	f.Float("itake", c.ITake)
	f.Float("ifow", c.IFOW)
	f.Float("ifol", c.IFOL)
	f.Float("ozfw", c.OZFW)
	f.Float("nzfw", c.NZFW)
	f.Float("dzfw", c.DZFW)
	f.Float("ozfl", c.OZFL)
	f.Float("nzfl", c.NZFL)
	f.Float("dzfl", c.DZFL)
	f.Float("ipent", c.IPent)
	f.Float("ipent0", c.IPent0)
	f.Float("ipent2", c.IPent2)
	f.Float("ipent4", c.IPent4)
	f.Float("ipent5", c.IPent5)
	f.Float("ipent10", c.IPent10)
	f.Float("ipend", c.IPend)
	f.Float("ipend0", c.IPend0)
	f.Float("ipend2", c.IPend2)
	f.Float("ipend4", c.IPend4)
	f.Float("ipend5", c.IPend5)
	f.Float("ipend10", c.IPend10)
}

func oiColumns(f *Frame, c *stats.OICounts) {
	f.Float("toi", c.TOI)
	f.Float("gf", c.GF)
	f.Float("ga", c.GA)
	f.Float("xgf", c.XGF)
	f.Float("xga", c.XGA)
	f.Float("sf", c.SF)
	f.Float("sa", c.SA)
	f.Float("ff", c.FF)
	f.Float("fa", c.FA)
	f.Float("cf", c.CF)
	f.Float("ca", c.CA)
	f.Float("bsf", c.BSF)
	f.Float("bsa", c.BSA)
	f.Float("msf", c.MSF)
	f.Float("msa", c.MSA)
	f.Float("hf", c.HF)
	f.Float("ht", c.HT)
	f.Float("fow", c.FOW)
	f.Float("fol", c.FOL)
	f.Float("ozf", c.OZF)
	f.Float("nzf", c.NZF)
	f.Float("dzf", c.DZF)
	f.Float("pent", c.PENT)
	f.Float("pend", c.PEND)
	f.Float("ozs", c.OZS)
	f.Float("nzs", c.NZS)
	f.Float("dzs", c.DZS)
	f.Float("otf", c.OTF)
	f.Float("cf_adj", c.CFAdj)
	f.Float("ca_adj", c.CAAdj)
	f.Float("ff_adj", c.FFAdj)
	f.Float("fa_adj", c.FAAdj)
	f.Float("xgf_adj", c.XGFAdj)
	f.Float("xga_adj", c.XGAAdj)
}

func ratesColumns(f *Frame, r *stats.Rates) {
	f.Float("g_p60", r.GP60)
	f.Float("a1_p60", r.A1P60)
	f.Float("a2_p60", r.A2P60)
	f.Float("ixg_p60", r.IxGP60)
	f.Float("isf_p60", r.ISFP60)
	f.Float("icf_p60", r.ICFP60)
	f.Float("gf_p60", r.GFP60)
	f.Float("ga_p60", r.GAP60)
	f.Float("xgf_p60", r.XGFP60)
	f.Float("xga_p60", r.XGAP60)
	f.Float("sf_p60", r.SFP60)
	f.Float("sa_p60", r.SAP60)
	f.Float("cf_p60", r.CFP60)
	f.Float("ca_p60", r.CAP60)
	f.Float("gf_percent", r.GFPercent)
	f.Float("xgf_percent", r.XGFPercent)
	f.Float("sf_percent", r.SFPercent)
	f.Float("ff_percent", r.FFPercent)
	f.Float("cf_percent", r.CFPercent)
}
