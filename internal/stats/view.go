package stats

import "github.com/slapshotlabs/rinkline/internal/pbp"

// Rates are the derived per-sixty and share columns of the joined view.
type Rates struct {
	GP60   float64 `json:"g_p60"`
	A1P60  float64 `json:"a1_p60"`
	A2P60  float64 `json:"a2_p60"`
	IxGP60 float64 `json:"ixg_p60"`
	ISFP60 float64 `json:"isf_p60"`
	ICFP60 float64 `json:"icf_p60"`

	GFP60  float64 `json:"gf_p60"`
	GAP60  float64 `json:"ga_p60"`
	XGFP60 float64 `json:"xgf_p60"`
	XGAP60 float64 `json:"xga_p60"`
	SFP60  float64 `json:"sf_p60"`
	SAP60  float64 `json:"sa_p60"`
	CFP60  float64 `json:"cf_p60"`
	CAP60  float64 `json:"ca_p60"`

	GFPercent  float64 `json:"gf_percent"`
	XGFPercent float64 `json:"xgf_percent"`
	SFPercent  float64 `json:"sf_percent"`
	FFPercent  float64 `json:"ff_percent"`
	CFPercent  float64 `json:"cf_percent"`
}

// StatsRow is one group of the joined player view: individual counts,
// on-ice counts, and the derived rate and share columns over one key.
type StatsRow struct {
	Key
	IndCounts
	OICounts
	Rates
}

// Stats joins the individual and on-ice views on their shared key and adds
// the per-sixty rates and for-share percentages. Players with on-ice time
// but no individual events still get a row; individual events by a player
// who never appears on ice (a data defect) keep a row with zero TOI.
func Stats(events []pbp.Event, opts Options) []StatsRow {
	joined := map[Key]*StatsRow{}
	get := func(k Key) *StatsRow {
		r, ok := joined[k]
		if !ok {
			r = &StatsRow{Key: k}
			joined[k] = r
		}
		return r
	}

	for _, oi := range OnIce(events, opts) {
		k := oi.Key
		k.Position = normalizePosition(k.Position)
		get(k).OICounts = oi.OICounts
	}
	for _, ind := range Individual(events, opts) {
		k := ind.Key
		k.Position = normalizePosition(k.Position)
		get(k).IndCounts = ind.IndCounts
	}

	rows := make([]StatsRow, 0, len(joined))
	for _, r := range joined {
		r.Rates = rates(&r.IndCounts, &r.OICounts)
		rows = append(rows, *r)
	}
	sortRows(rows, func(r StatsRow) Key { return r.Key })
	return rows
}

// normalizePosition folds the specific forward positions onto F so the
// individual and on-ice views key identically.
func normalizePosition(pos string) string {
	if pbp.IsForwardPosition(pos) {
		return "F"
	}
	return pos
}

func rates(ind *IndCounts, oi *OICounts) Rates {
	return Rates{
		GP60:   per60(ind.G, oi.TOI),
		A1P60:  per60(ind.A1, oi.TOI),
		A2P60:  per60(ind.A2, oi.TOI),
		IxGP60: per60(ind.IxG, oi.TOI),
		ISFP60: per60(ind.ISF, oi.TOI),
		ICFP60: per60(ind.ICF, oi.TOI),

		GFP60:  per60(oi.GF, oi.TOI),
		GAP60:  per60(oi.GA, oi.TOI),
		XGFP60: per60(oi.XGF, oi.TOI),
		XGAP60: per60(oi.XGA, oi.TOI),
		SFP60:  per60(oi.SF, oi.TOI),
		SAP60:  per60(oi.SA, oi.TOI),
		CFP60:  per60(oi.CF, oi.TOI),
		CAP60:  per60(oi.CA, oi.TOI),

		GFPercent:  share(oi.GF, oi.GA),
		XGFPercent: share(oi.XGF, oi.XGA),
		SFPercent:  share(oi.SF, oi.SA),
		FFPercent:  share(oi.FF, oi.FA),
		CFPercent:  share(oi.CF, oi.CA),
	}
}
