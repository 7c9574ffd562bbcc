package names

import "strings"

// teamOverrides maps the abbreviations the HTML reports use to the
// canonical three-letter codes the API uses.
var teamOverrides = map[string]string{
	"L.A": "LAK",
	"N.J": "NJD",
	"S.J": "SJS",
	"T.B": "TBL",
	"PHX": "ARI",
	"MON": "MTL",
}

// Team canonicalizes a team abbreviation.
func Team(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if canon, ok := teamOverrides[t]; ok {
		return canon
	}
	return t
}
