// Package names normalizes player and team identity across the NHL's two
// feeds. The HTML reports and the JSON API spell the same player different
// ways (accents, middle initials, nicknames), so every stage keys players by
// the normalized form produced here.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper decomposes characters and drops the combining marks, so
// STÜTZLE becomes STUTZLE and TERAVÄINEN becomes TERAVAINEN.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// firstNameOverrides folds the long form of a first name onto the form the
// league uses elsewhere, so the two feeds agree on one spelling.
var firstNameOverrides = map[string]string{
	"ALEXANDRE":   "ALEX",
	"ALEXANDER":   "ALEX",
	"CHRISTOPHER": "CHRIS",
}

// Normalize uppercases a raw player name, strips accents, and collapses
// interior whitespace. The first-name override table is applied to the
// leading token.
func Normalize(raw string) string {
	s, _, err := transform.String(accentStripper, raw)
	if err != nil {
		s = raw
	}
	s = strings.ToUpper(s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	if repl, ok := firstNameOverrides[fields[0]]; ok {
		fields[0] = repl
	}
	return strings.Join(fields, " ")
}

// duplicate resolves players who share a normalized name. The newer of the
// pair carries a "2" suffix, split on whichever attribute separates them.
type duplicate struct {
	position string // non-empty: the suffixed player plays this position
	season   int    // non-zero: the suffixed player appears from this season on
}

var duplicates = map[string]duplicate{
	"SEBASTIAN.AHO":   {position: "D"},
	"SEAN.COLLINS":    {position: "D"},
	"ALEX.PICARD":     {position: "D"},
	"COLIN.WHITE":     {season: 20162017},
	"ERIK.GUSTAFSSON": {season: 20152016},
	"MIKKO.LEHTONEN":  {season: 20202021},
}

// EhID derives the dotted player ID from a normalized name: the first token,
// a period, then the rest of the name. Players that collide on the plain ID
// are disambiguated by position or debut season.
func EhID(name, position string, season int) string {
	name = Normalize(name)
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	id := fields[0]
	if len(fields) > 1 {
		id += "." + strings.Join(fields[1:], " ")
	}
	if dup, ok := duplicates[id]; ok {
		if dup.position != "" && dup.position == position {
			id += "2"
		} else if dup.season != 0 && season >= dup.season {
			id += "2"
		}
	}
	return id
}
