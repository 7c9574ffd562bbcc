package parse

import (
	"testing"
)

func TestHTMLRostersTwoColumnRows(t *testing.T) {
	// Early-season reports drop the position column.
	report := []byte(`<html><body>
<table><tr><td>14</td><td>NICK SUZUKI (C)</td></tr></table>
<table><tr><td class="bold">34</td><td class="bold">AUSTON MATTHEWS</td></tr></table>
</body></html>`)

	rosters, err := HTMLRosters(report, testMeta)
	if err != nil {
		t.Fatalf("HTMLRosters: %v", err)
	}
	if len(rosters) != 2 {
		t.Fatalf("got %d rows; want 2", len(rosters))
	}
	away, home := rosters[0], rosters[1]
	if away.PlayerName != "NICK SUZUKI" || away.Team != "MTL" || away.Position != "" {
		t.Errorf("away row = %q %s pos %q; want NICK SUZUKI MTL with empty position",
			away.PlayerName, away.Team, away.Position)
	}
	if home.PlayerName != "AUSTON MATTHEWS" || home.Jersey != 34 {
		t.Errorf("home row = %q #%d; want AUSTON MATTHEWS #34", home.PlayerName, home.Jersey)
	}
	if home.Starter != 1 {
		t.Errorf("home starter = %d; want 1 from the bold row", home.Starter)
	}
}
