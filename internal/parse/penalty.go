package parse

import "strings"

// penaltyCascade maps report penalty text onto canonical infraction names.
// The list is ordered: specific phrases must win before their generic
// substrings, so goaltender interference outranks interference and game
// misconduct outranks misconduct.
var penaltyCascade = []struct{ match, name string }{
	{"PS -", "PENALTY SHOT"},
	{"PS-", "PENALTY SHOT"},
	{"MATCH PENALTY", "MATCH PENALTY"},
	{"GAME MISCONDUCT", "GAME MISCONDUCT"},
	{"MISCONDUCT", "MISCONDUCT"},
	{"TOO MANY MEN", "TOO MANY MEN"},
	{"PUCK OVER GLASS", "DELAY OF GAME - PUCK OVER GLASS"},
	{"FACE-OFF VIOLATION", "DELAY OF GAME - FACEOFF VIOLATION"},
	{"SMOTHERING PUCK", "DELAY OF GAME - SMOTHERING PUCK"},
	{"DELAY", "DELAY OF GAME"},
	{"HI-STICK", "HIGH-STICKING"},
	{"HIGH-STICK", "HIGH-STICKING"},
	{"HIGH STICK", "HIGH-STICKING"},
	{"CROSS-CHECK", "CROSS-CHECKING"},
	{"CROSS CHECK", "CROSS-CHECKING"},
	{"INTERFERENCE - GOALKEEPER", "GOALTENDER INTERFERENCE"},
	{"INTERFERENCE ON GOALKEEPER", "GOALTENDER INTERFERENCE"},
	{"GOALKEEPER INTERFERENCE", "GOALTENDER INTERFERENCE"},
	{"INTERFERENCE", "INTERFERENCE"},
	{"HOLDING THE STICK", "HOLDING THE STICK"},
	{"HOLDING STICK", "HOLDING THE STICK"},
	{"HOLDING", "HOLDING"},
	{"ILLEGAL CHECK TO HEAD", "ILLEGAL CHECK TO HEAD"},
	{"CHECKING FROM BEHIND", "CHECKING FROM BEHIND"},
	{"ABUSE OF OFFICIALS", "ABUSE OF OFFICIALS"},
	{"ABUSIVE LANGUAGE", "ABUSE OF OFFICIALS"},
	{"UNSPORTSMANLIKE", "UNSPORTSMANLIKE CONDUCT"},
	{"EMBELLISHMENT", "EMBELLISHMENT"},
	{"DIVING", "EMBELLISHMENT"},
	{"INSTIGATOR", "INSTIGATOR"},
	{"AGGRESSOR", "AGGRESSOR"},
	{"BROKEN STICK", "BROKEN STICK"},
	{"ILLEGAL STICK", "ILLEGAL STICK"},
	{"ILLEGAL EQUIPMENT", "ILLEGAL EQUIPMENT"},
	{"CLOSING HAND", "CLOSING HAND ON PUCK"},
	{"HAND PASS", "HAND PASS"},
	{"TRIP", "TRIPPING"},
	{"HOOK", "HOOKING"},
	{"SLASH", "SLASHING"},
	{"ROUGH", "ROUGHING"},
	{"FIGHT", "FIGHTING"},
	{"BOARD", "BOARDING"},
	{"CHARG", "CHARGING"},
	{"ELBOW", "ELBOWING"},
	{"KNEE", "KNEEING"},
	{"CLIP", "CLIPPING"},
	{"SPEAR", "SPEARING"},
	{"BUTT-END", "BUTT-ENDING"},
	{"BUTT END", "BUTT-ENDING"},
	{"HEAD-BUTT", "HEAD-BUTTING"},
	{"HEAD BUTT", "HEAD-BUTTING"},
	{"SLEW-FOOT", "SLEW-FOOTING"},
	{"SLEW FOOT", "SLEW-FOOTING"},
	{"THROWING", "THROWING EQUIPMENT"},
	{"LEAVING", "LEAVING THE CREASE"},
	{"BENCH", "BENCH MINOR"},
}

// penaltyName resolves the canonical infraction label from a description.
// Unmatched text falls back to the raw clause before the minutes marker.
func penaltyName(desc string) string {
	for _, c := range penaltyCascade {
		if strings.Contains(desc, c.match) {
			return c.name
		}
	}
	if m := penLengthRE.FindStringIndex(desc); m != nil {
		head := strings.TrimSpace(desc[:m[0]])
		if i := strings.LastIndex(head, " "); i >= 0 {
			return head[i+1:]
		}
		return head
	}
	return ""
}
