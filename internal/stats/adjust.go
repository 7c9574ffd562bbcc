package stats

// Score- and venue-adjustment factors. Teams protecting a lead sit back and
// concede attempts, so raw possession counts drift with the score; the
// factors reweight attempts by the score difference from the home side, with
// a small venue correction for home-rink scorer bias folded in. Differences
// beyond three goals clamp to the three-goal row.
var scoreVenueAdj = map[int][2]float64{
	// home-team factor, away-team factor
	-3: {0.841, 1.233},
	-2: {0.860, 1.194},
	-1: {0.897, 1.129},
	0:  {0.970, 1.032},
	1:  {1.048, 0.956},
	2:  {1.112, 0.907},
	3:  {1.170, 0.867},
}

// adjustFactors returns the attempt weights for the home and away team at a
// home-perspective score difference.
func adjustFactors(scoreDiff int) (home, away float64) {
	if scoreDiff > 3 {
		scoreDiff = 3
	}
	if scoreDiff < -3 {
		scoreDiff = -3
	}
	f := scoreVenueAdj[scoreDiff]
	return f[0], f[1]
}
