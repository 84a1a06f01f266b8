package scoring

// WinnerPoints returns the point pool for first place. The pool scales in
// tiers with the size of the field at the start of the date.
func WinnerPoints(totalPlayers int) int {
	switch {
	case totalPlayers >= 20:
		return 25
	case totalPlayers >= 16:
		return 22
	case totalPlayers >= 12:
		return 20
	case totalPlayers >= 9:
		return 18
	default:
		return 15
	}
}

// Points converts a finishing position into points for a table of
// totalPlayers. Position 1 earns the full winner pool, last place earns 0,
// and intermediate positions decay linearly (floor-rounded, so the curve is
// monotone non-increasing). The result is frozen into the elimination record
// at the moment it is written and never recomputed.
func Points(position, totalPlayers int) int {
	if position < 1 || totalPlayers < 1 || position > totalPlayers {
		return 0
	}
	pool := WinnerPoints(totalPlayers)
	if totalPlayers == 1 {
		return pool
	}
	return pool * (totalPlayers - position) / (totalPlayers - 1)
}
