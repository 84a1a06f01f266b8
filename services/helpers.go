package services

import "strconv"

// Room names used by the live hub. Kept here so services and handlers agree
// on the format.
func TournamentRoom(tournamentID int) string {
	return "tournament:" + strconv.Itoa(tournamentID)
}

func GameDateRoom(gameDateID int) string {
	return "gamedate:" + strconv.Itoa(gameDateID)
}
