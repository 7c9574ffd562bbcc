package pbp

import "fmt"

// Game IDs are ten digits: YYYYTTNNNN, where YYYY is the season's first
// year, TT the session code, and NNNN the game number.

// SeasonOf returns the eight-digit season for a game ID, so 2019020684
// yields 20192020.
func SeasonOf(gameID int) int {
	year := gameID / 1000000
	return year*10000 + year + 1
}

// SessionOf returns the session encoded in digits five and six.
func SessionOf(gameID int) Session {
	return SessionFromCode(gameID / 10000 % 100)
}

// HTMLID returns the six-digit report ID for a game: the game ID with the
// season year stripped.
func HTMLID(gameID int) string {
	return fmt.Sprintf("%06d", gameID%1000000)
}
