package handler

import "strconv"

// parseID converts a path parameter to a user id; 0 on garbage, which no row
// ever matches.
func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
