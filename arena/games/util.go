package games

import "errors"

var errNoProvider = errors.New("no decision provider registered")

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// short truncates a player address for log lines.
func short(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:8]
}
