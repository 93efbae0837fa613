package leaderboard

import (
	"sort"
	"strings"
)

// Entry is one agent's row on the monthly standings board.

type Entry struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Deals  int    `json:"deals"`
	Score  int    `json:"score"`
}

// TopN is how many champions the board shows.
const TopN = 10

// Initials derives the avatar text for agents the backend returns
// without one (first letter of the first two words, uppercased).
func Initials(name string) string {
	parts := strings.Fields(name)
	var b strings.Builder
	for i, p := range parts {
		if i == 2 {
			break
		}
		b.WriteString(strings.ToUpper(p[:1]))
	}
	return b.String()
}

// rank sorts standings in place: score descending, deals break ties,
// name keeps the order deterministic.
func rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Deals != entries[j].Deals {
			return entries[i].Deals > entries[j].Deals
		}
		return entries[i].Name < entries[j].Name
	})
}
