package engine

import "sort"

// Category is the coarse hand class, ascending in strength.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case Trips:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case Quads:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	}
	return "Unknown"
}

// HandScore orders hands: compare Category first, then the tiebreak values
// lexicographically (most significant first).
type HandScore struct {
	Category Category
	Tiebreak []int
}

// Compare returns -1, 0 or 1 as s sorts below, equal to, or above o.
func (s HandScore) Compare(o HandScore) int {
	if s.Category != o.Category {
		if s.Category < o.Category {
			return -1
		}
		return 1
	}
	n := len(s.Tiebreak)
	if len(o.Tiebreak) < n {
		n = len(o.Tiebreak)
	}
	for i := 0; i < n; i++ {
		if s.Tiebreak[i] != o.Tiebreak[i] {
			if s.Tiebreak[i] < o.Tiebreak[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(s.Tiebreak) < len(o.Tiebreak):
		return -1
	case len(s.Tiebreak) > len(o.Tiebreak):
		return 1
	}
	return 0
}

func (s HandScore) Less(o HandScore) bool { return s.Compare(o) < 0 }

// Score evaluates the best 5-card hand available in cards (5..7 of them) by
// enumerating every 5-card subset and keeping the maximum. Fewer than 5
// cards degrade to a high-card score over whatever is present.
func Score(cards []Card) HandScore {
	if len(cards) < 5 {
		values := make([]int, 0, len(cards))
		for _, c := range cards {
			values = append(values, c.Rank)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(values)))
		return HandScore{Category: HighCard, Tiebreak: values}
	}

	best := HandScore{Category: -1}
	var five [5]Card
	var idx [5]int
	n := len(cards)
	var rec func(start, k int)
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = cards[idx[i]]
			}
			if sc := scoreFive(five); best.Category == -1 || best.Less(sc) {
				best = sc
			}
			return
		}
		for i := start; i <= n-(5-k); i++ {
			idx[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
	return best
}

// scoreFive classifies exactly five cards.
func scoreFive(cards [5]Card) HandScore {
	values := make([]int, 5)
	for i, c := range cards {
		values[i] = c.Rank
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := true
	for i := 1; i < 5; i++ {
		if cards[i].Suit != cards[0].Suit {
			flush = false
			break
		}
	}
	straight, wheel := isStraight(values)

	freq := map[int]int{}
	for _, v := range values {
		freq[v]++
	}

	// Group values by count, then value, both descending. The leading
	// tiebreak entry is always the dominant group (quad, trip, top pair...).
	type group struct{ value, count int }
	groups := make([]group, 0, len(freq))
	for v, c := range freq {
		groups = append(groups, group{v, c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	tiebreak := make([]int, len(groups))
	counts := make([]int, len(groups))
	for i, g := range groups {
		tiebreak[i] = g.value
		counts[i] = g.count
	}

	if flush && straight {
		if wheel {
			// A-5-4-3-2 ranks as the lowest straight flush.
			return HandScore{Category: StraightFlush, Tiebreak: []int{5, 4, 3, 2, 1}}
		}
		if values[0] == 14 {
			return HandScore{Category: RoyalFlush, Tiebreak: values}
		}
		return HandScore{Category: StraightFlush, Tiebreak: values}
	}

	switch {
	case matchCounts(counts, 4, 1):
		return HandScore{Category: Quads, Tiebreak: tiebreak}
	case matchCounts(counts, 3, 2):
		return HandScore{Category: FullHouse, Tiebreak: tiebreak}
	case flush:
		return HandScore{Category: Flush, Tiebreak: values}
	case straight:
		if wheel {
			return HandScore{Category: Straight, Tiebreak: []int{5, 4, 3, 2, 1}}
		}
		return HandScore{Category: Straight, Tiebreak: values}
	case matchCounts(counts, 3, 1, 1):
		return HandScore{Category: Trips, Tiebreak: tiebreak}
	case matchCounts(counts, 2, 2, 1):
		return HandScore{Category: TwoPair, Tiebreak: tiebreak}
	case matchCounts(counts, 2, 1, 1, 1):
		return HandScore{Category: Pair, Tiebreak: tiebreak}
	}
	return HandScore{Category: HighCard, Tiebreak: values}
}

// isStraight expects values sorted descending. The second return marks the
// wheel (A-5-4-3-2), which ranks below every other straight.
func isStraight(values []int) (ok, wheel bool) {
	for i := 1; i < 5; i++ {
		if values[i] != values[0]-i {
			// Wheel: A,5,4,3,2.
			if values[0] == 14 && values[1] == 5 && values[2] == 4 && values[3] == 3 && values[4] == 2 {
				return true, true
			}
			return false, false
		}
	}
	return true, false
}

func matchCounts(counts []int, want ...int) bool {
	if len(counts) != len(want) {
		return false
	}
	for i, w := range want {
		if counts[i] != w {
			return false
		}
	}
	return true
}
