package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Card is an immutable rank/suit pair. Ranks run 2..14 (Ace high),
// suits are the bytes 'c', 'd', 'h', 's'.
type Card struct {
	Rank int
	Suit byte
}

var suits = []byte{'h', 'd', 'c', 's'}

func (c Card) String() string {
	ranks := "  23456789TJQKA"
	if c.Rank < 2 || c.Rank > 14 {
		return "??"
	}
	return fmt.Sprintf("%c%c", ranks[c.Rank], c.Suit)
}

// ParseCard reads the two-character form produced by Card.String, e.g. "As".
func ParseCard(s string) (Card, bool) {
	if len(s) != 2 {
		return Card{}, false
	}
	var rank int
	switch s[0] {
	case 'A':
		rank = 14
	case 'K':
		rank = 13
	case 'Q':
		rank = 12
	case 'J':
		rank = 11
	case 'T':
		rank = 10
	default:
		if s[0] >= '2' && s[0] <= '9' {
			rank = int(s[0] - '0')
		}
	}
	if rank == 0 {
		return Card{}, false
	}
	switch s[1] {
	case 'c', 'd', 'h', 's':
	default:
		return Card{}, false
	}
	return Card{Rank: rank, Suit: s[1]}, true
}

// Deck holds the undealt portion of a 52-card deck. Reset restores and
// reshuffles all 52 cards; Deal removes without replacement.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck returns a freshly shuffled deck. Seed 0 derives one from the clock.
func NewDeck(seed int64) *Deck {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &Deck{rng: rand.New(rand.NewSource(seed))}
	d.Reset()
	return d
}

func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, s := range suits {
		for r := 2; r <= 14; r++ {
			d.cards = append(d.cards, Card{Rank: r, Suit: s})
		}
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the next n cards.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]Card, n)
	copy(out, d.cards[:n])
	d.cards = d.cards[n:]
	return out
}

// Remaining reports how many cards are still undealt.
func (d *Deck) Remaining() int { return len(d.cards) }
