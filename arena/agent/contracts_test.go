package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPokerDecisionDefaults(t *testing.T) {
	d := DefaultPokerDecision()
	require.NoError(t, json.Unmarshal([]byte(`{}`), &d))
	assert.Equal(t, "fold", d.Action)
	assert.Equal(t, 0.5, d.Confidence)
	assert.Equal(t, 0.5, d.EstimatedWinProb)
	assert.Equal(t, 0.0, d.RaiseAmount)
}

func TestPokerDecisionPartialResponseKeepsDefaults(t *testing.T) {
	d := DefaultPokerDecision()
	require.NoError(t, json.Unmarshal([]byte(`{"action":"raise","raise_amount":0.25}`), &d))
	assert.Equal(t, "raise", d.Action)
	assert.Equal(t, 0.25, d.RaiseAmount)
	assert.Equal(t, 0.5, d.Confidence, "absent keys keep defaults")
}

func TestPokerSanitizeUnknownAction(t *testing.T) {
	d := PokerDecision{Action: "shove"}
	note := d.Sanitize(0.1)
	assert.Equal(t, "fold", d.Action)
	assert.NotEmpty(t, note)

	d = PokerDecision{Action: "shove"}
	note = d.Sanitize(0)
	assert.Equal(t, "call", d.Action, "nothing to call, default to the free check")
	assert.NotEmpty(t, note)
}

func TestPokerSanitizeFreeFoldBecomesCheck(t *testing.T) {
	d := PokerDecision{Action: "fold"}
	note := d.Sanitize(0)
	assert.Equal(t, "call", d.Action)
	assert.NotEmpty(t, note)

	d = PokerDecision{Action: "fold"}
	note = d.Sanitize(0.05)
	assert.Equal(t, "fold", d.Action, "a genuine fold stands")
	assert.Empty(t, note)
}

func TestAuctionSanitizeClamps(t *testing.T) {
	d := AuctionDecision{BidAmount: 5}
	assert.NotEmpty(t, d.Sanitize(1))
	assert.Equal(t, 1.0, d.BidAmount)

	d = AuctionDecision{BidAmount: -2}
	assert.NotEmpty(t, d.Sanitize(1))
	assert.Equal(t, MinBid, d.BidAmount)

	d = AuctionDecision{BidAmount: 0.5}
	assert.Empty(t, d.Sanitize(1))
	assert.Equal(t, 0.5, d.BidAmount)
}

func TestCombatSanitizeSubstitutesFirstAffordable(t *testing.T) {
	options := []AbilityOption{{Name: "slash"}, {Name: "defend"}}

	d := CombatDecision{Ability: "meteor"}
	assert.NotEmpty(t, d.Sanitize(options))
	assert.Equal(t, "slash", d.Ability)

	d = CombatDecision{Ability: "defend"}
	assert.Empty(t, d.Sanitize(options))
	assert.Equal(t, "defend", d.Ability)
}
