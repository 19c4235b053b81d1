package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxWagerPctByRisk(t *testing.T) {
	assert.Equal(t, 0.05, NewBankrollManager(10, RiskConservative).MaxWagerPct())
	assert.Equal(t, 0.10, NewBankrollManager(10, RiskModerate).MaxWagerPct())
	assert.Equal(t, 0.15, NewBankrollManager(10, RiskAggressive).MaxWagerPct())
}

func TestSuggestWagerKellyCapped(t *testing.T) {
	b := NewBankrollManager(10, RiskModerate)

	// 55% edge: kelly 0.10 equals the cap.
	assert.InDelta(t, 1.0, b.SuggestWager(0.55), 1e-9)

	// Small edge: kelly binds below the cap.
	assert.InDelta(t, 10*0.04, b.SuggestWager(0.52), 1e-9)

	// Huge edge: the risk cap binds.
	assert.InDelta(t, 1.0, b.SuggestWager(0.95), 1e-9)

	// No edge: floor at the minimum stake.
	assert.InDelta(t, MinBid, b.SuggestWager(0.5), 1e-9)
	assert.InDelta(t, MinBid, b.SuggestWager(0.3), 1e-9)
}

func TestStopLoss(t *testing.T) {
	b := NewBankrollManager(10, RiskModerate)
	assert.False(t, b.StopLossHit())

	b.RecordResult(-2.9)
	assert.False(t, b.StopLossHit())

	b.RecordResult(-0.2)
	assert.True(t, b.StopLossHit(), "30% drawdown trips the gate")
}

func TestRecordResultTracksBalanceAndStreak(t *testing.T) {
	b := NewBankrollManager(10, RiskModerate)
	b.RecordResult(1)
	b.RecordResult(1)
	b.RecordResult(1)
	assert.InDelta(t, 13, b.Balance(), 1e-9)
	assert.Contains(t, b.PromptContext(), "3-game win streak")

	b.RecordResult(-5)
	b.RecordResult(-5)
	assert.Contains(t, b.PromptContext(), "2-game losing streak")
	assert.InDelta(t, 3, b.Balance(), 1e-9)

	// Balance never goes negative.
	b.RecordResult(-100)
	assert.Equal(t, 0.0, b.Balance())
}

func TestPromptContextMentionsPeakAndRecord(t *testing.T) {
	b := NewBankrollManager(10, RiskAggressive)
	b.RecordResult(2)
	b.RecordResult(-1)
	ctx := b.PromptContext()
	assert.True(t, strings.Contains(ctx, "peak 12.0000"), ctx)
	assert.True(t, strings.Contains(ctx, "Record 1-1"), ctx)
	assert.True(t, strings.Contains(ctx, "aggressive"), ctx)
}
