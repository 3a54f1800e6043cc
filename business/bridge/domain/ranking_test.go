package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(name, provider string, cost float64) Quote {
	return Quote{Name: name, Provider: provider, TotalCost: cost}
}

func TestRankOrdersByTotalCost(t *testing.T) {
	quotes := []Quote{
		quote("Socket", "socket", 10),
		quote("LI.FI", "lifi", 5),
		quote("Stargate", "stargate", 8),
	}

	ranked := Rank(quotes, func(provider string) string { return "https://example.com/" + provider })
	require.Len(t, ranked, 3)

	assert.Equal(t, "LI.FI", ranked[0].Name)
	assert.True(t, ranked[0].IsBest)
	assert.Equal(t, 1, *ranked[0].Position)
	assert.Equal(t, 0.0, *ranked[0].Savings)

	assert.Equal(t, "Stargate", ranked[1].Name)
	assert.False(t, ranked[1].IsBest)
	assert.Equal(t, 2, *ranked[1].Position)
	assert.Equal(t, 2.0, *ranked[1].Savings) // 10 - 8

	assert.Equal(t, "Socket", ranked[2].Name)
	assert.Equal(t, 0.0, *ranked[2].Savings)

	assert.Equal(t, "https://example.com/lifi", *ranked[0].URL)
}

func TestRankSingleBest(t *testing.T) {
	quotes := []Quote{
		quote("A", "a", 5),
		quote("B", "b", 5),
		quote("C", "c", 6),
	}
	ranked := Rank(quotes, nil)

	best := 0
	for _, r := range ranked {
		if r.IsBest {
			best++
		}
	}
	assert.Equal(t, 1, best)
	// Equal costs keep arrival order.
	assert.Equal(t, "A", ranked[0].Name)
}

func TestRankDropsNonPositiveCosts(t *testing.T) {
	quotes := []Quote{
		quote("Free", "free", 0),
		quote("Negative", "neg", -1),
		quote("Real", "real", 3),
	}
	ranked := Rank(quotes, nil)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Real", ranked[0].Name)
}

func TestRankAppendsUnavailableSortedByName(t *testing.T) {
	quotes := []Quote{
		{Name: "Zeta", Provider: "zeta", Unavailable: true},
		quote("Real", "real", 3),
		{Name: "Alpha", Provider: "alpha", Unavailable: true},
	}
	ranked := Rank(quotes, nil)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Real", ranked[0].Name)
	assert.Equal(t, "Alpha", ranked[1].Name)
	assert.Equal(t, "Zeta", ranked[2].Name)

	assert.Nil(t, ranked[1].Position)
	assert.Nil(t, ranked[1].Savings)
	assert.Nil(t, ranked[1].URL)
	assert.False(t, ranked[1].IsBest)
}

func TestRankNilResolverUsesPlaceholder(t *testing.T) {
	ranked := Rank([]Quote{quote("A", "a", 1)}, nil)
	require.Len(t, ranked, 1)
	assert.Equal(t, "#", *ranked[0].URL)
}

func TestSummarize(t *testing.T) {
	ranked := Rank([]Quote{
		quote("A", "a", 4),
		quote("B", "b", 8),
		{Name: "U", Provider: "u", Unavailable: true},
	}, nil)

	s := Summarize(ranked, 5, nil)
	assert.Equal(t, 5, s.ProvidersQueried)
	assert.Equal(t, 2, s.ProvidersResponded)
	assert.Equal(t, 1, s.ProvidersUnavailable)
	require.NotNil(t, s.BestPrice)
	assert.Equal(t, 4.0, *s.BestPrice)
	assert.Equal(t, 8.0, *s.WorstPrice)
	assert.Equal(t, 6.0, *s.AveragePrice)
	assert.Nil(t, s.Failures)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 3, []ProviderFailure{{Provider: "a", Error: "boom"}})
	assert.Equal(t, 3, s.ProvidersQueried)
	assert.Equal(t, 0, s.ProvidersResponded)
	assert.Nil(t, s.BestPrice)
	assert.Nil(t, s.WorstPrice)
	assert.Nil(t, s.AveragePrice)
	assert.Len(t, s.Failures, 1)
}
