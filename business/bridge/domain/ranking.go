package domain

import "sort"

// ReferralResolver maps a provider key to the referral URL surfaced
// with its ranked quote.
type ReferralResolver func(provider string) string

// Rank orders quotes by ascending total cost and annotates each with
// its position, best flag, savings versus the most expensive option,
// and referral URL. Quotes with a non-positive total cost are dropped.
// Unavailable quotes are appended after the ranked ones, sorted by
// name, with no position or savings. Sorting is stable so providers
// quoting the same cost keep their arrival order.
func Rank(quotes []Quote, resolve ReferralResolver) []RankedQuote {
	available := make([]Quote, 0, len(quotes))
	unavailable := make([]Quote, 0)
	for _, q := range quotes {
		switch {
		case q.Unavailable:
			unavailable = append(unavailable, q)
		case q.TotalCost > 0:
			available = append(available, q)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].TotalCost < available[j].TotalCost
	})
	sort.SliceStable(unavailable, func(i, j int) bool {
		return unavailable[i].Name < unavailable[j].Name
	})

	ranked := make([]RankedQuote, 0, len(available)+len(unavailable))
	for i, q := range available {
		pos := i + 1
		savings := 0.0
		if i > 0 {
			savings = available[len(available)-1].TotalCost - q.TotalCost
		}
		url := "#"
		if resolve != nil {
			url = resolve(q.Provider)
		}
		s := savings
		u := url
		ranked = append(ranked, RankedQuote{
			Quote:    q,
			Position: &pos,
			IsBest:   i == 0,
			Savings:  &s,
			URL:      &u,
		})
	}
	for _, q := range unavailable {
		ranked = append(ranked, RankedQuote{Quote: q})
	}
	return ranked
}

// Summarize computes price statistics over the ranked quotes. Price
// fields are nil when no provider responded with a usable quote.
func Summarize(ranked []RankedQuote, queried int, failures []ProviderFailure) Summary {
	s := Summary{
		ProvidersQueried: queried,
		Failures:         failures,
	}

	var sum float64
	var best, worst *float64
	for i := range ranked {
		q := &ranked[i]
		if q.Position == nil {
			s.ProvidersUnavailable++
			continue
		}
		s.ProvidersResponded++
		sum += q.TotalCost
		if best == nil || q.TotalCost < *best {
			c := q.TotalCost
			best = &c
		}
		if worst == nil || q.TotalCost > *worst {
			c := q.TotalCost
			worst = &c
		}
	}
	if s.ProvidersResponded > 0 {
		avg := sum / float64(s.ProvidersResponded)
		s.BestPrice = best
		s.WorstPrice = worst
		s.AveragePrice = &avg
	}
	return s
}
