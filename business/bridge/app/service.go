package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/logger"
)

// StaggerSchedule returns the launch delay for a priority tier. Tier 0
// is the highest-priority group.
type StaggerSchedule func(tier int) time.Duration

// DefaultStagger delays each tier by step more than the previous one,
// so the cheapest-to-call providers get a head start on shared upstream
// rate budgets.
func DefaultStagger(step time.Duration) StaggerSchedule {
	return func(tier int) time.Duration {
		return step * time.Duration(tier)
	}
}

// CompareResult is the outcome of one full comparison fan-out.
type CompareResult struct {
	Bridges  []domain.RankedQuote
	Summary  domain.Summary
	Failures []domain.ProviderFailure
}

// CompareOptions tunes the comparison fan-out.
type CompareOptions struct {
	// DefaultSender is used when the request carries no fromAddress.
	DefaultSender string
	// DefaultSlippage is used when the request carries no slippage.
	DefaultSlippage string
	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration
	// Schedule computes per-tier launch delays. Tests inject a
	// zero-delay schedule to avoid wall-clock sleeps.
	Schedule StaggerSchedule
}

// ProviderSource builds the adapter set for one comparison. Adapters
// are constructed fresh per request so no mutable adapter state is
// shared between concurrent comparisons; rate-limit memory between
// requests is traded away for that isolation, which is why the tier
// staggering carries the real burst protection.
type ProviderSource func() ([]TierProvider, error)

// StaticProviders wraps a fixed adapter set as a ProviderSource.
func StaticProviders(providers []TierProvider) ProviderSource {
	return func() ([]TierProvider, error) { return providers, nil }
}

// CompareService fans a comparison request out to all providers,
// collects whatever quotes come back and ranks them. One provider
// failing, panicking or timing out never affects its siblings.
type CompareService struct {
	source    ProviderSource
	referrals domain.ReferralResolver
	log       logger.LoggerInterface
	opts      CompareOptions
}

// NewCompareService creates a CompareService over the given provider
// source.
func NewCompareService(source ProviderSource, referrals domain.ReferralResolver, log logger.LoggerInterface, opts CompareOptions) *CompareService {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	if opts.Schedule == nil {
		opts.Schedule = DefaultStagger(500 * time.Millisecond)
	}
	return &CompareService{
		source:    source,
		referrals: referrals,
		log:       log,
		opts:      opts,
	}
}

type providerOutcome struct {
	key   domain.ProviderKey
	quote *domain.Quote
	err   error
}

// Compare validates the request, staggers provider calls by priority
// tier, runs them concurrently and ranks the collected quotes. A
// result with zero bridges is a legitimate business outcome, not an
// error; the error return is for validation failures only.
func (s *CompareService) Compare(ctx context.Context, req domain.CompareRequest) (*CompareResult, error) {
	if req.Sender == "" {
		req.Sender = s.opts.DefaultSender
	}
	if req.Slippage == "" {
		req.Slippage = s.opts.DefaultSlippage
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	built, err := s.source()
	if err != nil {
		return nil, err
	}
	providers := make([]TierProvider, len(built))
	copy(providers, built)
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Priority < providers[j].Priority
	})

	type call struct {
		key      domain.ProviderKey
		delay    time.Duration
		provider BridgeProvider
	}

	// Consecutive equal priorities share a tier and launch together.
	calls := make([]call, 0, len(providers))
	tier := -1
	lastPriority := 0
	for _, tp := range providers {
		if tier < 0 || tp.Priority != lastPriority {
			tier++
			lastPriority = tp.Priority
		}
		calls = append(calls, call{
			key:      tp.Provider.Key(),
			delay:    s.opts.Schedule(tier),
			provider: tp.Provider,
		})
	}

	s.log.Debug(ctx, "comparing bridges",
		"providers", len(calls),
		"token", req.Token,
		"fromChain", req.FromChainID,
		"toChain", req.ToChainID)

	// One slot per call so goroutines never share mutable state.
	outcomes := make([]providerOutcome, len(calls))
	var wg conc.WaitGroup
	for i, c := range calls {
		i, c := i, c
		wg.Go(func() {
			outcomes[i] = providerOutcome{key: c.key}
			if c.delay > 0 {
				t := time.NewTimer(c.delay)
				select {
				case <-ctx.Done():
					t.Stop()
					outcomes[i].err = ctx.Err()
					return
				case <-t.C:
				}
			}
			callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
			defer cancel()
			quote, err := c.provider.Quote(callCtx, req)
			if err == nil && quote == nil {
				err = fmt.Errorf("provider returned no response")
			}
			outcomes[i].quote = quote
			outcomes[i].err = err
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		s.log.Error(ctx, "provider call panicked", "panic", recovered.String())
	}

	quotes := make([]domain.Quote, 0, len(outcomes))
	failures := make([]domain.ProviderFailure, 0)
	for _, out := range outcomes {
		if out.err == nil && out.quote == nil {
			// The goroutine panicked before writing its outcome.
			out.err = fmt.Errorf("provider call aborted")
		}
		if out.err != nil {
			s.log.Warn(ctx, "provider produced no quote",
				"provider", string(out.key), "error", out.err.Error())
			failures = append(failures, domain.ProviderFailure{
				Provider: string(out.key),
				Error:    out.err.Error(),
			})
			continue
		}
		quotes = append(quotes, *out.quote)
	}

	ranked := domain.Rank(quotes, s.referrals)

	var summaryFailures []domain.ProviderFailure
	if req.Debug {
		summaryFailures = failures
	}
	summary := domain.Summarize(ranked, len(calls), summaryFailures)

	return &CompareResult{
		Bridges:  ranked,
		Summary:  summary,
		Failures: failures,
	}, nil
}
