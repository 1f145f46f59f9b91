package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trendwatch/internal/config"
	"trendwatch/internal/domain"
)

// SourceAuto selects the configured fallback chain instead of a single source.
const SourceAuto = "auto"

// KeywordFetcher runs the per-country fallback chain over registered keyword
// sources. Chains are configuration, not code: each country maps to an
// ordered list of source IDs, tried until one returns a non-empty result.
type KeywordFetcher struct {
	sources      map[string]TrendSource
	chains       map[string][]string
	defaultChain []string
	timeout      time.Duration
	logger       *slog.Logger
}

func NewKeywordFetcher(sources []TrendSource, cfg config.CollectConfig, logger *slog.Logger) *KeywordFetcher {
	byID := make(map[string]TrendSource, len(sources))
	for _, src := range sources {
		byID[src.ID()] = src
	}
	return &KeywordFetcher{
		sources:      byID,
		chains:       cfg.Chains,
		defaultChain: cfg.DefaultChain,
		timeout:      cfg.AdapterTimeout,
		logger:       logger,
	}
}

// Source looks up a registered keyword source by ID.
func (f *KeywordFetcher) Source(id string) (TrendSource, bool) {
	src, ok := f.sources[id]
	return src, ok
}

// Fetch returns trending keywords for a country plus the ID of the source
// that produced them. With preferred set to anything but "auto" the named
// source is used alone and an empty result stays empty. In auto mode the
// chain advances past failed and empty sources alike; an exhausted chain is
// not an error, just no keywords. The only errors returned are input
// validation ones (unknown source, unsupported country).
func (f *KeywordFetcher) Fetch(ctx context.Context, country, preferred string) ([]domain.RankedKeyword, string, error) {
	if preferred != "" && preferred != SourceAuto {
		src, ok := f.sources[preferred]
		if !ok {
			return nil, "", fmt.Errorf("unknown keyword source %q", preferred)
		}
		if !src.Supports(country) {
			return nil, "", fmt.Errorf("source %q does not support country %q", preferred, country)
		}

		keywords, err := f.fetchOne(ctx, src, country)
		if err != nil {
			f.logger.Warn("keyword source unavailable",
				"source", src.ID(),
				"country", country,
				"error", err,
			)
			return nil, src.ID(), nil
		}
		return keywords, src.ID(), nil
	}

	for _, id := range f.chainFor(country) {
		src, ok := f.sources[id]
		if !ok {
			f.logger.Warn("chain references unregistered source", "source", id, "country", country)
			continue
		}
		if !src.Supports(country) {
			f.logger.Debug("skipping source for country", "source", id, "country", country)
			continue
		}

		keywords, err := f.fetchOne(ctx, src, country)
		if err != nil {
			f.logger.Warn("keyword source unavailable, trying next",
				"source", src.ID(),
				"country", country,
				"error", err,
			)
			continue
		}
		if len(keywords) == 0 {
			f.logger.Info("keyword source returned no results, trying next",
				"source", src.ID(),
				"country", country,
			)
			continue
		}

		return keywords, src.ID(), nil
	}

	f.logger.Warn("keyword chain exhausted", "country", country)
	return nil, "", nil
}

// fetchOne bounds a single adapter call with its own timeout so one hung
// provider cannot stall the whole run.
func (f *KeywordFetcher) fetchOne(ctx context.Context, src TrendSource, country string) ([]domain.RankedKeyword, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return src.FetchTrendingKeywords(callCtx, country)
}

func (f *KeywordFetcher) chainFor(country string) []string {
	if chain, ok := f.chains[country]; ok {
		return chain
	}
	return f.defaultChain
}
