// Package store holds the client-side state containers. Each store owns its
// collection exclusively, fetches through the gateway with a three-tier
// fallback (remote API, demo endpoint, hardcoded defaults), validates what
// comes in, persists a durable snapshot write-through, and exposes derived
// aggregate queries. Store actions never propagate transport errors; they
// resolve and report through the store's error state.
package store

import (
	"context"

	"github.com/rs/zerolog"
)

// Tier identifies which fallback source produced the data on display.
type Tier int

const (
	TierRemote Tier = iota
	TierDemo
	TierDefault
)

// Provenance notes surfaced through the store error state when degraded
// data is shown. An empty note means live remote data.
const (
	MsgDemoData    = "Using demo data - API unavailable"
	MsgDefaultData = "Using default data - API and demo data unavailable"
)

// Provenance returns the user-facing note for the tier.
func (t Tier) Provenance() string {
	switch t {
	case TierDemo:
		return MsgDemoData
	case TierDefault:
		return MsgDefaultData
	default:
		return ""
	}
}

type listOutcome[T any] struct {
	records []T
	tier    Tier
}

// fetchWithFallback runs the shared resilient-fetch strategy for collection
// stores: primary, then secondary, then the hardcoded defaults. A source is
// only committed when it yields at least one valid record; an error or an
// empty result falls through to the next tier. The tertiary default never
// fails.
func fetchWithFallback[T any](
	ctx context.Context,
	log zerolog.Logger,
	primary func(context.Context) ([]T, error),
	secondary func(context.Context) ([]T, error),
	defaults func() []T,
) listOutcome[T] {
	records, err := primary(ctx)
	if err == nil && len(records) > 0 {
		return listOutcome[T]{records: records, tier: TierRemote}
	}
	if err != nil {
		log.Warn().Err(err).Msg("primary fetch failed, trying demo source")
	} else {
		log.Warn().Msg("primary fetch yielded no valid records, trying demo source")
	}

	records, err = secondary(ctx)
	if err == nil && len(records) > 0 {
		return listOutcome[T]{records: records, tier: TierDemo}
	}
	if err != nil {
		log.Warn().Err(err).Msg("demo fetch failed, using defaults")
	} else {
		log.Warn().Msg("demo fetch yielded no valid records, using defaults")
	}

	return listOutcome[T]{records: defaults(), tier: TierDefault}
}

// fetchOneWithFallback is the single-object variant used by the report
// store. Any successful decode counts as usable (field-level defaulting has
// already happened at the gateway boundary); only transport errors fall
// through.
func fetchOneWithFallback[T any](
	ctx context.Context,
	log zerolog.Logger,
	primary func(context.Context) (T, error),
	secondary func(context.Context) (T, error),
	computed func() T,
) (T, Tier) {
	v, err := primary(ctx)
	if err == nil {
		return v, TierRemote
	}
	log.Warn().Err(err).Msg("primary fetch failed, trying demo source")

	v, err = secondary(ctx)
	if err == nil {
		return v, TierDemo
	}
	log.Warn().Err(err).Msg("demo fetch failed, computing default")

	return computed(), TierDefault
}
