package pricing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/power-quote/pkg/models/domain"
	"github.com/de-tools/power-quote/pkg/models/store"
	duckdbpricing "github.com/de-tools/power-quote/pkg/store/duckdb/pricing"
	warehousepricing "github.com/de-tools/power-quote/pkg/store/warehouse/pricing"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultRemoteTimeout = 10 * time.Second

	flightKey = "resolve"
)

// Options configure a Resolver. Remote and Local may each be nil; the chain
// always ends at the compiled-in defaults, so a resolver with no stores at
// all still resolves.
type Options struct {
	Remote        warehousepricing.Store
	Local         duckdbpricing.Store
	TTL           time.Duration
	RemoteTimeout time.Duration
	Clock         func() time.Time
}

// Resolver produces one authoritative ResolvedConfiguration per TTL window
// by trying sources in priority order. It owns the in-memory cache and the
// single-flight lock; every instance is independent, so tests can run
// isolated resolvers in parallel.
type Resolver struct {
	sources []Source
	remote  warehousepricing.Store
	local   duckdbpricing.Store
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	group  singleflight.Group
	mu     sync.RWMutex
	cached *domain.ResolvedConfiguration
	epoch  uint64

	subMu       sync.Mutex
	subscribers []func(domain.ResolvedConfiguration)
}

func NewResolver(opts Options) *Resolver {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = DefaultRemoteTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	var sources []Source
	if opts.Remote != nil {
		sources = append(sources, &remoteSource{store: opts.Remote, timeout: opts.RemoteTimeout})
	}
	if opts.Local != nil {
		sources = append(sources, &localSource{store: opts.Local})
	}
	sources = append(sources, &defaultSource{})

	return &Resolver{
		sources: sources,
		remote:  opts.Remote,
		local:   opts.Local,
		ttl:     opts.TTL,
		timeout: opts.RemoteTimeout,
		now:     opts.Clock,
	}
}

// Resolve returns the current configuration. It never fails: total
// exhaustion of remote and local tiers leaves the system on the compiled-in
// defaults, which validate by construction. Concurrent callers before the
// first resolution completes share one underlying fetch.
func (r *Resolver) Resolve(ctx context.Context) domain.ResolvedConfiguration {
	if cfg, fresh := r.fromCache(); fresh {
		return cfg
	}

	v, _, _ := r.group.Do(flightKey, func() (interface{}, error) {
		// Losers of the flight race land here after the winner cached;
		// don't re-run the chain for them.
		if cfg, fresh := r.fromCache(); fresh {
			return cfg, nil
		}

		epoch := r.currentEpoch()
		cfg := r.resolveChain(ctx)

		r.mu.Lock()
		// An Invalidate while the chain was running means this result may
		// predate an administrative update: hand it to the waiters, but
		// leave the cache empty so the next Resolve re-runs the chain.
		if r.epoch == epoch {
			r.cached = &cfg
		}
		r.mu.Unlock()
		return cfg, nil
	})

	return v.(domain.ResolvedConfiguration).Clone()
}

func (r *Resolver) currentEpoch() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch
}

func (r *Resolver) fromCache() (domain.ResolvedConfiguration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached == nil || r.now().After(r.cached.ExpiresAt) {
		return domain.ResolvedConfiguration{}, false
	}
	return r.cached.Clone(), true
}

func (r *Resolver) resolveChain(ctx context.Context) domain.ResolvedConfiguration {
	logger := zerolog.Ctx(ctx)

	for _, source := range r.sources {
		result := source.Fetch(ctx)
		if result.Status != StatusOK {
			continue
		}

		rt := result.Rates
		if source.Tier() == domain.SourceRemote {
			rt = r.reconcile(ctx, rt)
		}

		if source.Tier() != domain.SourceRemote {
			logger.Warn().
				Str("tier", string(source.Tier())).
				Str("version", rt.Version).
				Msg("pricing resolved from fallback tier")
		} else {
			logger.Info().Str("version", rt.Version).Msg("pricing resolved from remote store")
		}

		fetched := r.now()
		return domain.ResolvedConfiguration{
			Rates:      rt,
			SourceTier: source.Tier(),
			FetchedAt:  fetched,
			ExpiresAt:  fetched.Add(r.ttl),
		}
	}

	// Unreachable while defaultSource terminates the chain; kept so the
	// compiler sees a return on every path.
	fetched := r.now()
	return domain.ResolvedConfiguration{
		Rates:      DefaultRateTable(),
		SourceTier: domain.SourceDefault,
		FetchedAt:  fetched,
		ExpiresAt:  fetched.Add(r.ttl),
	}
}

// reconcile settles a successful remote resolution against the local cache:
// an older local copy is overwritten with the remote snapshot, while a newer
// one — an administrative edit made while disconnected — is pushed to the
// remote store as the new canonical version before the local slot is cleared.
func (r *Resolver) reconcile(ctx context.Context, remote domain.RateTable) domain.RateTable {
	if r.local == nil {
		return remote
	}
	logger := zerolog.Ctx(ctx)

	record, err := r.local.Get(ctx)
	if err != nil {
		r.persistLocal(ctx, remote, "remote snapshot")
		return remote
	}

	localRT, err := DecodeValidRecord(record)
	if err != nil || !localRT.LastUpdated.After(remote.LastUpdated) {
		r.persistLocal(ctx, remote, "remote snapshot")
		return remote
	}

	if r.remote == nil {
		return remote
	}

	pushCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.remote.Upsert(pushCtx, *record); err != nil {
		logger.Warn().Err(err).
			Str("local_version", localRT.Version).
			Msg("failed to push newer local pricing to remote store")
		return remote
	}

	logger.Info().
		Str("local_version", localRT.Version).
		Str("superseded_version", remote.Version).
		Msg("newer local pricing promoted to remote store")

	if err := r.local.Clear(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to clear promoted local pricing cache")
	}
	return localRT
}

func (r *Resolver) persistLocal(ctx context.Context, rt domain.RateTable, notes string) {
	record, err := store.NewPricingRecord(rt, notes)
	if err == nil {
		err = r.local.Put(ctx, record)
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to persist pricing to local cache")
	}
}

// Invalidate clears the in-memory cache and the single-flight lock; the
// next Resolve re-runs the full source chain.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.epoch++
	r.mu.Unlock()
	r.group.Forget(flightKey)
}

// Update merges the patch over the currently-resolved table, validates the
// result whole, persists it remote-first with local fallback, bumps the
// patch component of the version, invalidates the cache and notifies
// subscribers. The returned tier says where the new table landed.
func (r *Resolver) Update(ctx context.Context, patch domain.RateTablePatch) (domain.SourceTier, error) {
	logger := zerolog.Ctx(ctx)

	if patch.Empty() {
		return "", fmt.Errorf("rate table patch is empty")
	}

	base := r.Resolve(ctx).Rates
	merged := patch.Apply(base)
	merged.Version = bumpPatch(base.Version)
	merged.LastUpdated = r.now()

	if !merged.Valid() {
		return "", fmt.Errorf("merged rate table failed validation")
	}

	record, err := store.NewPricingRecord(merged, patch.Notes)
	if err != nil {
		return "", err
	}

	tier, err := r.persist(ctx, record)
	if err != nil {
		return "", err
	}

	logger.Info().
		Str("version", merged.Version).
		Str("persisted_to", string(tier)).
		Str("updated_by", merged.UpdatedBy).
		Msg("pricing updated")

	r.Invalidate()
	r.notify(domain.ResolvedConfiguration{
		Rates:      merged,
		SourceTier: tier,
		FetchedAt:  merged.LastUpdated,
		ExpiresAt:  merged.LastUpdated.Add(r.ttl),
	})
	return tier, nil
}

func (r *Resolver) persist(ctx context.Context, record store.PricingRecord) (domain.SourceTier, error) {
	logger := zerolog.Ctx(ctx)

	if r.remote != nil {
		writeCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.remote.Upsert(writeCtx, record)
		cancel()
		if err == nil {
			// The remote write supersedes whatever the local slot held.
			if r.local != nil {
				if clearErr := r.local.Clear(ctx); clearErr != nil {
					logger.Warn().Err(clearErr).Msg("failed to clear local pricing cache after remote write")
				}
			}
			return domain.SourceRemote, nil
		}
		logger.Warn().Err(err).Msg("remote pricing write failed, falling back to local cache")
	}

	if r.local != nil {
		if err := r.local.Put(ctx, record); err != nil {
			return "", fmt.Errorf("persist pricing update: %w", err)
		}
		return domain.SourceLocal, nil
	}

	return "", fmt.Errorf("no store available to persist pricing update")
}

// OnChange registers a callback invoked after every successful Update, so
// an in-flight quote can decide whether to recompute with fresh pricing.
func (r *Resolver) OnChange(fn func(domain.ResolvedConfiguration)) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

func (r *Resolver) notify(cfg domain.ResolvedConfiguration) {
	r.subMu.Lock()
	subscribers := make([]func(domain.ResolvedConfiguration), len(r.subscribers))
	copy(subscribers, r.subscribers)
	r.subMu.Unlock()

	for _, fn := range subscribers {
		fn(cfg.Clone())
	}
}

// bumpPatch increments the last component of a dotted version string.
// Unparsable versions get a ".1" appended rather than failing an update
// over provenance cosmetics.
func bumpPatch(version string) string {
	parts := strings.Split(version, ".")
	last := parts[len(parts)-1]
	n, err := strconv.Atoi(last)
	if err != nil {
		return version + ".1"
	}
	parts[len(parts)-1] = strconv.Itoa(n + 1)
	return strings.Join(parts, ".")
}
