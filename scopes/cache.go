// scopes/cache.go
package scopes

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	gw_errors "github.com/ascending-llc/mcp-gateway-registry-sub004/errors"
	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/model"
)

// Cache source labels reported by Source.
const (
	SourceMemory      = "memory"
	SourceDistributed = "distributed"
	SourceNone        = "none"
)

// ScopeCache serves the current rule set cheaply, loading it at most once
// per invalidation window. Lookup order is an explicit provider chain:
// process memory, then the shared store, then the loader. The store is
// optional and any store failure downgrades to a miss for that tier.
//
// GetOrLoad makes no at-most-once promise for the loader under concurrent
// cold callers: two requests racing on an empty cache may both invoke the
// loader and converge on equivalent rule sets. The mutex only keeps the
// pointer swap memory-safe; it does not serialize loads.
type ScopeCache struct {
	loader Loader
	store  Store // nil when no distributed tier is configured
	key    string
	ttl    time.Duration

	mu      sync.RWMutex
	ruleSet *model.RuleSet
}

// NewScopeCache builds a cache around the given loader. store may be nil;
// key names the distributed entry and ttl bounds its lifetime there (zero
// means no expiry).
func NewScopeCache(loader Loader, store Store, key string, ttl time.Duration) *ScopeCache {
	return &ScopeCache{
		loader: loader,
		store:  store,
		key:    key,
		ttl:    ttl,
	}
}

// provider is one tier of the read-through chain: it reports the rule set
// and whether this tier could answer.
type provider func(ctx context.Context) (*model.RuleSet, bool, error)

// GetOrLoad returns the current rule set, consulting memory, then the
// distributed store, then the loader. Only a loader failure (or a missing
// loader, a programmer error) surfaces as an error.
func (c *ScopeCache) GetOrLoad(ctx context.Context) (*model.RuleSet, error) {
	if c.loader == nil {
		return nil, gw_errors.ErrNoLoader
	}

	for _, p := range []provider{c.fromMemory, c.fromStore, c.fromLoader} {
		rs, ok, err := p(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return rs, nil
		}
	}

	// fromLoader always answers or errors; this is unreachable.
	return model.NewRuleSet(), nil
}

// Refresh invalidates both tiers. It does not reload; the next GetOrLoad
// triggers a fresh load.
func (c *ScopeCache) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.ruleSet = nil
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, c.key); err != nil {
		logger.Warn("Failed to delete rule set from distributed cache",
			zap.String("key", c.key),
			zap.Error(err))
	}
}

// ClearMemory drops only the in-process copy. A populated distributed
// tier keeps serving this and other processes until it expires or a
// Refresh removes it.
func (c *ScopeCache) ClearMemory() {
	c.mu.Lock()
	c.ruleSet = nil
	c.mu.Unlock()
}

// Source reports which tier would answer next: "memory" when the
// in-process copy is populated, "distributed" when a store is configured
// and reachable, otherwise "none". Diagnostic only; no state changes
// beyond the reachability probe.
func (c *ScopeCache) Source(ctx context.Context) string {
	c.mu.RLock()
	populated := c.ruleSet != nil
	c.mu.RUnlock()

	if populated {
		return SourceMemory
	}
	if c.store != nil && c.store.Ping(ctx) == nil {
		return SourceDistributed
	}
	return SourceNone
}

func (c *ScopeCache) fromMemory(ctx context.Context) (*model.RuleSet, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ruleSet == nil {
		return nil, false, nil
	}
	return c.ruleSet, true, nil
}

func (c *ScopeCache) fromStore(ctx context.Context) (*model.RuleSet, bool, error) {
	if c.store == nil {
		return nil, false, nil
	}

	data, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		logger.Warn("Distributed cache read failed, falling through to loader",
			zap.String("key", c.key),
			zap.Error(err))
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	var rs model.RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		logger.Warn("Discarding malformed rule set from distributed cache",
			zap.String("key", c.key),
			zap.Error(err))
		return nil, false, nil
	}

	c.setMemory(&rs)
	logger.Debug("Rule set served from distributed cache", zap.String("key", c.key))
	return &rs, true, nil
}

func (c *ScopeCache) fromLoader(ctx context.Context) (*model.RuleSet, bool, error) {
	rs, err := c.loader(ctx)
	if err != nil {
		return nil, false, err
	}
	if rs == nil {
		rs = model.NewRuleSet()
	}

	c.setMemory(rs)
	c.writeThrough(ctx, rs)
	return rs, true, nil
}

func (c *ScopeCache) setMemory(rs *model.RuleSet) {
	c.mu.Lock()
	c.ruleSet = rs
	c.mu.Unlock()
}

// writeThrough publishes a freshly loaded rule set to the distributed
// tier. The in-memory copy is already valid for this process, so a write
// failure is logged and swallowed, never surfaced to the caller.
func (c *ScopeCache) writeThrough(ctx context.Context, rs *model.RuleSet) {
	if c.store == nil {
		return
	}

	data, err := json.Marshal(rs)
	if err != nil {
		logger.Warn("Failed to serialize rule set for distributed cache", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, c.key, data, c.ttl); err != nil {
		logger.Warn("Failed to write rule set to distributed cache",
			zap.String("key", c.key),
			zap.Error(err))
	}
}
