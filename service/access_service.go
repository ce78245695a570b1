// service/access_service.go
package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ascending-llc/mcp-gateway-registry-sub004/audit"
	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/model"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/scopes"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/util"
)

// Event types published by the access service.
const (
	EventAccessDecision = "access.decision"
	EventScopesReloaded = "scopes.reloaded"
)

// IAccessService is the access-control surface the controllers depend on.
type IAccessService interface {
	CheckAccess(ctx context.Context, userID, server, tool string, identityScopes []string) (model.AccessDecision, error)
	Reload(ctx context.Context)
	ClearMemory()
	CacheSource(ctx context.Context) string
	VisibleScopes(ctx context.Context, identityScopes []string) ([]string, error)
	WarmUp(ctx context.Context) error
}

// AccessService evaluates tool access against the cached rule set and
// publishes every decision for auditing.
type AccessService struct {
	cache    *scopes.ScopeCache
	auditSvc audit.Service
	eventBus *util.EventBus
}

// NewAccessService creates a new instance of AccessService and wires the
// audit subscriber onto the event bus.
func NewAccessService(cache *scopes.ScopeCache, auditSvc audit.Service, eventBus *util.EventBus) *AccessService {
	s := &AccessService{
		cache:    cache,
		auditSvc: auditSvc,
		eventBus: eventBus,
	}

	eventBus.Subscribe(EventAccessDecision, s.handleAccessDecision)
	eventBus.Subscribe(EventScopesReloaded, s.handleScopesReloaded)

	return s
}

func (s *AccessService) handleAccessDecision(ctx context.Context, event util.Event) error {
	log, ok := event.Payload.(audit.AccessLog)
	if !ok {
		logger.Error("Invalid access decision payload", zap.Any("payload", event.Payload))
		return nil
	}
	s.auditSvc.LogDecision(ctx, log)
	return nil
}

func (s *AccessService) handleScopesReloaded(ctx context.Context, event util.Event) error {
	logger.Info("Scope configuration reloaded", zap.String("source", s.cache.Source(ctx)))
	return nil
}

// CheckAccess resolves the current rule set and evaluates (server, tool)
// for the identity. Cache and config trouble never turns into an error
// here: the check fails closed instead. The only error path is the
// programmer error of a cache without a loader.
func (s *AccessService) CheckAccess(ctx context.Context, userID, server, tool string, identityScopes []string) (model.AccessDecision, error) {
	rs, err := s.cache.GetOrLoad(ctx)
	if err != nil {
		return model.AccessDecision{}, err
	}

	allowed := scopes.CheckToolAccess(server, tool, identityScopes, rs)

	decision := model.AccessDecision{
		Server:  server,
		Tool:    tool,
		Allowed: allowed,
	}

	s.eventBus.Publish(ctx, EventAccessDecision, audit.AccessLog{
		Timestamp: time.Now(),
		UserID:    userID,
		Server:    server,
		Tool:      tool,
		Scopes:    identityScopes,
		Allowed:   allowed,
		Source:    s.cache.Source(ctx),
	})

	return decision, nil
}

// Reload invalidates both cache tiers; the next check reloads the file.
func (s *AccessService) Reload(ctx context.Context) {
	s.cache.Refresh(ctx)
	s.eventBus.Publish(ctx, EventScopesReloaded, nil)
}

// ClearMemory drops this process's copy only.
func (s *AccessService) ClearMemory() {
	s.cache.ClearMemory()
}

// CacheSource reports which cache tier would answer next.
func (s *AccessService) CacheSource(ctx context.Context) string {
	return s.cache.Source(ctx)
}

// VisibleScopes returns the sorted scope names the identity resolves to:
// its direct scopes that exist in the rule set plus scopes reached through
// one level of group indirection. Diagnostic; rule bodies stay private.
func (s *AccessService) VisibleScopes(ctx context.Context, identityScopes []string) ([]string, error) {
	rs, err := s.cache.GetOrLoad(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, scope := range identityScopes {
		if _, ok := rs.Scopes[scope]; ok {
			seen[scope] = true
		}
		for _, mapped := range rs.GroupMappings[scope] {
			if _, ok := rs.Scopes[mapped]; ok {
				seen[mapped] = true
			}
		}
	}

	visible := make([]string, 0, len(seen))
	for scope := range seen {
		visible = append(visible, scope)
	}
	sort.Strings(visible)
	return visible, nil
}

// WarmUp primes the cache so the first request does not pay the load.
func (s *AccessService) WarmUp(ctx context.Context) error {
	_, err := s.cache.GetOrLoad(ctx)
	return err
}
