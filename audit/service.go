// audit/service.go
package audit

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
)

type Service interface {
	LogDecision(ctx context.Context, log AccessLog)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogDecision records the decision best-effort: audit-sink trouble must
// never block or fail an access check.
func (s *service) LogDecision(ctx context.Context, log AccessLog) {
	if s.repo == nil {
		return
	}
	if err := s.repo.IndexDecision(ctx, log); err != nil {
		logger.Warn("Failed to index access decision",
			zap.Error(err),
			zap.String("server", log.Server),
			zap.String("tool", log.Tool))
	}
}
