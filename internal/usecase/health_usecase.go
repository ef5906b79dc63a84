package usecase

import (
	"context"
	"time"

	"resume-matcher/internal/domain"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) domain.HealthStatus
}

type Health struct {
	db    Pinger
	redis Pinger
	now   func() time.Time
}

// NewHealthUsecase accepts nil pingers for backends that are not in use.
func NewHealthUsecase(db, redis Pinger) *Health {
	return &Health{db: db, redis: redis, now: time.Now}
}

func (u *Health) Check(ctx context.Context) domain.HealthStatus {
	return domain.HealthStatus{
		DatabaseHealthy: ping(ctx, u.db),
		RedisHealthy:    ping(ctx, u.redis),
		ServerTime:      u.now().UTC(),
	}
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Ping(pingCtx) == nil
}
