package usecase

import (
	"context"
	"time"

	"portfolio-backend/internal/domain"
)

const healthCheckTimeout = 2 * time.Second

type healthUsecase struct {
	checks map[string]domain.HealthChecker
}

func NewHealthUsecase(checks map[string]domain.HealthChecker) domain.HealthUsecase {
	return &healthUsecase{checks: checks}
}

// Check pings every dependency. The bool is false if any of them failed.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"status": "ok"}
	healthy := true

	for name, check := range u.checks {
		pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := check.Ping(pingCtx)
		cancel()

		if err != nil {
			status[name] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
