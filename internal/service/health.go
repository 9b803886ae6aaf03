package service

import (
	"context"
	"fmt"

	"agora/internal/clients"
)

// Health statuses reported by HealthChecker.
const (
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
	HealthStarting  = "starting"
)

// DependencyHealth is one probed dependency in a healthy report.
type DependencyHealth struct {
	Status         string `json:"status"`
	ResponseTimeMS int64  `json:"response_time_ms"`
}

// HealthReport is the body of GET /health. It is always served with 200.
type HealthReport struct {
	Service      string                      `json:"service,omitempty"`
	Status       string                      `json:"status"`
	Details      string                      `json:"details,omitempty"`
	Code         int                         `json:"code,omitempty"`
	Dependencies map[string]DependencyHealth `json:"dependencies,omitempty"`
}

// Probe checks one dependency.
type Probe interface {
	Name() string
	Check(ctx context.Context) clients.Probe
}

// HealthChecker probes dependencies in order and stops at the first bad one.
type HealthChecker struct {
	service string
	probes  []Probe
}

func NewHealthChecker(service string, probes ...Probe) *HealthChecker {
	return &HealthChecker{service: service, probes: probes}
}

// Check distinguishes a dependency that answered badly (unhealthy) from one
// that could not be reached (starting).
func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	deps := make(map[string]DependencyHealth, len(h.probes))
	for _, p := range h.probes {
		res := p.Check(ctx)
		if !res.Reachable {
			return HealthReport{
				Status:  HealthStarting,
				Details: fmt.Sprintf("%s not reachable: %v", res.Name, res.Err),
			}
		}
		if !res.Healthy() {
			return HealthReport{
				Status:  HealthUnhealthy,
				Details: fmt.Sprintf("%s returned non-200", res.Name),
				Code:    res.Status,
			}
		}
		deps[res.Name] = DependencyHealth{Status: HealthHealthy, ResponseTimeMS: res.Elapsed.Milliseconds()}
	}
	return HealthReport{Service: h.service, Status: HealthHealthy, Dependencies: deps}
}
