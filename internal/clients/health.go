package clients

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Probe is the outcome of one health check against a dependency.
type Probe struct {
	Name      string
	Reachable bool
	Status    int
	Elapsed   time.Duration
	Err       error
}

// Healthy reports whether the dependency answered 200.
func (p Probe) Healthy() bool {
	return p.Reachable && p.Status == fiber.StatusOK
}

// Prober checks GET {base}/health of a named dependency.
type Prober struct {
	caller
}

// NewProber returns a Prober for the dependency called name at base.
func NewProber(name, base string, timeout time.Duration) *Prober {
	return &Prober{caller: newCaller(name, base, timeout)}
}

// Name is the display name of the probed dependency.
func (p *Prober) Name() string { return p.name }

// Check runs one probe.
func (p *Prober) Check(ctx context.Context) Probe {
	start := time.Now()
	status, _, err := p.do(ctx, "health", fiber.Get(p.url("health")))
	probe := Probe{Name: p.name, Elapsed: time.Since(start), Status: status, Err: err}
	probe.Reachable = err == nil
	return probe
}
