package loom

import (
	"context"
	"sort"
	"sync"
	"time"
)

type HealthStatus string

const (
	HealthStatusUp   HealthStatus = "up"
	HealthStatusDown HealthStatus = "down"
)

type HealthReport struct {
	Name    string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

// HealthChecker is implemented by services that can report their own health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Live checks every already-resolved service that implements HealthChecker
// and returns a HEALTH_CHECK_FAILED Error for the first one that is down.
// Services not yet resolved are not built for the occasion.
func (inj *Injector) Live(ctx context.Context) error {
	for _, report := range inj.Health(ctx) {
		if report.Status == HealthStatusDown {
			return errHealthCheckFailed(report.Name, report.Error)
		}
	}
	return nil
}

// Health runs the health checks of all resolved services concurrently and
// returns their reports sorted by name.
func (inj *Injector) Health(ctx context.Context) []HealthReport {
	var reports []HealthReport
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, instance := range inj.internal.Instances() {
		if name == InjectorName {
			continue
		}

		checker, ok := instance.(HealthChecker)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := checker.HealthCheck(ctx)

			report := HealthReport{
				Name:    name,
				Status:  HealthStatusUp,
				Latency: time.Since(start),
			}
			if err != nil {
				report.Status = HealthStatusDown
				report.Error = err
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Name < reports[j].Name
	})
	return reports
}
