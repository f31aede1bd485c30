package health

import "context"

// Checker probes an upstream model provider's availability.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
