package blog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	current     *Service
	currentOnce sync.Once
)

// Current returns the process-wide Service, creating it on first use with the
// sample dataset and the global logger. There is no way to reset it; code
// that needs its own instance should call NewService.
func Current() *Service {
	currentOnce.Do(func() {
		current = NewService(WithLogger(zap.L().Named("posts")))
	})
	return current
}
