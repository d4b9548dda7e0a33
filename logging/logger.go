package logging

import "go.uber.org/zap"

// Named returns the process-wide logger installed by config.New, scoped to a component
func Named(component string) *zap.SugaredLogger {
	return zap.S().Named(component)
}
