package config

import (
	"go.uber.org/zap"
)

// setLogger picks the zap preset for the running environment
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "local":
		return zap.NewDevelopment()
	case "development":
		return zap.NewDevelopment(zap.IncreaseLevel(zap.InfoLevel))
	default:
		return zap.NewProduction()
	}
}
