// Package logger provides a small factory around log/slog with sane defaults.
//
// The zero-configuration logger emits JSON at INFO level. Options adjust
// level, format, destination, and static attributes:
//
//	log := logger.New(logger.WithDevelopment("authgate"))
//	log.Info("gate settled", "path", "/dashboard")
package logger
