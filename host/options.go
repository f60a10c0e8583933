package host

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-managed/resource"
)

// Options configures a Registry.
type Options struct {
	// Logger overrides the package logger.
	Logger *zap.Logger

	// Metrics receives operation and allocation counts. Optional.
	Metrics *Metrics

	// Limits bounds the number of handles per invocation.
	Limits resource.Limits

	// MaxBufferLen is the largest buffer the registry will hold, in bytes.
	// 0 means unlimited.
	MaxBufferLen int

	// MaxBigIntBytes is the largest magnitude a big integer may reach, in
	// bytes. 0 means unlimited.
	MaxBigIntBytes int
}

// DefaultOptions returns default registry configuration.
func DefaultOptions() Options {
	return Options{
		Limits:         resource.DefaultLimits(),
		MaxBufferLen:   16 << 20,
		MaxBigIntBytes: 1 << 20,
	}
}
