package hostabi

import "go.uber.org/zap"

// DefaultModuleName is the import module guests link against.
const DefaultModuleName = "env"

// Options configures the host module.
type Options struct {
	// ModuleName is the wasm import module name.
	ModuleName string

	// Logger overrides the package logger.
	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{ModuleName: DefaultModuleName}
}
