package managed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-managed/errors"
	"github.com/wippyai/wasm-managed/host"
)

func newRegistry(t *testing.T) *host.Registry {
	t.Helper()
	r := host.NewRegistry(host.DefaultOptions())
	t.Cleanup(r.Reset)
	return r
}

func requireTrap(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	var err error
	func() {
		defer errors.Recover(&err)
		fn()
	}()
	require.Error(t, err, "expected a trap")
	require.True(t, errors.IsKind(err, kind), "got %v", err)
}
