package host

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/errors"
	"github.com/wippyai/wasm-managed/resource"
)

type Handle = wasmmanaged.Handle

var _ wasmmanaged.ManagedTypeAPI = (*Registry)(nil)

// Registry is the reference handle registry.
type Registry struct {
	table   *resource.Table
	log     *zap.Logger
	metrics *Metrics
	opts    Options
}

type buffer struct {
	data []byte
}

// NewRegistry creates a registry with the given options.
func NewRegistry(opts Options) *Registry {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}

	r := &Registry{
		table:   resource.NewTable(opts.Limits),
		log:     log,
		metrics: opts.Metrics,
		opts:    opts,
	}
	r.table.Subscribe(resource.ObserverFunc(r.onResourceEvent))
	return r
}

// Reset releases every handle. Call it when the invocation ends.
func (r *Registry) Reset() {
	r.table.Reset()
}

// Len returns the number of handles issued in the current invocation.
func (r *Registry) Len() int {
	return r.table.Len()
}

// Table exposes the handle table for observers.
func (r *Registry) Table() *resource.Table {
	return r.table
}

func (r *Registry) onResourceEvent(e resource.Event) {
	switch e.Type {
	case resource.EventCreated:
		if r.metrics != nil {
			r.metrics.Handles.WithLabelValues(e.TypeID.String()).Inc()
		}
		if ce := r.log.Check(zap.DebugLevel, "handle created"); ce != nil {
			ce.Write(zap.Int32("handle", int32(e.Handle)), zap.Stringer("kind", e.TypeID))
		}
	case resource.EventReset:
		r.log.Debug("registry reset", zap.Int32("released", int32(e.Handle)))
	}
}

func (r *Registry) op(name string) {
	if r.metrics != nil {
		r.metrics.Operations.WithLabelValues(name).Inc()
	}
}

func (r *Registry) countTrap(kind errors.Kind, detail string) {
	if r.metrics != nil {
		r.metrics.Traps.WithLabelValues(string(kind)).Inc()
	}
	r.log.Warn("registry trap", zap.String("kind", string(kind)), zap.String("detail", detail))
}

func (r *Registry) trap(kind errors.Kind, format string, args ...any) {
	r.countTrap(kind, fmt.Sprintf(format, args...))
	errors.Trap(kind, format, args...)
}

func (r *Registry) trapHandle(op string, h Handle) {
	r.countTrap(errors.KindInvalidHandle, fmt.Sprintf("%s: handle %d", op, h))
	errors.TrapInvalidHandle(op, int32(h))
}

func (r *Registry) insert(typeID resource.TypeID, value any) Handle {
	h, err := r.table.Insert(typeID, value)
	if err != nil {
		r.trap(errors.KindAllocation, "allocate %s handle: %v", typeID, err)
	}
	return h
}

func (r *Registry) bigInt(op string, h Handle) *big.Int {
	v, ok := r.table.GetTyped(h, resource.TypeBigInt)
	if !ok {
		r.trapHandle(op, h)
	}
	return v.(*big.Int)
}

func (r *Registry) buffer(op string, h Handle) *buffer {
	v, ok := r.table.GetTyped(h, resource.TypeBuffer)
	if !ok {
		r.trapHandle(op, h)
	}
	return v.(*buffer)
}

// checkBigIntBits traps when a result of the given bit length would exceed
// MaxBigIntBytes. Callers check before computing.
func (r *Registry) checkBigIntBits(op string, bits uint64) {
	if r.opts.MaxBigIntBytes <= 0 {
		return
	}
	if n := (bits + 7) / 8; n > uint64(r.opts.MaxBigIntBytes) {
		r.trap(errors.KindAllocation, "%s: integer of %d bytes exceeds limit %d", op, n, r.opts.MaxBigIntBytes)
	}
}

func (r *Registry) checkBufferLen(op string, n int) {
	if r.opts.MaxBufferLen > 0 && n > r.opts.MaxBufferLen {
		r.trap(errors.KindAllocation, "%s: buffer length %d exceeds limit %d", op, n, r.opts.MaxBufferLen)
	}
}
