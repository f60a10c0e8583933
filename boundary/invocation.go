package boundary

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/codec"
	"github.com/wippyai/wasm-managed/errors"
)

// Resetter is implemented by registries that can release every handle at
// the end of an invocation.
type Resetter interface {
	Reset()
}

// Option configures an Invocation.
type Option func(*Invocation)

// WithStorage shares s with the invocation. Without it the invocation gets
// a fresh, empty Storage.
func WithStorage(s *Storage) Option {
	return func(inv *Invocation) { inv.storage = s }
}

// Invocation carries one call across the boundary. It is not safe for
// concurrent use.
type Invocation struct {
	api     wasmmanaged.ManagedTypeAPI
	args    [][]byte
	results [][]byte
	storage *Storage
	writes  *writeSet
	logs    *Logs
}

// NewInvocation binds top-level encoded args to the registry managed
// arguments will be decoded into.
func NewInvocation(api wasmmanaged.ManagedTypeAPI, args [][]byte, opts ...Option) *Invocation {
	inv := &Invocation{api: api, args: args, writes: newWriteSet(), logs: &Logs{}}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.storage == nil {
		inv.storage = NewStorage()
	}
	return inv
}

func (inv *Invocation) API() wasmmanaged.ManagedTypeAPI { return inv.api }

// Args returns the raw encoded arguments.
func (inv *Invocation) Args() [][]byte { return inv.args }

func (inv *Invocation) ArgCount() int { return len(inv.args) }

// CheckArgCount fails unless exactly n arguments were passed.
func (inv *Invocation) CheckArgCount(n int) error {
	if len(inv.args) != n {
		return errors.InvalidInput(errors.PhaseBoundary,
			fmt.Sprintf("wrong number of arguments: expected %d, got %d", n, len(inv.args)))
	}
	return nil
}

// Arg decodes argument i into ptr from its top-level form.
func (inv *Invocation) Arg(i int, ptr any) error {
	if i < 0 || i >= len(inv.args) {
		return errors.OutOfBounds(errors.PhaseBoundary, []string{argName(i)}, i, len(inv.args))
	}
	if err := codec.DecodeTop(codec.NewByteInput(inv.args[i], codec.WithAPI(inv.api)), ptr); err != nil {
		return argError(i, err)
	}
	return nil
}

func argName(i int) string {
	return "argument " + strconv.Itoa(i)
}

func argError(i int, err error) error {
	kind := errors.KindInvalidData
	var e *errors.Error
	if errors.As(err, &e) {
		kind = e.Kind
	}
	return errors.New(errors.PhaseBoundary, kind).
		Path(argName(i)).
		Detail("cannot decode").
		Cause(err).
		Build()
}

// Finish appends the top-level form of v to the results. A pointer is
// encoded as an option; pass the value itself to finish a struct.
func (inv *Invocation) Finish(v any) error {
	out := codec.NewByteOutput()
	if err := codec.EncodeTop(out, v); err != nil {
		return err
	}
	inv.results = append(inv.results, out.Bytes())
	return nil
}

// Results returns every finished value in order.
func (inv *Invocation) Results() [][]byte { return inv.results }

// Storage returns the invocation's view of its storage.
func (inv *Invocation) Storage() Cells {
	return Cells{store: inv.storage, writes: inv.writes, api: inv.api}
}

func (inv *Invocation) Logs() *Logs { return inv.logs }

// SignalError returns a user error carrying msg. Returning it from Run
// aborts the invocation.
func (inv *Invocation) SignalError(msg string) error {
	return errors.UserError(msg)
}

// Run executes fn, turning traps into errors. When the registry implements
// Resetter, every handle is released afterwards, whatever the outcome.
// Staged storage writes are committed only when fn succeeds; a failed
// invocation leaves no results, events or storage changes.
func (inv *Invocation) Run(fn func(*Invocation) error) (err error) {
	done := false
	defer func() {
		if r, ok := inv.api.(Resetter); ok {
			r.Reset()
		}
		if done && err == nil {
			if inv.writes.len() > 0 {
				inv.storage.commit(inv.writes)
				inv.writes.reset()
			}
			return
		}
		inv.results = nil
		inv.logs.reset()
		inv.writes.reset()
		if err != nil {
			Logger().Debug("invocation failed", zap.Error(err))
		}
	}()
	defer errors.Recover(&err)
	err = fn(inv)
	done = true
	return err
}
