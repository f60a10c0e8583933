package hostabi

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmmanaged "github.com/wippyai/wasm-managed"
	"github.com/wippyai/wasm-managed/errors"
)

// Func is one exported host function.
type Func struct {
	Name    string
	Fn      api.GoModuleFunc
	Params  []api.ValueType
	Results []api.ValueType
}

// Module holds the host functions bound to one registry.
type Module struct {
	reg   wasmmanaged.ManagedTypeAPI
	opts  Options
	log   *zap.Logger
	funcs []Func
	index map[string]int
}

// New binds the host functions to reg. The registry must outlive every guest
// linked against the module.
func New(reg wasmmanaged.ManagedTypeAPI, opts Options) *Module {
	if opts.ModuleName == "" {
		opts.ModuleName = DefaultModuleName
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}

	m := &Module{reg: reg, opts: opts, log: log}
	m.funcs = m.define()
	m.index = make(map[string]int, len(m.funcs))
	for i, f := range m.funcs {
		m.index[f.Name] = i
	}
	return m
}

func (m *Module) Name() string { return m.opts.ModuleName }

// Funcs returns the exported functions in definition order.
func (m *Module) Funcs() []Func { return m.funcs }

// Func looks up an exported function by name.
func (m *Module) Func(name string) (Func, bool) {
	i, ok := m.index[name]
	if !ok {
		return Func{}, false
	}
	return m.funcs[i], true
}

// Build instantiates the host module into rt.
func (m *Module) Build(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(m.opts.ModuleName)
	for _, f := range m.funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.Fn, f.Params, f.Results).
			Export(f.Name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Path(m.opts.ModuleName).
			Detail("host module instantiation failed").
			Cause(err).
			Build()
	}

	m.log.Debug("host module instantiated",
		zap.String("module", m.opts.ModuleName),
		zap.Int("functions", len(m.funcs)))
	return mod, nil
}

func (m *Module) trap(fn string, kind errors.Kind, format string, args ...any) {
	m.log.Warn("host call trap", zap.String("function", fn), zap.String("kind", string(kind)))
	errors.Trap(kind, fn+": "+format, args...)
}

// read returns a view of guest memory. The registry copies whatever it keeps.
func (m *Module) read(fn string, mod api.Module, ptr, n uint32) []byte {
	mem := mod.Memory()
	if mem == nil {
		m.trap(fn, errors.KindNotInitialized, "guest exports no memory")
	}
	b, ok := mem.Read(ptr, n)
	if !ok {
		m.trap(fn, errors.KindOutOfBounds, "read of %d bytes at %d outside guest memory", n, ptr)
	}
	return b
}

func (m *Module) write(fn string, mod api.Module, ptr uint32, data []byte) {
	mem := mod.Memory()
	if mem == nil {
		m.trap(fn, errors.KindNotInitialized, "guest exports no memory")
	}
	if !mem.Write(ptr, data) {
		m.trap(fn, errors.KindOutOfBounds, "write of %d bytes at %d outside guest memory", len(data), ptr)
	}
}
