package wasmi

import (
	"github.com/wasmigo/wasmi/internal/interpreter"
	"github.com/wasmigo/wasmi/internal/wasm"
)

// Store owns one embedder's user data T and the Machine every Instance
// linked through it executes on. Per spec.md §6's "Store<T> owning user
// state, memories, tables, globals, instances" — memories/tables/globals are
// actually owned per-Instance (internal/wasm.Instance), but every Instance a
// given Store links shares that Store's interpreter Machine and fuel/limiter
// configuration, so in practice a Store is the resource-accounting scope
// spec.md §5 describes ("each concurrent caller gets its own Store").
type Store[T any] struct {
	engine  *Engine
	data    T
	machine *interpreter.Machine
}

// NewStore constructs a Store carrying data, configured from engine's Config.
func NewStore[T any](engine *Engine, data T) *Store[T] {
	cfg := engine.config
	return &Store[T]{
		engine: engine,
		data:   data,
		machine: interpreter.NewMachine(interpreter.Config{
			MaxValueStackCells: cfg.maxValueStackCells,
			MaxRecursionDepth:  cfg.maxRecursionDepth,
			FuelEnabled:        cfg.fuelEnabled,
			Limiter:            cfg.limiter,
		}),
	}
}

// Data returns the user data this Store was constructed with.
func (s *Store[T]) Data() T { return s.data }

// Engine returns the Engine this Store was built from.
func (s *Store[T]) Engine() *Engine { return s.engine }

// SetFuel sets the fuel counter available to subsequent calls through this
// Store, per spec.md §8's "fuel monotonicity" property (the counter only
// decreases during execution; the embedder replenishes it between calls).
func (s *Store[T]) SetFuel(fuel int64) { s.machine.SetFuel(fuel) }

// Fuel returns the fuel counter remaining after the most recently completed
// call through this Store.
func (s *Store[T]) Fuel() int64 { return s.machine.Fuel() }

func (s *Store[T]) limiter() wasm.ResourceLimiter { return s.engine.config.limiter }
