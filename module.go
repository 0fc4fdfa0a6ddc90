package wasmi

import (
	"fmt"

	"github.com/wasmigo/wasmi/internal/ir"
	"github.com/wasmigo/wasmi/internal/translator"
	"github.com/wasmigo/wasmi/internal/wasm"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// Module is a compiled module image: decoded structure plus every locally
// defined function already translated to the register IR, whatever
// CompilationMode the Engine's Config names (see CompilationModeEager).
// Mirrors spec.md §6's
// "Module::new(engine, bytes)".
type Module struct {
	engine  *Engine
	decoded *wasmdecode.Module
	image   *wasm.Module
}

// NewModule decodes and translates a .wasm binary, per spec.md §6's
// "Module::new(engine, bytes)". Decode errors and per-function translation
// errors are both surfaced here, matching spec.md §7's "translation /
// validation errors — surfaced at Module::new".
func NewModule(engine *Engine, bytes []byte) (*Module, error) {
	if engine == nil {
		engine = NewEngine(nil)
	}
	decoded, err := wasmdecode.Decode(bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBinary, err)
	}

	image, err := compile(engine, decoded)
	if err != nil {
		return nil, err
	}

	engine.log.Debug("module compiled",
		zapFields(decoded)...,
	)

	return &Module{engine: engine, decoded: decoded, image: image}, nil
}

// ValidateModule decodes bytes and translates every function without
// retaining the result, per spec.md §6's "Module::validate(engine, bytes)".
// It returns the same error a subsequent NewModule would.
func ValidateModule(engine *Engine, bytes []byte) error {
	_, err := NewModule(engine, bytes)
	return err
}

// compile translates every locally defined function of decoded into a
// wasm.Module image. Grounded on the same decode -> translate -> wasm.Module
// pipeline internal/interpreter's tests drive by hand (see
// interpreter_test.go's buildModule helper); this is that pipeline's one real
// production entry point.
func compile(engine *Engine, decoded *wasmdecode.Module) (*wasm.Module, error) {
	code := ir.NewCodeMap()
	handles := make([]ir.FuncBodyHandle, len(decoded.Code))
	numImports := decoded.NumFuncImports()

	for i, fnCode := range decoded.Code {
		typeIdx := decoded.Funcs[i]
		if int(typeIdx) >= len(decoded.Types) {
			return nil, fmt.Errorf("%w: function %d references out-of-range type %d", ErrMalformedBinary, i, typeIdx)
		}
		tr := translator.NewTranslator(decoded, engine.config.fuelEnabled)
		res, err := tr.Translate(decoded.Types[typeIdx], fnCode)
		if err != nil {
			return nil, fmt.Errorf("%w: function %d: %v", ErrTranslation, i, err)
		}
		iref := code.Reserve()
		handles[i] = code.Append(iref, res.LenRegisters, 0, res.Encoded)
	}

	funcTypeIdx := make([]uint32, numImports+len(decoded.Funcs))
	fi := 0
	for _, imp := range decoded.Imports {
		if imp.Kind == wasmdecode.ImportFunc {
			funcTypeIdx[fi] = imp.TypeIdx
			fi++
		}
	}
	for _, typeIdx := range decoded.Funcs {
		funcTypeIdx[fi] = typeIdx
		fi++
	}

	return &wasm.Module{
		Types:          decoded.Types,
		Code:           code,
		NumFuncImports: numImports,
		FuncTypeIdx:    funcTypeIdx,
		FuncHandles:    handles,
		Imports:        decoded.Imports,
		Exports:        decoded.Exports,
		Tables:         decoded.Tables,
		Mems:           decoded.Mems,
		Globals:        decoded.Globals,
		Elems:          decoded.Elems,
		Data:           decoded.Data,
		Start:          decoded.Start,
	}, nil
}

// ExportedFunctionNames returns every export name that names a function, in
// declaration order, used by the CLI to default --invoke to "" or "_start".
func (m *Module) ExportedFunctionNames() []string {
	var names []string
	for _, e := range m.decoded.Exports {
		if e.Kind == wasmdecode.ImportFunc {
			names = append(names, e.Name)
		}
	}
	return names
}
