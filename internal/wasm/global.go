package wasm

import (
	"github.com/wasmigo/wasmi/internal/core"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// Global is a mutable or immutable global variable instance.
type Global struct {
	Type    wasmdecode.ValType
	Mutable bool
	Value   core.Value
}
