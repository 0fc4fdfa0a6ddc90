package wasmi

import (
	"go.uber.org/zap"

	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

// zapFields summarizes a decoded module's shape for the one-line debug log
// NewModule emits, following wazero's compile-time diagnostic logging
// style (grounded on wippyai-wasm-runtime, which logs wazero compilation
// events through zap the same way).
func zapFields(decoded *wasmdecode.Module) []zap.Field {
	return []zap.Field{
		zap.Int("types", len(decoded.Types)),
		zap.Int("funcs", len(decoded.Funcs)),
		zap.Int("imports", len(decoded.Imports)),
		zap.Int("exports", len(decoded.Exports)),
		zap.Int("tables", len(decoded.Tables)),
		zap.Int("memories", len(decoded.Mems)),
		zap.Bool("has_start", decoded.Start != nil),
	}
}
