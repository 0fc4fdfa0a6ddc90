package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	wasmi "github.com/wasmigo/wasmi"
	"github.com/wasmigo/wasmi/internal/wasmdecode"
)

func runMain(cmd *cobra.Command, args []string, flags *cliFlags) error {
	log := newLogger(flags.verbose)
	defer log.Sync() //nolint:errcheck

	path := args[0]
	textArgs := args[1:]

	if strings.EqualFold(filepath.Ext(path), ".wat") {
		return fmt.Errorf("wasmi: %s is a .wat file; this engine has no text-format front end "+
			"(spec.md §1 places the parser/validator out of scope) — pre-translate to .wasm first", path)
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("wasmi: reading %s: %w", path, err)
	}

	mode, err := parseCompilationMode(flags.compilationMode)
	if err != nil {
		return err
	}

	cfg := wasmi.NewConfig().
		WithLogger(log).
		WithCompilationMode(mode).
		WithFuel(flags.fuel >= 0)

	engine := wasmi.NewEngine(cfg)

	mod, err := wasmi.NewModule(engine, bytes)
	if err != nil {
		return err
	}

	store := wasmi.NewStore[any](engine, nil)
	if flags.fuel >= 0 {
		store.SetFuel(flags.fuel)
	}
	if len(flags.dirs) > 0 || len(flags.envs) > 0 || flags.tcpListen != "" {
		log.Debug("WASI flags accepted but not wired (no WASI host bindings in this engine)")
	}

	linker := wasmi.NewLinker[any](store)
	inst, err := linker.Instantiate(mod)
	if err != nil {
		return err
	}

	funcName := flags.invoke
	if funcName == "" {
		funcName = defaultExportName(mod)
	}

	fn, ok := inst.ExportedFunc(funcName)
	if !ok {
		return fmt.Errorf("%w: %q", wasmi.ErrFunctionNotFound, funcName)
	}

	callArgs, err := parseTextArgs(fn.Type(), textArgs)
	if err != nil {
		return err
	}

	results, err := fn.Call(callArgs...)
	if err != nil {
		printErr(cmd, err)
		os.Exit(1)
	}

	printResults(cmd, fn.Type(), results)
	return nil
}

func parseCompilationMode(s string) (wasmi.CompilationMode, error) {
	switch s {
	case "eager", "":
		return wasmi.CompilationModeEager, nil
	case "lazy-translation":
		return wasmi.CompilationModeLazyTranslation, nil
	case "lazy":
		return wasmi.CompilationModeLazy, nil
	default:
		return 0, fmt.Errorf("wasmi: unknown --compilation-mode %q (want eager|lazy-translation|lazy)", s)
	}
}

// defaultExportName picks "" if the module exports a function under that
// name, else "_start", per spec.md §6: "an exported function name
// (default: "" or "_start")".
func defaultExportName(mod *wasmi.Module) string {
	for _, name := range mod.ExportedFunctionNames() {
		if name == "" {
			return ""
		}
	}
	return "_start"
}

func parseTextArgs(ft wasmdecode.FuncType, texts []string) ([]wasmi.Value, error) {
	if len(texts) != len(ft.Params) {
		return nil, fmt.Errorf("wasmi: function expects %d argument(s), got %d", len(ft.Params), len(texts))
	}
	vals := make([]wasmi.Value, len(texts))
	for i, text := range texts {
		v, err := parseTextArg(ft.Params[i], text)
		if err != nil {
			return nil, fmt.Errorf("wasmi: argument %d (%q): %w", i, text, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseTextArg(ty wasmdecode.ValType, text string) (wasmi.Value, error) {
	switch ty {
	case wasmdecode.ValTypeI32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return 0, err
		}
		return wasmi.ValueFromI32(int32(n)), nil
	case wasmdecode.ValTypeI64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return 0, err
		}
		return wasmi.ValueFromI64(n), nil
	case wasmdecode.ValTypeF32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return 0, err
		}
		return wasmi.ValueFromF32(wasmi.F32FromFloat32(float32(f))), nil
	case wasmdecode.ValTypeF64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, err
		}
		return wasmi.ValueFromF64(wasmi.F64FromFloat64(f)), nil
	default:
		return 0, fmt.Errorf("unsupported parameter type %v for a textual CLI argument", ty)
	}
}

// printResults prints a single result bare and multiple results
// bracket-wrapped and space-separated, per spec.md §6.
func printResults(cmd *cobra.Command, ft wasmdecode.FuncType, results []wasmi.Value) {
	out := cmd.OutOrStdout()
	strs := make([]string, len(results))
	for i, v := range results {
		strs[i] = formatResult(ft.Results[i], v)
	}
	if len(strs) == 1 {
		fmt.Fprintln(out, strs[0])
		return
	}
	fmt.Fprintf(out, "[%s]\n", strings.Join(strs, " "))
}

func formatResult(ty wasmdecode.ValType, v wasmi.Value) string {
	switch ty {
	case wasmdecode.ValTypeI32:
		return strconv.FormatInt(int64(v.I32()), 10)
	case wasmdecode.ValTypeI64:
		return strconv.FormatInt(v.I64(), 10)
	case wasmdecode.ValTypeF32:
		return strconv.FormatFloat(float64(v.F32().ToFloat32()), 'g', -1, 32)
	case wasmdecode.ValTypeF64:
		return strconv.FormatFloat(v.F64().ToFloat64(), 'g', -1, 64)
	default:
		return strconv.FormatUint(uint64(v), 10)
	}
}
