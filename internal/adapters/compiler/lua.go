package compiler

import (
	"context"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultLuaTimeout bounds a single Lua preprocessor call.
const DefaultLuaTimeout = 5 * time.Second

// luaEntryPoint is the global function a preprocessor script must define.
const luaEntryPoint = "process"

var _ ports.Preprocessor = (*LuaPreprocessor)(nil)

// LuaPreprocessor runs a script defining process(source) in a sandboxed Lua state.
// Every call gets a fresh state, so scripts cannot keep state between files.
type LuaPreprocessor struct {
	name    string
	code    string
	timeout time.Duration
}

// NewLuaPreprocessor creates a preprocessor from script source. name identifies it in errors.
func NewLuaPreprocessor(name, code string, timeout time.Duration) *LuaPreprocessor {
	if timeout <= 0 {
		timeout = DefaultLuaTimeout
	}
	return &LuaPreprocessor{name: name, code: code, timeout: timeout}
}

// LoadLuaPreprocessor reads the script at path.
func LoadLuaPreprocessor(path string, timeout time.Duration) (*LuaPreprocessor, error) {
	code, err := os.ReadFile(path) //nolint:gosec // path comes from the project config
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read lua script"), "path", path)
	}
	return NewLuaPreprocessor(path, string(code), timeout), nil
}

// Process calls process(source) and returns its string result.
func (p *LuaPreprocessor) Process(ctx context.Context, source string) (string, error) {
	L := newSandbox()
	defer L.Close()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	L.SetContext(ctx)

	if err := L.DoString(p.code); err != nil {
		return "", p.fail(err)
	}

	fn := L.GetGlobal(luaEntryPoint)
	if fn.Type() != lua.LTFunction {
		return "", p.fail(zerr.New("script does not define process(source)"))
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(source)); err != nil {
		return "", p.fail(err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	out, ok := ret.(lua.LString)
	if !ok {
		return "", p.fail(zerr.With(zerr.New("process must return a string"), "returned", ret.Type().String()))
	}
	return string(out), nil
}

func (p *LuaPreprocessor) fail(err error) error {
	return zerr.With(zerr.Wrap(err, domain.ErrPreprocessorFailed.Error()), "script", p.name)
}

// newSandbox opens only the base, string, table and math libraries,
// without the base functions that reach the file system.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
