package compiler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/riot/internal/adapters/compiler"
	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestCommandCompiler(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), []string{"riotc", "--stdin"}, map[string]string{
		"NODE_ENV":           "production",
		compiler.EnvCompact:  "true",
		compiler.EnvType:     "coffee",
		compiler.EnvExpr:     "false",
		compiler.EnvTemplate: "",
	}, "<x></x>").Return("compiled", nil)

	c := compiler.NewCommandCompiler(runner, []string{"riotc", "--stdin"}, map[string]string{"NODE_ENV": "production"})

	out, err := c.Compile(context.Background(), "<x></x>", domain.CompileOptions{Compact: true, Type: "coffee"})
	require.NoError(t, err)
	assert.Equal(t, "compiled", out)
}

func TestCommandCompiler_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("exit status 2"))

	c := compiler.NewCommandCompiler(runner, []string{"riotc"}, nil)

	_, err := c.Compile(context.Background(), "<x></x>", domain.CompileOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCompilerCommandFailed.Error())
	assert.Contains(t, err.Error(), "exit status 2")
}

func TestFactory_New(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	f := compiler.NewFactory(runner)

	c, err := f.New(nil)
	require.NoError(t, err)
	assert.IsType(t, &compiler.Riot{}, c)

	c, err = f.New(&domain.Config{Compiler: domain.CompilerConfig{Command: []string{"riotc"}}})
	require.NoError(t, err)
	assert.IsType(t, &compiler.CommandCompiler{}, c)
}

func TestFactory_New_Preprocessors(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), []string{"minify"}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []string, _ map[string]string, stdin string) (string, error) {
			return stdin, nil
		})

	script := writeScript(t, `function process(s) return (string.gsub(s, "hello", "world")) end`)
	f := compiler.NewFactory(runner)

	c, err := f.New(&domain.Config{
		Preprocessors: map[string]domain.PreprocessorConfig{
			"shout":  {Lua: script},
			"minify": {Command: []string{"minify"}},
		},
	})
	require.NoError(t, err)

	out, err := c.Compile(context.Background(), "<x>\n  <script>\n    hello()\n  </script>\n</x>",
		domain.CompileOptions{Type: "shout", Template: "minify"})
	require.NoError(t, err)
	assert.Equal(t, "riot.tag2('x', '', '', '', function(opts) {\n  world()\n});", out)
}

func TestFactory_New_InvalidPreprocessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := compiler.NewFactory(mocks.NewMockCommandRunner(ctrl))

	for _, pp := range []domain.PreprocessorConfig{
		{},
		{Command: []string{"a"}, Lua: "b.lua"},
	} {
		_, err := f.New(&domain.Config{Preprocessors: map[string]domain.PreprocessorConfig{"bad": pp}})
		assert.ErrorIs(t, err, domain.ErrInvalidPreprocessor)
	}

	_, err := f.New(&domain.Config{Preprocessors: map[string]domain.PreprocessorConfig{"gone": {Lua: "/does/not/exist.lua"}}})
	require.Error(t, err)
}
