package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/riot/internal/adapters/config"
	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newMapLoader(t *testing.T, files fstest.MapFS) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return &config.Loader{Logger: log, FS: config.NewMapFSAdapter("/work", files)}, log
}

func TestLoad_Full(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"riot.yaml": {Data: []byte(`version: "1"
compact: true
type: upper
expr: true
template: wrap
extensions:
  source: .riot
  compiled: .mjs
compiler:
  command: [riot-node, --stdin]
  env:
    NODE_ENV: production
preprocessors:
  upper:
    command: [tr, a-z, A-Z]
    env:
      LC_ALL: C
  wrap:
    lua: scripts/wrap.lua
ignore: [vendor, "tmp-*"]
`)},
	})

	cfg, err := loader.Load("/work", "")
	require.NoError(t, err)

	assert.Equal(t, "/work/riot.yaml", cfg.Path)
	assert.Equal(t, domain.CompileOptions{Compact: true, Type: "upper", Expr: true, Template: "wrap"}, cfg.Compile)
	assert.Equal(t, ".riot", cfg.SourceExt)
	assert.Equal(t, ".mjs", cfg.CompiledExt)
	assert.Equal(t, []string{"riot-node", "--stdin"}, cfg.Compiler.Command)
	assert.Equal(t, map[string]string{"NODE_ENV": "production"}, cfg.Compiler.Env)

	require.Len(t, cfg.Preprocessors, 2)
	assert.Equal(t, []string{"tr", "a-z", "A-Z"}, cfg.Preprocessors["upper"].Command)
	assert.Equal(t, map[string]string{"LC_ALL": "C"}, cfg.Preprocessors["upper"].Env)
	assert.Equal(t, filepath.Join("/work", "scripts", "wrap.lua"), cfg.Preprocessors["wrap"].Lua)
	assert.Equal(t, []string{"vendor", "tmp-*"}, cfg.Ignore)
}

func TestLoad_WalksUp(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"riot.yml":           {Data: []byte("compact: true\n")},
		"app/tags/todo.tag":  {Data: []byte("<todo></todo>\n")},
		"app/tags/README.md": {Data: []byte("tags\n")},
	})

	cfg, err := loader.Load("/work/app/tags", "")
	require.NoError(t, err)
	assert.Equal(t, "/work/riot.yml", cfg.Path)
	assert.True(t, cfg.Compile.Compact)
}

func TestLoad_PrefersYamlOverYml(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"riot.yaml": {Data: []byte("type: a\n")},
		"riot.yml":  {Data: []byte("type: b\n")},
	})

	cfg, err := loader.Load("/work", "")
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.Compile.Type)
}

func TestLoad_NearestWins(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"riot.yaml":     {Data: []byte("type: outer\n")},
		"sub/riot.yaml": {Data: []byte("type: inner\n")},
	})

	cfg, err := loader.Load("/work/sub", "")
	require.NoError(t, err)
	assert.Equal(t, "inner", cfg.Compile.Type)
}

func TestLoad_NoConfig(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"todo.tag": {Data: []byte("<todo></todo>\n")},
	})

	cfg, err := loader.Load("/work", "")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, domain.CompileOptions{}, cfg.Compile)
}

func TestLoad_ExplicitPath(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"riot.yaml":        {Data: []byte("type: ignored\n")},
		"conf/custom.yaml": {Data: []byte("type: custom\n")},
	})

	cfg, err := loader.Load("/work", "conf/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/work/conf/custom.yaml", cfg.Path)
	assert.Equal(t, "custom", cfg.Compile.Type)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"riot.yaml": {Data: []byte("type: ignored\n")},
	})

	_, err := loader.Load("/work", "missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	assert.Contains(t, err.Error(), "/work/missing.yaml")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "malformed yaml",
			data: "compact: [true\n",
			want: domain.ErrConfigParseFailed,
		},
		{
			name: "wrong type",
			data: "compact: {a: 1}\n",
			want: domain.ErrConfigParseFailed,
		},
		{
			name: "source extension without dot",
			data: "extensions:\n  source: riot\n",
			want: domain.ErrInvalidExtension,
		},
		{
			name: "compiled extension without dot",
			data: "extensions:\n  compiled: mjs\n",
			want: domain.ErrInvalidExtension,
		},
		{
			name: "preprocessor with both backends",
			data: "preprocessors:\n  x:\n    command: [cat]\n    lua: x.lua\n",
			want: domain.ErrInvalidPreprocessor,
		},
		{
			name: "ignore entry with a path separator",
			data: "ignore: [src/vendor]\n",
			want: domain.ErrInvalidIgnorePattern,
		},
		{
			name: "malformed ignore pattern",
			data: "ignore: [\"[a-\"]\n",
			want: domain.ErrInvalidIgnorePattern,
		},
		{
			name: "empty ignore entry",
			data: "ignore: [\"\"]\n",
			want: domain.ErrInvalidIgnorePattern,
		},
		{
			name: "preprocessor with no backend",
			data: "preprocessors:\n  x:\n    env:\n      A: b\n",
			want: domain.ErrInvalidPreprocessor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newMapLoader(t, fstest.MapFS{
				"riot.yaml": {Data: []byte(tt.data)},
			})

			cfg, err := loader.Load("/work", "")
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoad_UnknownVersionWarns(t *testing.T) {
	loader, log := newMapLoader(t, fstest.MapFS{
		"riot.yaml": {Data: []byte("version: \"2\"\n")},
	})
	log.EXPECT().Warn("unknown config version 2 in /work/riot.yaml")

	_, err := loader.Load("/work", "")
	require.NoError(t, err)
}

func TestLoad_AbsoluteLuaPathKept(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"riot.yaml": {Data: []byte("preprocessors:\n  x:\n    lua: /opt/pp/x.lua\n")},
	})

	cfg, err := loader.Load("/work", "")
	require.NoError(t, err)
	assert.Equal(t, "/opt/pp/x.lua", cfg.Preprocessors["x"].Lua)
}

func TestLoad_OSFS(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "tags")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte("expr: true\n"), 0o600))

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	cfg, err := loader.Load(sub, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, domain.ConfigFileName), cfg.Path)
	assert.True(t, cfg.Compile.Expr)
}
