package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/riot/internal/adapters/fs"
	"go.trai.ch/riot/internal/adapters/logger"
	"go.trai.ch/riot/internal/adapters/telemetry"
	"go.trai.ch/riot/internal/app"
	"go.trai.ch/riot/internal/core/domain"
	"go.trai.ch/riot/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type testEnv struct {
	loader    *mocks.MockConfigLoader
	compilers *mocks.MockCompilerFactory
	compiler  *mocks.MockCompiler
	provider  ComponentProvider
	dir       string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)

	ctrl := gomock.NewController(t)
	env := &testEnv{
		loader:    mocks.NewMockConfigLoader(ctrl),
		compilers: mocks.NewMockCompilerFactory(ctrl),
		compiler:  mocks.NewMockCompiler(ctrl),
		dir:       dir,
	}

	log := logger.NewDiscard()
	application := app.New(
		env.loader,
		fs.NewResolver(fs.NewWalker(), fs.NewVerifier()),
		env.compilers,
		fs.NewHasher(),
		telemetry.NewNoOpTracer(),
		log,
		mocks.NewMockWatcherFactory(ctrl),
	)
	env.provider = func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}
	return env
}

func TestRun_Version(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"--version"}, stdout, stderr, env.provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "riot version")
}

func TestRun_NoArgsShowsHelp(t *testing.T) {
	env := newTestEnv(t)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), nil, stdout, stderr, env.provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_Build(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "todo.tag"), []byte("<todo></todo>"), 0o600))

	env.loader.EXPECT().Load(env.dir, "").Return(&domain.Config{}, nil)
	env.compilers.EXPECT().New(gomock.Any()).Return(env.compiler, nil)
	env.compiler.EXPECT().Compile(gomock.Any(), "<todo></todo>", domain.CompileOptions{Compact: true}).Return("out", nil)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"todo.tag", "--compact"}, stdout, stderr, env.provider)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "todo.tag -> todo.js\n", stdout.String())
	assert.FileExists(t, filepath.Join(env.dir, "todo.js"))
}

func TestRun_JSONLogs(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "todo.tag"), []byte("<todo></todo>"), 0o600))

	env.loader.EXPECT().Load(env.dir, "").Return(&domain.Config{}, nil)
	env.compilers.EXPECT().New(gomock.Any()).Return(env.compiler, nil)
	env.compiler.EXPECT().Compile(gomock.Any(), "<todo></todo>", domain.CompileOptions{}).Return("out", nil)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"--json", "todo.tag"}, stdout, stderr, env.provider)
	assert.Equal(t, 0, exitCode)

	var record map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "todo.tag -> todo.js", record["msg"])
}

func TestRun_SourceNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.loader.EXPECT().Load(env.dir, "").Return(&domain.Config{}, nil)
	env.compilers.EXPECT().New(gomock.Any()).Return(env.compiler, nil)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"missing.tag"}, stdout, stderr, env.provider)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout.String(), domain.ErrSourceNotFound.Error())
	assert.Contains(t, stdout.String(), filepath.Join(env.dir, "missing.tag"))
}

func TestRun_ExecutionError(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "todo.tag"), []byte("<todo>"), 0o600))

	env.loader.EXPECT().Load(env.dir, "").Return(&domain.Config{}, nil)
	env.compilers.EXPECT().New(gomock.Any()).Return(env.compiler, nil)
	env.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return("", domain.ErrUnclosedTag)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"todo.tag"}, stdout, stderr, env.provider)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout.String(), "Error: ")
	assert.Contains(t, stdout.String(), domain.ErrUnclosedTag.Error())
	assert.NoFileExists(t, filepath.Join(env.dir, "todo.js"))
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"foo.tag"}, stdout, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_AppOptions(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "todo.tag"), []byte("<todo></todo>"), 0o600))

	override := mocks.NewMockCompiler(gomock.NewController(t))
	override.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return("override", nil)
	env.loader.EXPECT().Load(env.dir, "").Return(&domain.Config{}, nil)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"todo.tag"}, stdout, stderr, env.provider, func(a *app.App) {
		a.WithCompiler(override)
	})
	assert.Equal(t, 0, exitCode)

	data, err := os.ReadFile(filepath.Join(env.dir, "todo.js"))
	require.NoError(t, err)
	assert.Equal(t, "override", string(data))
}
