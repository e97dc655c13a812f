package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	linkErr      error
	installExit  int
	simStdout    string
	simStderr    string
	simExit      int
	simErr       error
}

func (f *fakeRunner) LinkDeps(dir string) error { return f.linkErr }
func (f *fakeRunner) Install(ctx context.Context, dir string) (int, string, error) {
	return f.installExit, "", nil
}
func (f *fakeRunner) Simulate(ctx context.Context, dir string, env []string) (string, string, int, error) {
	return f.simStdout, f.simStderr, f.simExit, f.simErr
}

func testConfig() Config {
	return Config{
		MaxConcurrent:     3,
		DepInstallTimeout: time.Second,
		SimulatorTimeout:  time.Second,
		StdoutCapBytes:    1024,
		StderrCapBytes:    1024,
	}
}

func TestSandbox_HappyPath(t *testing.T) {
	runner := &fakeRunner{
		simStdout: "[TRIGGER] Cron fired\n[HTTP] GET https://api.test/x -> 200 duration: 150ms\n",
	}
	sb := New(runner, testConfig())

	result, err := sb.Run(context.Background(), Input{Code: "export function main() {}", ConfigJSON: "{}"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Steps, 2)
	assert.Empty(t, result.Errors)
}

func TestSandbox_NonZeroExitFails(t *testing.T) {
	runner := &fakeRunner{simStdout: "[TRIGGER] fired\n", simExit: 1}
	sb := New(runner, testConfig())

	result, err := sb.Run(context.Background(), Input{Code: "x", ConfigJSON: "{}"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
}

func TestSandbox_CLINotFoundSurfacesAsError(t *testing.T) {
	runner := &fakeRunner{simErr: ErrCLINotFound}
	sb := New(runner, testConfig())

	_, err := sb.Run(context.Background(), Input{Code: "x", ConfigJSON: "{}"})

	require.ErrorIs(t, err, ErrCLINotFound)
}

func TestSandbox_DepLinkFallsBackToInstall(t *testing.T) {
	runner := &fakeRunner{
		linkErr:     assertError("link failed"),
		installExit: 0,
		simStdout:   "[TRIGGER] fired\n",
	}
	sb := New(runner, testConfig())

	result, err := sb.Run(context.Background(), Input{Code: "x", ConfigJSON: "{}"})

	require.NoError(t, err)
	assert.True(t, result.Success)
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func assertError(msg string) error { return simpleErr(msg) }
