//go:build e2e
// +build e2e

package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam16vis/go-replay-inspector/internal/testing/e2e"
	"github.com/sam16vis/go-replay-inspector/internal/testing/fixtures"
)

var (
	buildOnce  sync.Once
	buildErr   error
	binaryPath string
)

// inspectorBinary builds the module binary once per test run and returns
// its path. The build directory must outlive individual tests, so it is
// not a t.TempDir.
func inspectorBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := filepath.Abs("..")
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "replay-inspector-e2e-")
		if err != nil {
			buildErr = err
			return
		}
		binaryPath = filepath.Join(binDir, "go-replay-inspector")

		build := exec.Command("go", "build", "-o", binaryPath, ".")
		build.Dir = moduleRoot
		if output, err := build.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build failed: %w\n%s", err, output)
		}
	})

	require.NoError(t, buildErr)
	return binaryPath
}

// generateE2EReplay writes a small replay and returns its directory.
func generateE2EReplay(t *testing.T, name string) string {
	t.Helper()

	gen := fixtures.NewSegmentGenerator(t.TempDir())
	start := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, gen.GenerateSimpleReplay(name, start))
	return gen.ReplayDir(name)
}

func startInspectSession(t *testing.T, replayDir string, extraArgs ...string) *e2e.InspectorSession {
	t.Helper()

	args := append([]string{"inspect", replayDir}, extraArgs...)
	session, err := e2e.StartInspector(e2e.InspectorConfig{
		BinaryPath: inspectorBinary(t),
		Args:       args,
		Width:      120,
		Height:     30,
		Env:        []string{fmt.Sprintf("HOME=%s", t.TempDir())},
	})
	require.NoError(t, err, "failed to start inspector session")
	return session
}

func TestInspectE2EStartsAndQuits(t *testing.T) {
	replayDir := generateE2EReplay(t, "checkout-flow")

	session := startInspectSession(t, replayDir)
	defer session.Kill()

	require.NoError(t, session.WaitFor("Replay Inspector", 10*time.Second))
	require.NoError(t, session.WaitFor("checkout-flow", 10*time.Second))
	require.NoError(t, session.WaitFor("api.example.com/v1/cart", 10*time.Second))

	require.NoError(t, session.Send("q"))
	require.NoError(t, session.WaitForExit(5*time.Second))

	// A clean shutdown restores the normal screen buffer.
	assert.False(t, session.Screen().InAlternateScreen())
}

func TestInspectE2EHelpOverlay(t *testing.T) {
	replayDir := generateE2EReplay(t, "checkout-flow")

	session := startInspectSession(t, replayDir)
	defer session.Kill()

	require.NoError(t, session.WaitFor("api.example.com/v1/cart", 10*time.Second))

	require.NoError(t, session.Send("h"))
	require.NoError(t, session.WaitFor("Replay Inspector Help", 5*time.Second))

	// Any key returns to the grid.
	require.NoError(t, session.Send(e2e.KeySpace))
	require.NoError(t, session.WaitFor("api.example.com/v1/cart", 5*time.Second))

	require.NoError(t, session.Quit())
}

func TestInspectE2EDetailPane(t *testing.T) {
	replayDir := generateE2EReplay(t, "checkout-flow")

	session := startInspectSession(t, replayDir)
	defer session.Kill()

	require.NoError(t, session.WaitFor("api.example.com/v1/cart", 10*time.Second))

	require.NoError(t, session.Send(e2e.KeyEnter))
	require.NoError(t, session.WaitFor("Request Detail", 5*time.Second))

	require.NoError(t, session.Send(e2e.KeyEsc))
	require.NoError(t, session.WaitFor("api.example.com/v1/cart", 5*time.Second))

	require.NoError(t, session.Quit())
}

func TestInspectE2ESearchFilter(t *testing.T) {
	replayDir := generateE2EReplay(t, "checkout-flow")

	session := startInspectSession(t, replayDir)
	defer session.Kill()

	require.NoError(t, session.WaitFor("api.example.com/v1/cart", 10*time.Second))

	require.NoError(t, session.Send("/"))
	require.NoError(t, session.Send("payment"))
	require.NoError(t, session.Send(e2e.KeyEnter))

	require.NoError(t, session.WaitFor("api.example.com/v1/payment", 5*time.Second))

	// The cart request no longer matches the committed filter.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && session.Screen().Contains("/v1/cart") {
		time.Sleep(100 * time.Millisecond)
	}
	assert.False(t, session.Screen().Contains("/v1/cart"))

	require.NoError(t, session.Quit())
}

func TestInspectE2EEmptyReplay(t *testing.T) {
	gen := fixtures.NewSegmentGenerator(t.TempDir())
	require.NoError(t, gen.CreateEmptyReplay("empty-session"))

	session := startInspectSession(t, gen.ReplayDir("empty-session"))
	defer session.Kill()

	require.NoError(t, session.WaitFor("No network requests recorded", 10*time.Second))
	require.NoError(t, session.Quit())
}

func TestReportE2EJSONOutput(t *testing.T) {
	replayDir := generateE2EReplay(t, "checkout-flow")

	cmd := exec.Command(inspectorBinary(t), replayDir, "--output", "json")
	cmd.Env = append(os.Environ(), fmt.Sprintf("HOME=%s", t.TempDir()))

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "report run failed: %s", output)

	assert.Contains(t, string(output), `"Replay": "checkout-flow"`)
	assert.Contains(t, string(output), `"GroupBy": "host"`)
}
