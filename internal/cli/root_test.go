package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/arbor/internal/outline"
)

const sprintYAML = `
title: Sprint
groups:
  - id: todo
    title: To do
    items:
      - id: a
        title: Alpha
        children:
          - id: a1
            title: Alpha one
      - id: b
        title: Beta
      - id: lock
        title: Frozen
        locked: true
  - id: done
    title: Done
    items:
      - id: c
        title: Gamma
`

const sprintText = `Sprint
[To do]
  - Alpha
    - Alpha one
  - Beta
  - Frozen (locked)
[Done]
  - Gamma
`

// With the board offset by 16 the "To do" list starts at y 38: a 38-60,
// a1 60-82, b 82-104, lock 104-126.
const moveBetaUp = `{"steps": [
  {"action": "press", "x": 66, "y": 93},
  {"action": "move", "x": 66, "y": 41},
  {"action": "release", "x": 66, "y": 41},
  {"action": "snapshot", "label": "after"}
]}`

const betaFirstText = `Sprint
[To do]
  - Beta
  - Alpha
    - Alpha one
  - Frozen (locked)
[Done]
  - Gamma
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"print", "view", "tui", "replay"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootVersion(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-01-02")
	t.Cleanup(func() { SetVersion("", "", "") })

	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "arbor 1.2.3")
	assert.Contains(t, out, "commit: abc123")
}

func TestRootBadConfig(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "print", doc)
	assert.ErrorContains(t, err, "read config")
}

func TestPrintText(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	out, _, err := execute(t, "print", doc)
	require.NoError(t, err)
	assert.Equal(t, sprintText, out)
}

func TestPrintTOML(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	out, _, err := execute(t, "print", doc, "--format", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, `title = "Sprint"`)

	back, err := outline.Decode(bytes.NewBufferString(out), "toml")
	require.NoError(t, err)
	assert.Equal(t, sprintText, back.String())
}

func TestPrintErrors(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)

	_, _, err := execute(t, "print", doc, "--format", "json")
	assert.ErrorIs(t, err, outline.ErrUnsupportedFormat)

	_, _, err = execute(t, "print", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "print")
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	script := writeFile(t, "script.json", moveBetaUp)
	outPath := filepath.Join(t.TempDir(), "out.toml")

	out, logs, err := execute(t, "replay", doc, script, "--out", outPath)
	require.NoError(t, err)
	assert.Equal(t, "== after\n"+betaFirstText+"== result\n"+betaFirstText, out)
	assert.Contains(t, logs, "replayed")
	assert.Contains(t, logs, "moved")

	saved, err := outline.Load(outPath)
	require.NoError(t, err)
	assert.Equal(t, betaFirstText, saved.String())

	orig, err := outline.Load(doc)
	require.NoError(t, err)
	assert.Equal(t, sprintText, orig.String(), "source is untouched without --out")
}

func TestReplayLockedItem(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	script := writeFile(t, "script.json", `{"steps": [
  {"action": "drag", "fromX": 66, "fromY": 115, "toX": 66, "toY": 41, "frames": 5}
]}`)

	out, _, err := execute(t, "replay", doc, script)
	require.NoError(t, err)
	assert.Equal(t, "== result\n"+sprintText, out)
}

func TestReplayMaxFrames(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	script := writeFile(t, "script.json", `{"steps": [{"action": "wait", "frames": 50}]}`)

	_, _, err := execute(t, "replay", doc, script, "--max-frames", "10")
	assert.ErrorContains(t, err, "not finished after 10 frames")
}

func TestReplayBadScript(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	script := writeFile(t, "script.json", `{"steps": [{"action": "fly"}]}`)

	_, _, err := execute(t, "replay", doc, script)
	assert.ErrorContains(t, err, "unknown action")

	_, _, err = execute(t, "replay", doc, filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "read script")
}

func TestReplayBadSelector(t *testing.T) {
	doc := writeFile(t, "sprint.yaml", sprintYAML)
	script := writeFile(t, "script.json", moveBetaUp)
	cfg := writeFile(t, "arbor.yaml", "sortable:\n  elements: \"li$\"\n")

	_, _, err := execute(t, "--config", cfg, "replay", doc, script)
	assert.ErrorContains(t, err, "sortable options")
}
