package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// harness runs arbor commands against private config and data directories.
type harness struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	base := t.TempDir()
	t.Setenv("ARBOR_LEAF_LABEL", "")
	t.Setenv("ARBOR_LOG_LEVEL", "")
	t.Setenv("ARBOR_BACKEND", "")
	return &harness{
		t:         t,
		configDir: filepath.Join(base, "config"),
		dataDir:   filepath.Join(base, "data"),
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config-dir", h.configDir, "--data-dir", h.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "arbor %s", strings.Join(args, " "))
	return out
}

// lastField returns the final whitespace-separated field, where commands
// print new IDs.
func lastField(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

func TestVersionCmd(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("version")
	assert.Contains(t, out, "arbor v")
	assert.Contains(t, out, modulePath)
}

func TestInitCmd(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("init")
	assert.Contains(t, out, "Arbor initialized in")

	for _, p := range []string{
		filepath.Join(h.configDir, "config.yaml"),
		filepath.Join(h.dataDir, "trees.jsonl"),
		filepath.Join(h.dataDir, "nodes.jsonl"),
	} {
		_, err := os.Stat(p)
		assert.NoError(t, err, "%s should exist", p)
	}

	// Idempotent.
	h.mustRun("init")
}

func TestBuildSampleTree(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "sample")

	b1 := lastField(h.mustRun("add", "sample", "--kind", "branch"))
	h.mustRun("add", "sample", "--parent", b1)
	h.mustRun("add", "sample", "--parent", b1, "--label", "Leaf")
	b2 := lastField(h.mustRun("add", "sample", "--kind", "branch"))
	h.mustRun("add", "sample", "--parent", b2)

	out := h.mustRun("show", "sample")
	assert.Equal(t, "Branch(Branch(Leaf+Leaf)+Branch(Leaf))\n", out)

	out = h.mustRun("show", "sample", "--node", b2)
	assert.Equal(t, "Branch(Leaf)\n", out)

	out = h.mustRun("render", "sample")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "branch Branch ["))
	assert.True(t, strings.HasPrefix(lines[2], "    leaf Leaf ["))
}

func TestEmptyTreeShowsEmptyBranch(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "empty")
	assert.Equal(t, "Branch()\n", h.mustRun("show", "empty"))
}

func TestAddUnderLeafFails(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "t")
	leaf := lastField(h.mustRun("add", "t"))

	_, err := h.run("add", "t", "--parent", leaf)
	assert.ErrorIs(t, err, types.ErrUnsupportedOperation)
	assert.Equal(t, exitUserError, exitCode(err))

	assert.Equal(t, "Branch(Leaf)\n", h.mustRun("show", "t"))
}

func TestAddErrors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "t")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "unknown kind", args: []string{"add", "t", "--kind", "twig"}, wantErr: types.ErrInvalidKind},
		{name: "unknown parent", args: []string{"add", "t", "--parent", "nope"}, wantErr: types.ErrNodeNotFound},
		{name: "unknown tree", args: []string{"add", "missing"}, wantErr: types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestMoveCmd(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "t")
	a := lastField(h.mustRun("add", "t", "--kind", "branch", "--label", "A"))
	inner := lastField(h.mustRun("add", "t", "--kind", "branch", "--label", "I", "--parent", a))
	b := lastField(h.mustRun("add", "t", "--kind", "branch", "--label", "B"))
	leaf := lastField(h.mustRun("add", "t", "--parent", a, "--label", "x"))
	require.Equal(t, "Branch(A(I()+x)+B())\n", h.mustRun("show", "t"))

	t.Run("into own subtree is a cycle", func(t *testing.T) {
		_, err := h.run("move", "t", a, "--to", inner)
		assert.ErrorIs(t, err, types.ErrCycleDetected)
		assert.Equal(t, "Branch(A(I()+x)+B())\n", h.mustRun("show", "t"))
	})

	t.Run("under a leaf is unsupported", func(t *testing.T) {
		_, err := h.run("move", "t", b, "--to", leaf)
		assert.ErrorIs(t, err, types.ErrUnsupportedOperation)
	})

	t.Run("valid move", func(t *testing.T) {
		h.mustRun("move", "t", leaf, "--to", b)
		assert.Equal(t, "Branch(A(I())+B(x))\n", h.mustRun("show", "t"))
	})
}

func TestPruneCmd(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "t")
	a := lastField(h.mustRun("add", "t", "--kind", "branch"))
	h.mustRun("add", "t", "--parent", a)
	h.mustRun("add", "t", "--parent", a)
	h.mustRun("add", "t", "--label", "keep")

	out := h.mustRun("prune", "t", a)
	assert.Contains(t, out, "Pruned 3 node(s)")
	assert.Equal(t, "Branch(keep)\n", h.mustRun("show", "t"))

	tree := h.showJSON("t")
	_, err := h.run("prune", "t", tree.RootID)
	assert.ErrorIs(t, err, types.ErrInvalidNode)
}

func (h *harness) showJSON(name string) treeJSON {
	h.t.Helper()
	var v treeJSON
	require.NoError(h.t, json.Unmarshal([]byte(h.mustRun("--json", "show", name)), &v))
	return v
}

func TestListAndDelete(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "No trees\n", h.mustRun("list"))

	id := lastField(h.mustRun("create", "one"))
	h.mustRun("create", "two")

	out := h.mustRun("list")
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")

	var infos []types.TreeInfo
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("--json", "list")), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, id, infos[0].TreeID)
	assert.Equal(t, 1, infos[0].NodeCount)

	h.mustRun("delete", "one")
	_, err := h.run("show", id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = h.run("delete", "one")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateDuplicateName(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "dup")
	_, err := h.run("create", "dup")
	assert.ErrorIs(t, err, types.ErrDuplicateName)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestShowJSON(t *testing.T) {
	h := newHarness(t)
	id := lastField(h.mustRun("create", "j"))
	h.mustRun("add", "j")

	v := h.showJSON("j")
	assert.Equal(t, id, v.TreeID)
	assert.Equal(t, "j", v.Name)
	assert.Equal(t, "Branch(Leaf)", v.Contribution)
	assert.Equal(t, 2, v.NodeCount)
}

func TestShowNodeJSON(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "j")
	b := lastField(h.mustRun("add", "j", "--kind", "branch"))
	h.mustRun("add", "j", "--parent", b)
	h.mustRun("add", "j", "--parent", b)
	root := h.showJSON("j").RootID

	var v nodeJSON
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("--json", "show", "j", "--node", b)), &v))
	assert.Equal(t, b, v.NodeID)
	assert.Equal(t, "branch", v.Kind)
	assert.Equal(t, root, v.ParentID)
	assert.Equal(t, 1, v.Depth)
	assert.Equal(t, "Branch(Leaf+Leaf)", v.Contribution)
	assert.Equal(t, 3, v.NodeCount)

	_, err := h.run("--json", "show", "j", "--node", "nope")
	assert.ErrorIs(t, err, types.ErrNodeNotFound)
}

func TestRenderJSONRoundTrips(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "r")
	b := lastField(h.mustRun("add", "r", "--kind", "branch"))
	h.mustRun("add", "r", "--parent", b)

	var records []types.Record
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("--json", "render", "r")), &records))
	require.Len(t, records, 3)

	root, err := types.Rebuild(records)
	require.NoError(t, err)
	assert.Equal(t, "Branch(Branch(Leaf))", root.Contribute())
}

func TestDemoCmd(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("demo")
	assert.Contains(t, out, "Branch(Branch(Leaf+Leaf)+Branch(Leaf))\n")
	assert.Contains(t, out, types.ErrUnsupportedOperation.Error())
}

func TestLeafLabelFromEnv(t *testing.T) {
	h := newHarness(t)
	t.Setenv("ARBOR_LEAF_LABEL", "Twig")
	out := h.mustRun("demo")
	assert.Contains(t, out, "Branch(Branch(Twig+Twig)+Branch(Twig))")
}

func TestLeafLabelFromConfigFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.configDir, 0o755))
	cfg := "backend: sqlite\nleaf_label: Bud\n"
	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, "config.yaml"), []byte(cfg), 0o644))

	h.mustRun("create", "c")
	h.mustRun("add", "c")
	assert.Equal(t, "Branch(Bud)\n", h.mustRun("show", "c"))
}

func TestUnknownBackendIsUserError(t *testing.T) {
	h := newHarness(t)
	t.Setenv("ARBOR_BACKEND", "postgres")
	_, err := h.run("list")
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(types.ErrCycleDetected))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitSysError, exitCode(sysErr(errors.New("disk full"))))
	assert.Equal(t, exitUserError, exitCode(sysErr(types.ErrNotFound)))
	assert.Nil(t, sysErr(nil))
}
