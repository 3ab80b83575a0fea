package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/statusboard/internal/model"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	s := NewFileStore(path)

	root := model.NewGroup("root")
	root.ID = "root"
	g := model.NewGroup("servers")
	g.ID = "servers"
	m := model.NewMonitor("api", model.KindHTTP, "https://example.com/healthz")
	m.ID = "api"
	m.Interval = 30
	m.Notify = false
	root.Attach(g)
	g.Attach(m)
	m.SetState(model.StateFailed)
	root.State = model.StateFailed
	root.Count = 1

	require.NoError(t, s.Save(root))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.Len(t, loaded.Children, 1)
	require.Len(t, loaded.Children[0].Children, 1)
	lm := loaded.Children[0].Children[0]
	assert.Equal(t, "api", lm.ID)
	assert.Equal(t, model.KindHTTP, lm.Kind)
	assert.Equal(t, "https://example.com/healthz", lm.Target)
	assert.Equal(t, 30, lm.Interval)
	assert.False(t, lm.Notify)

	// Runtime state is transient: it resets to None on reload.
	assert.Equal(t, model.StateNone, loaded.State)
	assert.Equal(t, 0, loaded.Count)
	assert.Equal(t, model.StateNone, lm.State)

	// Parent backlinks are restored.
	assert.Same(t, loaded, loaded.Children[0].Parent())
	assert.Same(t, loaded.Children[0], lm.Parent())
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"))
	root, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestFileStore_LoadAssignsMissingIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	doc := `
name: root
kind: group
aggregate: true
children:
  - name: api
    kind: http
    target: https://example.com
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	root, err := NewFileStore(path).Load()
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.NotEmpty(t, root.ID)
	require.Len(t, root.Children, 1)
	assert.NotEmpty(t, root.Children[0].ID)
}

func TestFileStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestFileStore_SaveNil(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tree.yaml"))
	assert.ErrorIs(t, s.Save(nil), ErrNilTree)
}
