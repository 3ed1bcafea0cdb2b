package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weiboscraper/pkg/models"
)

func TestSaveAndLoad(t *testing.T) {
	mgr, err := NewManagerInDir(t.TempDir(), "疫苗")
	require.NoError(t, err)
	assert.False(t, mgr.Exists())

	cp := &Checkpoint{
		Keyword:          "疫苗",
		LastPage:         7,
		ConsecutiveEmpty: 1,
		Records: []models.PostRecord{
			{Bid: "AAA", Text: "第一条"},
			{Bid: "BBB", Text: "第二条"},
		},
	}
	require.NoError(t, mgr.Save(cp))
	assert.True(t, mgr.Exists())

	// Save stamps the bookkeeping fields.
	assert.False(t, cp.CreatedAt.IsZero())
	assert.False(t, cp.UpdatedAt.IsZero())
	assert.Equal(t, 1, cp.Version)

	loaded, err := mgr.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "疫苗", loaded.Keyword)
	assert.Equal(t, 7, loaded.LastPage)
	assert.Equal(t, 1, loaded.ConsecutiveEmpty)
	require.Len(t, loaded.Records, 2)
	assert.Equal(t, "AAA", loaded.Records[0].Bid)
}

func TestLoadMissingIsNotAnError(t *testing.T) {
	mgr, err := NewManagerInDir(t.TempDir(), "疫苗")
	require.NoError(t, err)

	loaded, err := mgr.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDelete(t *testing.T) {
	mgr, err := NewManagerInDir(t.TempDir(), "疫苗")
	require.NoError(t, err)

	require.NoError(t, mgr.Save(&Checkpoint{Keyword: "疫苗"}))
	require.True(t, mgr.Exists())

	require.NoError(t, mgr.Delete())
	assert.False(t, mgr.Exists())

	// Deleting a missing checkpoint is fine.
	require.NoError(t, mgr.Delete())
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManagerInDir(dir, "疫苗")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(mgr.Path(), []byte("{not json"), 0644))
	_, err = mgr.Load()
	require.Error(t, err)
}

func TestKeywordsGetSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := NewManagerInDir(dir, "疫苗")
	require.NoError(t, err)
	b, err := NewManagerInDir(dir, "台风")
	require.NoError(t, err)

	assert.NotEqual(t, a.Path(), b.Path())
	assert.Equal(t, dir, filepath.Dir(a.Path()))
}
