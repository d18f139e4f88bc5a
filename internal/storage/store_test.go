package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadAbsentKey(t *testing.T) {
	s := openTemp(t)

	var out []doc
	found, err := s.Load(KeyProducts, &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
}

func TestSaveAndLoad(t *testing.T) {
	s := openTemp(t)
	in := []doc{{Name: "a", Price: 1.5}, {Name: "b", Price: 0}}
	require.NoError(t, s.Save(KeyProducts, in))

	var out []doc
	found, err := s.Load(KeyProducts, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestLoadCorruptDocument(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.PutRaw(KeyBanners, []byte("{broken")))

	var out []doc
	found, err := s.Load(KeyBanners, &out)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestNullDocumentIsAbsent(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.PutRaw(KeySettings, []byte(" null ")))

	var out doc
	found, err := s.Load(KeySettings, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteAndDropAll(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Save(KeyProducts, []doc{{Name: "a"}}))
	require.NoError(t, s.Save(KeyCategories, []doc{{Name: "c"}}))

	require.NoError(t, s.Delete(KeyProducts))
	var out []doc
	found, err := s.Load(KeyProducts, &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.DropAll())
	found, err = s.Load(KeyCategories, &out)
	require.NoError(t, err)
	assert.False(t, found)
}
