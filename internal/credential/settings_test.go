package credential

import (
	"testing"

	"github.com/longkey1/zenx/internal/zenx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	store := NewMemoryStore("")
	notes := &zenx.Recorder{}

	require.NoError(t, Save(store, notes, " k1 "))

	v, _ := store.Get()
	assert.Equal(t, "k1", v)
	require.Len(t, notes.All(), 1)
	assert.Equal(t, zenx.NotifySuccess, notes.All()[0].Kind)
	assert.Equal(t, "API key saved successfully!", notes.All()[0].Description)
}

func TestSaveBlank(t *testing.T) {
	store := NewMemoryStore("old")
	notes := &zenx.Recorder{}

	err := Save(store, notes, "  ")

	assert.ErrorIs(t, err, ErrEmptyCredential)
	v, _ := store.Get()
	assert.Equal(t, "old", v)
	require.Len(t, notes.All(), 1)
	assert.Equal(t, "Please enter a valid API key", notes.All()[0].Description)
}

func TestRemove(t *testing.T) {
	store := NewMemoryStore("k1")
	notes := &zenx.Recorder{}

	require.NoError(t, Remove(store, notes))

	assert.False(t, Present(store))
	require.Len(t, notes.All(), 1)
	assert.Equal(t, "Cleared", notes.All()[0].Title)
}
