package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trolley/internal/domain"
)

func sampleSnapshot() *domain.PriceSnapshot {
	return &domain.PriceSnapshot{
		ProductName: "Milk",
		StoreName:   "Netto",
		Price:       "2.50",
	}
}

func TestSnapshotStoreMemoryOnly(t *testing.T) {
	s, err := NewSnapshotStore("", "", 10*time.Minute)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.GetSnapshot("p1", "s1")
	assert.False(t, ok)

	require.NoError(t, s.SaveSnapshot("p1", "s1", sampleSnapshot()))
	got, ok := s.GetSnapshot("p1", "s1")
	require.True(t, ok)
	assert.Equal(t, "Milk", got.ProductName)
}

func TestSnapshotStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewSnapshotStore(dir, "https://prices.example.test", 10*time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.SaveSnapshot("p1", "s1", sampleSnapshot()))
	require.NoError(t, s.Close())

	reopened, err := NewSnapshotStore(dir, "https://prices.example.test", 10*time.Minute)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.GetSnapshot("p1", "s1")
	require.True(t, ok)
	assert.Equal(t, "2.50", got.Price)
}

func TestSnapshotStoreNamespacesByServer(t *testing.T) {
	dir := t.TempDir()

	a, err := NewSnapshotStore(dir, "https://a.example.test", 10*time.Minute)
	require.NoError(t, err)
	require.NoError(t, a.SaveSnapshot("p1", "s1", sampleSnapshot()))
	require.NoError(t, a.Close())

	b, err := NewSnapshotStore(dir, "https://b.example.test", 10*time.Minute)
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.GetSnapshot("p1", "s1")
	assert.False(t, ok, "servers must not share cached snapshots")
}

func TestSnapshotStoreExpiresEntries(t *testing.T) {
	s, err := NewSnapshotStore("", "", time.Millisecond)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSnapshot("p1", "s1", sampleSnapshot()))
	time.Sleep(20 * time.Millisecond)

	_, ok := s.GetSnapshot("p1", "s1")
	assert.False(t, ok, "entries past their TTL must miss")
}

func TestSnapshotStoreIgnoresNilSnapshot(t *testing.T) {
	s, err := NewSnapshotStore("", "", 10*time.Minute)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSnapshot("p1", "s1", nil))
	_, ok := s.GetSnapshot("p1", "s1")
	assert.False(t, ok)
}

func TestHashServerURLNormalizes(t *testing.T) {
	assert.Equal(t,
		hashServerURL("https://Prices.Example.Test/"),
		hashServerURL("https://prices.example.test"))
	assert.NotEqual(t,
		hashServerURL("https://a.example.test"),
		hashServerURL("https://b.example.test"))
}
