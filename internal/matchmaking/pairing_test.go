package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id uint, size int) *QueueEntry {
	return &QueueEntry{ID: id, Size: size, TeamSize: 4, PlatformMode: "mobile", GameplayMode: "battle_royale"}
}

func teamIDs(entries []*QueueEntry) []uint {
	ids := []uint{}
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestFormPairingsSolos(t *testing.T) {
	var entries []*QueueEntry
	for i := uint(1); i <= 5; i++ {
		entries = append(entries, entry(i, 1))
	}
	prs := formPairings(entries, 2)
	require.Len(t, prs, 1)
	assert.Equal(t, []uint{1, 2}, teamIDs(prs[0].teams[0]))
	assert.Equal(t, []uint{3, 4}, teamIDs(prs[0].teams[1]))
}

func TestFormPairingsMixesLobbiesAndSolos(t *testing.T) {
	entries := []*QueueEntry{entry(1, 3), entry(2, 2), entry(3, 1), entry(4, 2), entry(5, 1)}
	prs := formPairings(entries, 4)
	require.Len(t, prs, 1)
	assert.Equal(t, []uint{1, 3}, teamIDs(prs[0].teams[0]))
	assert.Equal(t, []uint{2, 4}, teamIDs(prs[0].teams[1]))
	assert.ElementsMatch(t, []uint{1, 3, 2, 4}, prs[0].entryIDs())
}

func TestFormPairingsNeedsTwoFullTeams(t *testing.T) {
	assert.Empty(t, formPairings([]*QueueEntry{entry(1, 4), entry(2, 3)}, 4))
	assert.Empty(t, formPairings([]*QueueEntry{entry(1, 1)}, 1))
	assert.Empty(t, formPairings(nil, 2))
	// oversize entries are ignored
	assert.Empty(t, formPairings([]*QueueEntry{entry(1, 5), entry(2, 5)}, 4))
}

func TestFormPairingsSeveralMatches(t *testing.T) {
	var entries []*QueueEntry
	for i := uint(1); i <= 8; i++ {
		entries = append(entries, entry(i, 1))
	}
	prs := formPairings(entries, 1)
	require.Len(t, prs, 4)
	assert.Equal(t, []uint{7}, teamIDs(prs[3].teams[0]))
	assert.Equal(t, []uint{8}, teamIDs(prs[3].teams[1]))
}

func TestBucketizeKeepsQueueOrder(t *testing.T) {
	entries := []QueueEntry{
		{ID: 1, TeamSize: 2, PlatformMode: "mobile", GameplayMode: "battle_royale"},
		{ID: 2, TeamSize: 4, PlatformMode: "mobile", GameplayMode: "battle_royale"},
		{ID: 3, TeamSize: 2, PlatformMode: "mobile", GameplayMode: "battle_royale"},
		{ID: 4, TeamSize: 2, PlatformMode: "emulator", GameplayMode: "battle_royale"},
	}
	buckets := bucketize(entries)
	require.Len(t, buckets, 3)
	assert.Equal(t, []uint{1, 3}, teamIDs(buckets[0]))
	assert.Equal(t, []uint{2}, teamIDs(buckets[1]))
	assert.Equal(t, []uint{4}, teamIDs(buckets[2]))
}

func TestFormPairingsSkipsEntryThatCannotFit(t *testing.T) {
	entries := []*QueueEntry{entry(1, 1), entry(2, 2), entry(3, 2)}
	prs := formPairings(entries, 2)
	require.Len(t, prs, 1)
	assert.Equal(t, []uint{2}, teamIDs(prs[0].teams[0]))
	assert.Equal(t, []uint{3}, teamIDs(prs[0].teams[1]))
}

func TestFormPairingsSkipsTriosWithoutFillers(t *testing.T) {
	entries := []*QueueEntry{entry(1, 3), entry(2, 3), entry(3, 2), entry(4, 2), entry(5, 2), entry(6, 2)}
	prs := formPairings(entries, 4)
	require.Len(t, prs, 1)
	assert.Equal(t, []uint{3, 4}, teamIDs(prs[0].teams[0]))
	assert.Equal(t, []uint{5, 6}, teamIDs(prs[0].teams[1]))
}

func TestFormPairingsPrefersOlderEntries(t *testing.T) {
	entries := []*QueueEntry{entry(1, 2), entry(2, 1), entry(3, 2), entry(4, 1), entry(5, 1)}
	prs := formPairings(entries, 2)
	require.Len(t, prs, 1)
	assert.Equal(t, []uint{1}, teamIDs(prs[0].teams[0]))
	assert.Equal(t, []uint{2, 4}, teamIDs(prs[0].teams[1]))
}
