package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string, words int) Document {
	return Document{ID: id, Name: id + ".txt", WordCount: words}
}

func TestAssign_PairsSmallDocuments(t *testing.T) {
	groups := Assign([]Document{doc("A", 50), doc("B", 80), doc("C", 30)}, 100)

	require.Len(t, groups, 2)
	assert.Equal(t, "combined_A_B", groups[0].Name)
	require.Len(t, groups[0].Documents, 2)
	assert.Equal(t, "A", groups[0].Documents[0].ID)
	assert.Equal(t, "B", groups[0].Documents[1].ID)

	assert.Equal(t, "C", groups[1].Name)
	require.Len(t, groups[1].Documents, 1)
}

func TestAssign_LargeDocumentsAreSingletons(t *testing.T) {
	groups := Assign([]Document{doc("big", 1500), doc("small", 10)}, 1000)

	require.Len(t, groups, 2)
	assert.Equal(t, "big", groups[0].Name)
	assert.Equal(t, "small", groups[1].Name)
}

func TestAssign_ThresholdIsInclusive(t *testing.T) {
	groups := Assign([]Document{doc("exact", 1000)}, 1000)

	require.Len(t, groups, 1)
	assert.Equal(t, "exact", groups[0].Name)
}

func TestAssign_PreservesDiscoveryOrder(t *testing.T) {
	groups := Assign([]Document{
		doc("z", 10), doc("a", 10), doc("m", 10), doc("b", 10),
	}, 100)

	require.Len(t, groups, 2)
	assert.Equal(t, "combined_z_a", groups[0].Name)
	assert.Equal(t, "combined_m_b", groups[1].Name)
}

func TestAssign_PartitionCompleteness(t *testing.T) {
	input := []Document{
		doc("a", 2000), doc("b", 5), doc("c", 999), doc("d", 1000), doc("e", 1),
	}
	groups := Assign(input, 1000)

	seen := map[string]int{}
	for _, g := range groups {
		for _, d := range g.Documents {
			seen[d.ID]++
		}
	}
	require.Len(t, seen, len(input))
	for _, d := range input {
		assert.Equal(t, 1, seen[d.ID], "document %s", d.ID)
	}
}

func TestAssign_Empty(t *testing.T) {
	assert.Empty(t, Assign(nil, 1000))
}
