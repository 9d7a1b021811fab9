package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

func mod(uuid uint64, name string) types.ModuleInfo {
	return types.ModuleInfo{Name: name, ConfigID: 5500103, UUID: uuid, Quality: 3}
}

func TestAggregatorAddDedupsByUUID(t *testing.T) {
	a := New()

	added := a.Add([]types.ModuleInfo{mod(1, "a"), mod(2, "b"), mod(1, "a-dup")})
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, a.Len())

	added = a.Add([]types.ModuleInfo{mod(2, "b-dup"), mod(3, "c")})
	assert.Equal(t, 1, added)
	assert.Equal(t, 3, a.Len())
}

func TestAggregatorAddEmptyBatchIsNoop(t *testing.T) {
	a := New()
	assert.Equal(t, 0, a.Add(nil))
	assert.Equal(t, 0, a.Len())
}

func TestAggregatorSnapshotPreservesInsertionOrder(t *testing.T) {
	a := New()
	a.Add([]types.ModuleInfo{mod(3, "c"), mod(1, "a"), mod(2, "b")})

	snap := a.Snapshot()
	want := []uint64{3, 1, 2}
	for i, m := range snap {
		assert.Equal(t, want[i], m.UUID)
	}
}

func TestAggregatorSnapshotIsIndependentCopy(t *testing.T) {
	a := New()
	a.Add([]types.ModuleInfo{mod(1, "a")})

	snap := a.Snapshot()
	snap[0].Name = "mutated"

	again := a.Snapshot()
	assert.Equal(t, "a", again[0].Name)
}

func TestAggregatorClearResetsState(t *testing.T) {
	a := New()
	a.Add([]types.ModuleInfo{mod(1, "a"), mod(2, "b")})
	assert.Equal(t, 2, a.Len())

	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Snapshot())

	added := a.Add([]types.ModuleInfo{mod(1, "a-again")})
	assert.Equal(t, 1, added)
}
