package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeS1HappyPath is spec.md §8 S1: a single module,
// configId=5500103, uuid=42, quality=5, parts Strength Boost/Special
// Attack with initLinkNums=[8,4]. The wire ids come from this
// package's own attribute-id table via AttrIDForName rather than
// spec.md's illustrative 1110/1113, which this table assigns to other
// attributes (see DESIGN.md).
func TestDecodeS1HappyPath(t *testing.T) {
	strengthBoostID, _ := AttrIDForName("Strength Boost")
	specialAttackID, _ := AttrIDForName("Special Attack")

	raw := EncodeCharSerialize([]FixtureItem{
		{
			ItemKey:      "item-1",
			ConfigID:     5500103,
			UUID:         42,
			Quality:      5,
			ModParts:     []uint32{strengthBoostID, specialAttackID},
			InitLinkNums: []uint8{8, 4},
		},
	})

	wrapped := EncodeWrapped(raw)

	mods, err := Decode(wrapped)
	require.NoError(t, err)
	require.Len(t, mods, 1)

	m := mods[0]
	assert.Equal(t, "Legendary Attack", m.Name)
	assert.Equal(t, uint64(42), m.UUID)
	assert.Equal(t, uint8(5), m.Quality)
	require.Len(t, m.Parts, 2)
	assert.Equal(t, "Strength Boost", m.Parts[0].AttrName)
	assert.Equal(t, uint8(8), m.Parts[0].Value)
	assert.Equal(t, "Special Attack", m.Parts[1].AttrName)
	assert.Equal(t, uint8(4), m.Parts[1].Value)
}

func TestDecodeDirectPathWithoutWrapper(t *testing.T) {
	strengthBoostID, _ := AttrIDForName("Armor")

	raw := EncodeCharSerialize([]FixtureItem{
		{ItemKey: "k", ConfigID: 5500104, UUID: 7, Quality: 3, ModParts: []uint32{strengthBoostID}, InitLinkNums: []uint8{6}},
	})

	mods, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "Legendary Guard", mods[0].Name)
}

func TestDecodeEmptyExtractionReturnsError(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ErrNoModulesFound)
}

func TestDecodeMissingModPartsSkipsItem(t *testing.T) {
	raw := EncodeCharSerialize([]FixtureItem{
		{ItemKey: "k", ConfigID: 5500105, UUID: 9, Quality: 4, ModParts: nil},
	})

	_, err := Decode(raw)
	assert.ErrorIs(t, err, ErrNoModulesFound)
}

func TestDecodeDefaultsLinkValueWhenInitLinkNumsMissing(t *testing.T) {
	armorID, _ := AttrIDForName("Armor")

	raw := EncodeCharSerialize([]FixtureItem{
		{ItemKey: "k", ConfigID: 5500103, UUID: 1, Quality: 1, ModParts: []uint32{armorID}},
	})

	mods, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, uint8(1), mods[0].Parts[0].Value)
}
