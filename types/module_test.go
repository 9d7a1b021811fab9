package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func solutionFixture() ModuleSolution {
	return ModuleSolution{
		Modules: [4]ModuleInfo{
			{UUID: 30, ConfigID: 5500103, Parts: []ModulePart{{AttrName: "Strength Boost", Value: 4}}},
			{UUID: 10, ConfigID: 5500104, Parts: []ModulePart{{AttrName: "Armor", Value: 6}}},
			{UUID: 20, ConfigID: 5500105, Parts: []ModulePart{{AttrName: "Strength Boost", Value: 3}}},
			{UUID: 40, ConfigID: 5500203, Parts: []ModulePart{{AttrName: "Healing Boost", Value: 2}}},
		},
	}
}

func TestCanonicalizeSortsByUUIDAscending(t *testing.T) {
	s := solutionFixture()
	s.Canonicalize()

	got := s.UUIDs()
	assert.Equal(t, [4]uint64{10, 20, 30, 40}, got)
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	s := solutionFixture()
	s.Canonicalize()
	first := s.UUIDs()
	firstBreakdown := s.AttrBreakdown["Strength Boost"]

	s.Canonicalize()
	assert.Equal(t, first, s.UUIDs())
	assert.Equal(t, firstBreakdown, s.AttrBreakdown["Strength Boost"])
}

func TestCanonicalizeAggregatesAttrBreakdown(t *testing.T) {
	s := solutionFixture()
	s.Canonicalize()

	assert.Equal(t, 7, s.AttrBreakdown["Strength Boost"])
	assert.Equal(t, 6, s.AttrBreakdown["Armor"])
	assert.Equal(t, 2, s.AttrBreakdown["Healing Boost"])
}

func TestHasDistinctUUIDs(t *testing.T) {
	s := solutionFixture()
	assert.True(t, s.HasDistinctUUIDs())

	s.Modules[1].UUID = s.Modules[0].UUID
	assert.False(t, s.HasDistinctUUIDs())
}

func TestSignatureKeyStableAcrossModuleOrder(t *testing.T) {
	a := solutionFixture()
	a.Canonicalize()

	b := a
	b.Modules[0], b.Modules[3] = b.Modules[3], b.Modules[0]
	b.Canonicalize()

	assert.Equal(t, a.SignatureKey(), b.SignatureKey())
}

func TestSignatureKeyDiffersOnDifferentLevels(t *testing.T) {
	a := solutionFixture()
	a.Canonicalize()

	b := solutionFixture()
	b.Modules[0].Parts[0].Value = 20
	b.Canonicalize()

	assert.NotEqual(t, a.SignatureKey(), b.SignatureKey())
}

func TestLevelBuckets(t *testing.T) {
	cases := []struct {
		v    int
		want int
	}{
		{0, 0}, {1, 1}, {3, 1}, {4, 2}, {7, 2}, {8, 3}, {11, 3},
		{12, 4}, {15, 4}, {16, 5}, {19, 5}, {20, 6}, {99, 6},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Level(c.v), "Level(%d)", c.v)
	}
}

func TestCategoryForConfigIDKnownAndUnknown(t *testing.T) {
	assert.Equal(t, CategoryAttack, CategoryForConfigID(5500103))
	assert.Equal(t, CategoryGuard, CategoryForConfigID(5500204))
	assert.Equal(t, CategoryUnknown, CategoryForConfigID(9999999))
}

func TestNameForConfigIDFallsBackToModuleTemplate(t *testing.T) {
	assert.Equal(t, "Legendary Attack", NameForConfigID(5500103))
	assert.Equal(t, "Module(123456)", NameForConfigID(123456))
}

func TestAllAttrNamesContainsBasicAndSpecial(t *testing.T) {
	all := AllAttrNames()
	assert.Len(t, all, len(BasicAttrNames)+len(SpecialAttrNames))
	assert.True(t, IsSpecialAttr("Special Attack"))
	assert.False(t, IsSpecialAttr("Armor"))
}
