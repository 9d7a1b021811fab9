package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzarakhq/bpsr-uza-modules/internal/config"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

func TestCategoryMapping(t *testing.T) {
	cases := []struct {
		in   string
		want types.ModuleCategory
	}{
		{"Attack", types.CategoryAttack},
		{"Guard", types.CategoryGuard},
		{"Support", types.CategorySupport},
		{"All", types.CategoryUnknown},
		{"", types.CategoryUnknown},
	}

	for _, c := range cases {
		got, err := category(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestCategoryRejectsUnknownValue(t *testing.T) {
	_, err := category("Nonsense")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateRejectsTooManyPrioritizedAttrs(t *testing.T) {
	req := ScreenRequest{
		Category:         "All",
		PrioritizedAttrs: []string{"Armor", "Resistance", "Strength", "Agility", "Intellect", "Max HP", "Max MP"},
	}

	err := validate(req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateRejectsUnknownPrioritizedAttr(t *testing.T) {
	req := ScreenRequest{Category: "Attack", PrioritizedAttrs: []string{"Not A Real Attribute"}}

	err := validate(req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := ScreenRequest{Category: "Support", PrioritizedAttrs: []string{"Healing Boost", "Healing Enhance"}}
	assert.NoError(t, validate(req))
}

func TestBusHasCapturedDataReflectsAggregator(t *testing.T) {
	b := New(config.Default())
	assert.False(t, b.HasCapturedData())

	b.agg.Add([]types.ModuleInfo{{UUID: 1, ConfigID: 5500103}})
	assert.True(t, b.HasCapturedData())
}

func TestRescreenModulesRejectsWithoutCapturedData(t *testing.T) {
	b := New(config.Default())

	err := b.RescreenModules(ScreenRequest{Category: "All"})
	assert.ErrorIs(t, err, ErrNoCapturedData)
}

func TestRescreenModulesRejectsInvalidRequestBeforeCapturedDataCheck(t *testing.T) {
	b := New(config.Default())

	err := b.RescreenModules(ScreenRequest{Category: "Bogus"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStopMonitoringOnIdleBusIsNoop(t *testing.T) {
	b := New(config.Default())
	assert.NotPanics(t, func() { b.StopMonitoring() })
}
