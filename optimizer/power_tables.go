package optimizer

import "github.com/uzarakhq/bpsr-uza-modules/types"

// Per-attribute combat-power tables, keyed by the bucketed level
// (types.Level, 1..6) of that attribute's summed value across a
// solution's four modules (spec.md §4.11 "Score"). Basic and special
// attributes use separate tables since special attributes are scarcer
// and worth proportionally more.
var (
	basicAttrPower = map[int]int{
		1: 7,
		2: 14,
		3: 29,
		4: 44,
		5: 167,
		6: 254,
	}

	specialAttrPower = map[int]int{
		1: 14,
		2: 29,
		3: 59,
		4: 89,
		5: 298,
		6: 448,
	}
)

// totalAttrPowerTable is the global bonus keyed by a solution's total
// attribute value (sum of every AttrBreakdown entry). Spec.md §4.11
// leaves this table's contents unspecified ("table supplied"); this
// one is a standalone open-question resolution — see DESIGN.md — and
// is deliberately sparse: values at intermediate totals contribute 0,
// same as missing keys above its highest entry.
var totalAttrPowerTable = map[int]int{
	0:   0,
	20:  10,
	40:  50,
	60:  150,
	80:  350,
	100: 700,
	120: 1200,
	140: 2000,
	160: 3000,
	180: 4500,
	200: 6500,
}

// AttrPower returns the per-attribute combat-power contribution of one
// attribute's summed value.
func AttrPower(attrName string, value int) int {
	lvl := types.Level(value)
	if lvl == 0 {
		return 0
	}

	if types.IsSpecialAttr(attrName) {
		return specialAttrPower[lvl]
	}

	return basicAttrPower[lvl]
}

// TotalAttrPower returns the global bonus for a solution's total
// attribute value, or 0 if total isn't an exact key in the table.
func TotalAttrPower(total int) int {
	return totalAttrPowerTable[total]
}
