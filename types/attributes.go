package types

// Basic and special attribute names, spec.md §3: "fixed enumeration
// split into basic (13 names) and special (8 names)".
var (
	BasicAttrNames = []string{
		"Strength Boost",
		"Agility Boost",
		"Intellect Boost",
		"Attack SPD",
		"Cast Focus",
		"Crit Chance",
		"Crit Damage",
		"Resistance",
		"Armor",
		"Healing Boost",
		"Healing Enhance",
		"Max HP",
		"Max MP",
	}

	SpecialAttrNames = []string{
		"Strength",
		"Agility",
		"Intellect",
		"Special Attack",
		"Elite Strike",
		"Precision Strike",
		"Tenacity",
		"Vitality",
	}
)

// AllAttrNames returns the full 21-entry ordered attribute list
// (spec.md §6 listAttributes).
func AllAttrNames() []string {
	out := make([]string, 0, len(BasicAttrNames)+len(SpecialAttrNames))
	out = append(out, BasicAttrNames...)
	out = append(out, SpecialAttrNames...)

	return out
}

var specialAttrSet = func() map[string]bool {
	m := make(map[string]bool, len(SpecialAttrNames))
	for _, n := range SpecialAttrNames {
		m[n] = true
	}

	return m
}()

// IsSpecialAttr reports whether name is one of the 8 special attributes.
func IsSpecialAttr(name string) bool {
	return specialAttrSet[name]
}

// Category-preferred attribute sets, spec.md §4.10 "Category bonus".
var categoryPreferredAttrs = map[ModuleCategory][]string{
	CategoryAttack:  {"Strength", "Agility", "Intellect", "Special Attack", "Elite Strike"},
	CategoryGuard:   {"Resistance", "Armor"},
	CategorySupport: {"Healing Boost", "Healing Enhance"},
}

// CategoryPreferredAttrs returns the preferred attribute names for c.
func CategoryPreferredAttrs(c ModuleCategory) []string {
	return categoryPreferredAttrs[c]
}

// Physical/Magic conflict sets, spec.md §4.10. Kept verbatim per the
// spec's open question: Special Attack and Elite Strike are excluded
// even though they are Attack-preferred.
var (
	PhysicalAttrs = []string{"Strength Boost", "Agility Boost", "Attack SPD"}
	MagicAttrs    = []string{"Intellect Boost", "Cast Focus"}
)

// configIDNames maps known configIds to module display names. Unknown
// ids fall back to "Module(<configId>)" per spec.md §4.7.
var configIDNames = map[uint32]string{
	5500103: "Legendary Attack",
	5500104: "Legendary Guard",
	5500105: "Legendary Support",
	5500203: "Epic Attack",
	5500204: "Epic Guard",
	5500205: "Epic Support",
}

// NameForConfigID returns the display name for a configId.
func NameForConfigID(configID uint32) string {
	if name, ok := configIDNames[configID]; ok {
		return name
	}

	return "Module(" + itoa(configID) + ")"
}

// configIDCategory maps known configIds to their ModuleCategory. The
// heuristic fallback in the container decoder derives a category the
// same way once a name has been assigned.
var configIDCategory = map[uint32]ModuleCategory{
	5500103: CategoryAttack,
	5500104: CategoryGuard,
	5500105: CategorySupport,
	5500203: CategoryAttack,
	5500204: CategoryGuard,
	5500205: CategorySupport,
}

// CategoryForConfigID maps configId to ModuleCategory via the fixed
// table (spec.md §3 "ModuleCategory ... computed by a fixed
// configId → category table").
func CategoryForConfigID(configID uint32) ModuleCategory {
	if c, ok := configIDCategory[configID]; ok {
		return c
	}

	return CategoryUnknown
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}

	var buf [10]byte
	i := len(buf)

	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}

	return string(buf[i:])
}
