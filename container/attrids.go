package container

// attrIDToName is the fixed configId-independent attribute table
// (spec.md §3 "Attribute names come from a fixed enumeration"). IDs
// are this package's own assignment (wire schema is an implementation
// detail, spec.md §1) but fall within the [1100, 2500] band the
// heuristic fallback scans for, so a structured and heuristic decode
// agree on what an "attribute id" looks like.
var attrIDToName = map[uint32]string{
	1101: "Strength Boost",
	1102: "Agility Boost",
	1103: "Intellect Boost",
	1104: "Attack SPD",
	1105: "Cast Focus",
	1106: "Crit Chance",
	1107: "Crit Damage",
	1108: "Resistance",
	1109: "Armor",
	1110: "Healing Boost",
	1111: "Healing Enhance",
	1112: "Max HP",
	1113: "Max MP",

	1201: "Strength",
	1202: "Agility",
	1203: "Intellect",
	1204: "Special Attack",
	1205: "Elite Strike",
	1206: "Precision Strike",
	1207: "Tenacity",
	1208: "Vitality",
}

var nameToAttrID = func() map[string]uint32 {
	m := make(map[string]uint32, len(attrIDToName))
	for id, name := range attrIDToName {
		m[name] = id
	}

	return m
}()

// AttrIDForName returns the wire attribute id for a known attribute
// name, used only by tests (this package's and the control package's)
// to build fixture payloads.
func AttrIDForName(name string) (uint32, bool) {
	id, ok := nameToAttrID[name]
	return id, ok
}

// attrNameForID returns the attribute name for a wire id, or ("", false)
// if the id is not in the fixed table (e.g. heuristic noise).
func attrNameForID(id uint32) (string, bool) {
	name, ok := attrIDToName[id]
	return name, ok
}

// isPlausibleAttrID reports whether v falls in the heuristic scan band
// from spec.md §4.7 ("[1100, 2500]").
func isPlausibleAttrID(v uint32) bool {
	return v >= 1100 && v <= 2500
}

// isPlausibleConfigID reports whether v falls in the heuristic scan
// band from spec.md §4.7 ("[5_500_000, 5_600_000]").
func isPlausibleConfigID(v uint32) bool {
	return v >= 5_500_000 && v <= 5_600_000
}
