package container

// This file builds wire payloads for tests (this package's and the
// control package's pipeline tests). There
// is no schema file to read from disk (spec.md §1 "parsing technology
// is an implementation detail"), so the test fixtures and the decoder
// above are two halves of the same self-contained schema.

// FixtureItem describes one inventory item for EncodeCharSerialize.
type FixtureItem struct {
	ItemKey      string
	ConfigID     uint32
	UUID         uint64
	Quality      uint8
	ModParts     []uint32
	InitLinkNums []uint8
}

// EncodeCharSerialize builds a raw CharSerialize message (path (b),
// "inner char-data directly") for the given items, each in its own
// package keyed by its itemKey.
func EncodeCharSerialize(items []FixtureItem) []byte {
	var pkgEntries []byte

	for _, it := range items {
		var item []byte
		item = appendVarint(item, fieldItemConfigID, uint64(it.ConfigID))
		item = appendVarint(item, fieldItemUUID, it.UUID)
		item = appendVarint(item, fieldItemQuality, uint64(it.Quality))

		var modAttr []byte
		for _, p := range it.ModParts {
			modAttr = appendVarint(modAttr, fieldModNewAttrParts, uint64(p))
		}

		item = appendMessage(item, fieldItemModNewAttr, modAttr)

		var itemEntry []byte
		itemEntry = appendString(itemEntry, fieldItemEntryKey, it.ItemKey)
		itemEntry = appendMessage(itemEntry, fieldItemEntryItem, item)

		var pkg []byte
		pkg = appendMessage(pkg, fieldPackageItems, itemEntry)

		var pkgEntry []byte
		pkgEntry = appendString(pkgEntry, fieldPackageEntryTag, "default")
		pkgEntry = appendMessage(pkgEntry, fieldPackageEntryPackage, pkg)

		pkgEntries = appendMessage(pkgEntries, fieldCharItemPackages, pkgEntry)
	}

	var modInfoEntries []byte

	for _, it := range items {
		var modInfo []byte
		for _, n := range it.InitLinkNums {
			modInfo = appendVarint(modInfo, fieldModInfoInitLinkNums, uint64(n))
		}

		var entry []byte
		entry = appendString(entry, fieldModInfoEntryKey, it.ItemKey)
		entry = appendMessage(entry, fieldModInfoEntryInfo, modInfo)

		modInfoEntries = appendMessage(modInfoEntries, fieldModContainerInfos, entry)
	}

	out := append([]byte{}, pkgEntries...)
	out = appendMessage(out, fieldCharModContainer, modInfoEntries)

	return out
}

// EncodeWrapped wraps a CharSerialize payload the way path (a)
// ("outer container") expects it.
func EncodeWrapped(charSerialize []byte) []byte {
	var out []byte
	return appendMessage(out, fieldWrapperCharSerialize, charSerialize)
}
