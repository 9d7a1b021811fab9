package container

import (
	"encoding/binary"
	"strconv"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

var decodeLog = logging.New("container.decode", false)

// ErrNoModulesFound is returned when every decode path (structured and
// heuristic) yields zero modules (spec.md §4.7/§7 "Empty extraction").
var ErrNoModulesFound = errors.New("no modules found in container payload")

// heuristicUUIDCounter seeds synthetic uuids for the heuristic fallback
// path (spec.md §4.7, §9 open question).
var heuristicUUIDCounter uint64

// Decode extracts ModuleInfo records from a methodId=21 Notify
// payload, trying each strategy from spec.md §4.7 in order and
// preferring the first one that yields a non-empty result:
//
//	(a) parse as the outer container
//	(b) parse as the inner char-data directly
//	(c) skip a 4-byte length prefix and retry (a)
//	(d) heuristic byte scan
func Decode(payload []byte) ([]types.ModuleInfo, error) {
	if mods, ok := tryDecodeWrapped(payload); ok {
		return mods, nil
	}

	if mods, ok := tryDecodeDirect(payload); ok {
		return mods, nil
	}

	if len(payload) > 4 {
		if mods, ok := tryDecodeWrapped(payload[4:]); ok {
			return mods, nil
		}
	}

	mods := heuristicDecode(payload)
	if len(mods) > 0 {
		decodeLog.Warn("structured decode failed, used heuristic fallback",
			zap.Int("numModules", len(mods)))

		return mods, nil
	}

	decodeLog.Debug("no modules found in payload", zap.String("dump", spew.Sdump(payload[:min(len(payload), 64)])))

	return nil, ErrNoModulesFound
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// tryDecodeWrapped attempts path (a): payload is a NotifyPayloadWrapper
// whose field 1 holds the CharSerialize message.
func tryDecodeWrapped(payload []byte) ([]types.ModuleInfo, bool) {
	wrapper, err := parseMessage(payload)
	if err != nil {
		return nil, false
	}

	inner, ok := wrapper.bytes[fieldWrapperCharSerialize]
	if !ok || len(inner) == 0 {
		return nil, false
	}

	return tryDecodeDirect(inner[0])
}

// tryDecodeDirect attempts path (b): payload is the CharSerialize
// message directly.
func tryDecodeDirect(payload []byte) ([]types.ModuleInfo, bool) {
	charMsg, err := parseMessage(payload)
	if err != nil {
		return nil, false
	}

	mods, err := extractModules(charMsg)
	if err != nil || len(mods) == 0 {
		return nil, false
	}

	return mods, true
}

// itemRecord is one decoded Item together with its owning itemKey.
type itemRecord struct {
	itemKey  string
	configID uint32
	uuid     uint64
	quality  uint8
	modParts []uint32
}

// extractModules walks a parsed CharSerialize message and applies the
// extraction rules of spec.md §4.7.
func extractModules(charMsg *rawMessage) ([]types.ModuleInfo, error) {
	items := make([]itemRecord, 0)

	for _, pkgEntryBytes := range charMsg.bytes[fieldCharItemPackages] {
		pkgEntry, err := parseMessage(pkgEntryBytes)
		if err != nil {
			continue
		}

		pkgBytesList := pkgEntry.bytes[fieldPackageEntryPackage]
		if len(pkgBytesList) == 0 {
			continue
		}

		pkg, err := parseMessage(pkgBytesList[0])
		if err != nil {
			continue
		}

		for _, itemEntryBytes := range pkg.bytes[fieldPackageItems] {
			itemEntry, err := parseMessage(itemEntryBytes)
			if err != nil {
				continue
			}

			keyList := itemEntry.bytes[fieldItemEntryKey]
			itemList := itemEntry.bytes[fieldItemEntryItem]

			if len(keyList) == 0 || len(itemList) == 0 {
				continue
			}

			item, err := parseMessage(itemList[0])
			if err != nil {
				continue
			}

			rec := itemRecord{itemKey: string(keyList[0])}

			if v := item.varints[fieldItemConfigID]; len(v) > 0 {
				rec.configID = uint32(v[0])
			}

			if v := item.varints[fieldItemUUID]; len(v) > 0 {
				rec.uuid = v[0]
			}

			if v := item.varints[fieldItemQuality]; len(v) > 0 {
				rec.quality = uint8(v[0])
			}

			modAttrBytes := item.bytes[fieldItemModNewAttr]
			if len(modAttrBytes) == 0 {
				// require modNewAttr.modParts non-empty, spec.md §4.7.
				continue
			}

			modAttr, err := parseMessage(modAttrBytes[0])
			if err != nil {
				continue
			}

			parts := modAttr.varints[fieldModNewAttrParts]
			if len(parts) == 0 {
				continue
			}

			rec.modParts = make([]uint32, len(parts))
			for i, p := range parts {
				rec.modParts[i] = uint32(p)
			}

			items = append(items, rec)
		}
	}

	if len(items) == 0 {
		return nil, nil
	}

	initLinkNums := extractModInfos(charMsg)

	out := make([]types.ModuleInfo, 0, len(items))

	for _, rec := range items {
		links, ok := initLinkNums[rec.itemKey]
		if !ok {
			links, ok = initLinkNums[strconv.FormatUint(rec.uuid, 10)]
		}

		parts := make([]types.ModulePart, 0, len(rec.modParts))

		for i, attrID := range rec.modParts {
			name, known := attrNameForID(attrID)
			if !known {
				continue
			}

			value := uint8(1)
			if ok && i < len(links) {
				value = links[i]
			}

			parts = append(parts, types.ModulePart{
				AttrID:   attrID,
				AttrName: name,
				Value:    value,
			})
		}

		if len(parts) == 0 {
			continue
		}

		out = append(out, types.ModuleInfo{
			Name:     types.NameForConfigID(rec.configID),
			ConfigID: rec.configID,
			UUID:     rec.uuid,
			Quality:  rec.quality,
			Parts:    parts,
		})
	}

	return out, nil
}

// extractModInfos walks the ModContainer and returns, per key
// (itemKey or stringified uuid), the initLinkNums sequence.
func extractModInfos(charMsg *rawMessage) map[string][]uint8 {
	out := make(map[string][]uint8)

	containers := charMsg.bytes[fieldCharModContainer]
	if len(containers) == 0 {
		return out
	}

	modContainer, err := parseMessage(containers[0])
	if err != nil {
		return out
	}

	for _, entryBytes := range modContainer.bytes[fieldModContainerInfos] {
		entry, err := parseMessage(entryBytes)
		if err != nil {
			continue
		}

		keyList := entry.bytes[fieldModInfoEntryKey]
		infoList := entry.bytes[fieldModInfoEntryInfo]

		if len(keyList) == 0 || len(infoList) == 0 {
			continue
		}

		info, err := parseMessage(infoList[0])
		if err != nil {
			continue
		}

		nums := info.varints[fieldModInfoInitLinkNums]

		links := make([]uint8, len(nums))
		for i, n := range nums {
			links[i] = uint8(n)
		}

		out[string(keyList[0])] = links
	}

	return out
}

// heuristicDecode is the last-resort path (d): scan for little-endian
// u32 configId candidates and nearby attribute id/value pairs
// (spec.md §4.7).
func heuristicDecode(buf []byte) []types.ModuleInfo {
	const window = 64

	var out []types.ModuleInfo

	for i := 0; i+4 <= len(buf); i++ {
		v := binary.LittleEndian.Uint32(buf[i : i+4])
		if !isPlausibleConfigID(v) {
			continue
		}

		lo := i - window
		if lo < 0 {
			lo = 0
		}

		hi := i + window
		if hi > len(buf) {
			hi = len(buf)
		}

		var parts []types.ModulePart

		for j := lo; j+5 <= hi; j++ {
			attrID := binary.LittleEndian.Uint32(buf[j : j+4])
			if !isPlausibleAttrID(attrID) {
				continue
			}

			name, known := attrNameForID(attrID)
			if !known {
				continue
			}

			value := buf[j+4]
			if value < 1 || value > 10 {
				continue
			}

			parts = append(parts, types.ModulePart{
				AttrID:   attrID,
				AttrName: name,
				Value:    value,
			})
		}

		if len(parts) == 0 {
			continue
		}

		uuid := atomic.AddUint64(&heuristicUUIDCounter, 1)

		out = append(out, types.ModuleInfo{
			Name:     types.NameForConfigID(v),
			ConfigID: v,
			UUID:     uuid,
			// open question, spec.md §9: ad hoc quality derivation,
			// never used for real captures.
			Quality: heuristicQuality(v),
			Parts:   parts,
		})
	}

	return out
}

func heuristicQuality(configID uint32) uint8 {
	q := configID % 10

	if q < 3 {
		return 3
	}

	if q > 5 {
		return 5
	}

	return uint8(q)
}
