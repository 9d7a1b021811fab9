// Package container implements the container decoder (C6) of
// spec.md §4.7: decoding a methodId=21 Notify payload into the
// minimal CharSerialize shape and extracting ModuleInfo records.
//
// The wire schema below is this package's own choice of encoding
// technology (spec.md §1 "the parsing technology is an implementation
// detail") — a small protobuf-wire-compatible message layout built on
// google.golang.org/protobuf/encoding/protowire, distinct from the
// real game's undocumented schema but satisfying the same logical
// shape from spec.md §3.
package container

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers for the NotifyPayloadWrapper message (path (a), the
// "outer container" per spec.md §4.7).
const fieldWrapperCharSerialize = 1

// Field numbers for the CharSerialize message.
const (
	fieldCharItemPackages  = 1 // repeated PackageEntry
	fieldCharModContainer  = 2 // ModContainer
)

// Field numbers for PackageEntry (packageTag -> Package).
const (
	fieldPackageEntryTag     = 1 // bytes (string)
	fieldPackageEntryPackage = 2 // Package message
)

// Field numbers for Package.
const fieldPackageItems = 1 // repeated ItemEntry

// Field numbers for ItemEntry (itemKey -> Item).
const (
	fieldItemEntryKey  = 1 // bytes (string)
	fieldItemEntryItem = 2 // Item message
)

// Field numbers for Item.
const (
	fieldItemConfigID    = 1 // varint
	fieldItemUUID        = 2 // varint
	fieldItemQuality     = 3 // varint
	fieldItemModNewAttr  = 4 // ModNewAttr message
)

// Field numbers for ModNewAttr.
const fieldModNewAttrParts = 1 // repeated varint (scalar-or-sequence)

// Field numbers for ModContainer.
const fieldModContainerInfos = 1 // repeated ModInfoEntry

// Field numbers for ModInfoEntry (itemKey-or-uuid -> ModInfo).
const (
	fieldModInfoEntryKey  = 1 // bytes (string)
	fieldModInfoEntryInfo = 2 // ModInfo message
)

// Field numbers for ModInfo.
const fieldModInfoInitLinkNums = 1 // repeated varint (scalar-or-sequence)

// rawMessage is a parsed set of top-level fields from one protobuf-wire
// message: every occurrence of a varint field and every occurrence of
// a length-delimited (bytes/submessage) field, preserving repetition
// exactly as seen — a single occurrence still lands in a 1-element
// slice, per the "never collapse a repeated field" rule (spec.md §9).
type rawMessage struct {
	varints map[int32][]uint64
	bytes   map[int32][][]byte
}

func newRawMessage() *rawMessage {
	return &rawMessage{
		varints: make(map[int32][]uint64),
		bytes:   make(map[int32][][]byte),
	}
}

// parseMessage walks data as a flat protobuf-wire message, collecting
// varint and length-delimited fields. It ignores fixed32/fixed64
// fields (unused by this schema) and returns an error only if the
// wire data is too malformed to walk at all.
func parseMessage(data []byte) (*rawMessage, error) {
	msg := newRawMessage()

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}

		data = data[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			msg.varints[int32(num)] = append(msg.varints[int32(num)], v)
			data = data[n:]

		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			msg.bytes[int32(num)] = append(msg.bytes[int32(num)], v)
			data = data[n:]

		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			data = data[n:]

		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(protowire.Number(num), typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}

			data = data[n:]
		}
	}

	return msg, nil
}

// --- encoding helpers, used only by this package's own test fixtures
// to build valid wire payloads (there is no real schema file to read
// from disk; spec.md §1 treats it as an implementation detail). ---

func appendMessage(b []byte, field int32, msg []byte) []byte {
	b = protowire.AppendTag(b, protowire.Number(field), protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendVarint(b []byte, field int32, v uint64) []byte {
	b = protowire.AppendTag(b, protowire.Number(field), protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, field int32, s string) []byte {
	b = protowire.AppendTag(b, protowire.Number(field), protowire.BytesType)
	return protowire.AppendString(b, s)
}
