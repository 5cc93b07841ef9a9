package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GUIDFormat classifies the encoding of a model object identifier
type GUIDFormat string

const (
	// GUIDFormatIFC is the 22 character compressed IFC encoding
	GUIDFormatIFC GUIDFormat = "ifc"
	// GUIDFormatHex is a bare 32 character hex string
	GUIDFormatHex GUIDFormat = "hex"
	// GUIDFormatUUID is the canonical 8-4-4-4-12 representation
	GUIDFormatUUID GUIDFormat = "uuid"
	// GUIDFormatUnknown is anything else
	GUIDFormatUnknown GUIDFormat = "unknown"
)

// ifcAlphabet is the 64 character set used by the compressed IFC GUID
// encoding, in value order.
const ifcAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

var ifcValues = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := range len(ifcAlphabet) {
		table[ifcAlphabet[i]] = int8(i)
	}
	return table
}()

// ClassifyGUID returns the encoding of s. Only the two fixed-length vendor
// encodings and the IFC encoding are recognized; everything else is unknown.
func ClassifyGUID(s string) GUIDFormat {
	switch len(s) {
	case 22:
		if isIFCGUID(s) {
			return GUIDFormatIFC
		}
	case 32:
		if isHexString(s) {
			return GUIDFormatHex
		}
	case 36:
		if _, err := uuid.Parse(s); err == nil {
			return GUIDFormatUUID
		}
	}
	return GUIDFormatUnknown
}

func isIFCGUID(s string) bool {
	if len(s) != 22 {
		return false
	}
	// First character carries only the two high bits of the 128 bit value
	if ifcValues[s[0]] < 0 || ifcValues[s[0]] > 3 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if ifcValues[s[i]] < 0 {
			return false
		}
	}
	return true
}

func isHexString(s string) bool {
	for i := range len(s) {
		c := s[i]
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		isUpper := c >= 'A' && c <= 'F'
		if !isDigit && !isLower && !isUpper {
			return false
		}
	}
	return len(s) > 0
}

// IFCToUUID expands a compressed 22 character IFC GUID to its UUID value
func IFCToUUID(s string) (uuid.UUID, error) {
	if !isIFCGUID(s) {
		return uuid.Nil, fmt.Errorf("not a valid IFC GUID: %q", s)
	}

	var bytes [16]byte
	var hi, lo uint64

	for i := range len(s) {
		v := uint64(ifcValues[s[i]])
		// shift the accumulated value left by 6 bits and add the digit
		hi = hi<<6 | lo>>58
		lo = lo<<6 | v
	}

	for i := range 8 {
		bytes[i] = byte(hi >> (56 - 8*i))
		bytes[8+i] = byte(lo >> (56 - 8*i))
	}

	return uuid.FromBytes(bytes[:])
}

// UUIDToIFC compresses a UUID into the 22 character IFC GUID encoding
func UUIDToIFC(id uuid.UUID) string {
	var hi, lo uint64
	for i := range 8 {
		hi = hi<<8 | uint64(id[i])
		lo = lo<<8 | uint64(id[8+i])
	}

	var out [22]byte
	for i := 21; i >= 0; i-- {
		out[i] = ifcAlphabet[lo&0x3f]
		lo = lo>>6 | hi<<58
		hi >>= 6
	}

	return string(out[:])
}

// NormalizeGUID lowercases hex GUIDs and canonical UUIDs so
// lookups are stable regardless of how the viewer reported the identifier.
// IFC GUIDs are case sensitive and returned unchanged.
func NormalizeGUID(s string) (string, GUIDFormat) {
	format := ClassifyGUID(s)
	switch format {
	case GUIDFormatHex:
		return strings.ToLower(s), format
	case GUIDFormatUUID:
		return strings.ToLower(s), format
	default:
		return s, format
	}
}

// CanonicalGUID reduces a GUID to a single representative form so records
// stored under different encodings of the same identifier compare equal.
// Decodable GUIDs collapse to the canonical UUID representation; unknown
// formats are returned normalized.
func CanonicalGUID(s string) string {
	normalized, format := NormalizeGUID(s)
	switch format {
	case GUIDFormatIFC:
		if id, err := IFCToUUID(normalized); err == nil {
			return id.String()
		}
	case GUIDFormatHex:
		if id, err := uuid.Parse(normalized); err == nil {
			return id.String()
		}
	}
	return normalized
}

// GUIDVariants returns the equivalent representations of a GUID so a lookup
// can match whichever encoding was stored. The input itself is always first.
func GUIDVariants(s string) []string {
	normalized, format := NormalizeGUID(s)
	variants := []string{normalized}

	switch format {
	case GUIDFormatIFC:
		if id, err := IFCToUUID(normalized); err == nil {
			variants = append(variants, id.String(), strings.ReplaceAll(id.String(), "-", ""))
		}
	case GUIDFormatHex:
		if id, err := uuid.Parse(normalized); err == nil {
			variants = append(variants, id.String(), UUIDToIFC(id))
		}
	case GUIDFormatUUID:
		if id, err := uuid.Parse(normalized); err == nil {
			variants = append(variants, strings.ReplaceAll(id.String(), "-", ""), UUIDToIFC(id))
		}
	}

	return variants
}
