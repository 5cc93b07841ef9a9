package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyGUID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected GUIDFormat
	}{
		{"ifc guid", "1kTvXnbbzCWw8lcMd1dR4o", GUIDFormatIFC},
		{"ifc guid with specials", "0$abcDEF_h1234567890ab", GUIDFormatIFC},
		{"hex guid lower", "4dd2d1b1f9fb4b0e9e3a1d2c3b4a5f60", GUIDFormatHex},
		{"hex guid upper", "4DD2D1B1F9FB4B0E9E3A1D2C3B4A5F60", GUIDFormatHex},
		{"canonical uuid", "4dd2d1b1-f9fb-4b0e-9e3a-1d2c3b4a5f60", GUIDFormatUUID},
		{"too short", "1kTvXnbbzCWw8lcMd1dR4", GUIDFormatUnknown},
		{"too long", "1kTvXnbbzCWw8lcMd1dR4oX", GUIDFormatUnknown},
		{"ifc first char out of range", "9kTvXnbbzCWw8lcMd1dR4o", GUIDFormatUnknown},
		{"hex with non-hex char", "4dd2d1b1f9fb4b0e9e3a1d2c3b4a5g60", GUIDFormatUnknown},
		{"empty", "", GUIDFormatUnknown},
		{"assembly mark", "B-104", GUIDFormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyGUID(tt.input))
		})
	}
}

func TestIFCUUIDRoundTrip(t *testing.T) {
	ids := []uuid.UUID{
		uuid.MustParse("4dd2d1b1-f9fb-4b0e-9e3a-1d2c3b4a5f60"),
		uuid.MustParse("00000000-0000-0000-0000-000000000000"),
		uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"),
		uuid.MustParse("00000000-0000-0000-0000-000000000001"),
	}

	for _, id := range ids {
		t.Run(id.String(), func(t *testing.T) {
			encoded := UUIDToIFC(id)
			assert.Len(t, encoded, 22)
			assert.Equal(t, GUIDFormatIFC, ClassifyGUID(encoded))

			decoded, err := IFCToUUID(encoded)
			require.NoError(t, err)
			assert.Equal(t, id, decoded)
		})
	}
}

func TestIFCToUUID_RejectsInvalid(t *testing.T) {
	_, err := IFCToUUID("not-an-ifc-guid")
	assert.Error(t, err)

	// Correct length, first character encodes more than two bits
	_, err = IFCToUUID("AkTvXnbbzCWw8lcMd1dR4o")
	assert.Error(t, err)
}

func TestUUIDToIFC_ZeroAndMax(t *testing.T) {
	zero := UUIDToIFC(uuid.Nil)
	assert.Equal(t, "0000000000000000000000", zero)

	max := UUIDToIFC(uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"))
	assert.Equal(t, "3$$$$$$$$$$$$$$$$$$$$$", max)
}

func TestNormalizeGUID(t *testing.T) {
	normalized, format := NormalizeGUID("4DD2D1B1F9FB4B0E9E3A1D2C3B4A5F60")
	assert.Equal(t, "4dd2d1b1f9fb4b0e9e3a1d2c3b4a5f60", normalized)
	assert.Equal(t, GUIDFormatHex, format)

	// IFC GUIDs are case sensitive and must pass through untouched
	normalized, format = NormalizeGUID("1kTvXnbbzCWw8lcMd1dR4o")
	assert.Equal(t, "1kTvXnbbzCWw8lcMd1dR4o", normalized)
	assert.Equal(t, GUIDFormatIFC, format)
}

func TestCanonicalGUID_CollapsesEncodings(t *testing.T) {
	id := uuid.MustParse("4dd2d1b1-f9fb-4b0e-9e3a-1d2c3b4a5f60")
	ifc := UUIDToIFC(id)

	// Every encoding of the same identifier maps to one representative
	assert.Equal(t, id.String(), CanonicalGUID(ifc))
	assert.Equal(t, id.String(), CanonicalGUID(id.String()))
	assert.Equal(t, id.String(), CanonicalGUID("4DD2D1B1F9FB4B0E9E3A1D2C3B4A5F60"))

	// Unknown formats stay as-is
	assert.Equal(t, "B-104", CanonicalGUID("B-104"))
}

func TestGUIDVariants_CoverBothEncodings(t *testing.T) {
	id := uuid.MustParse("4dd2d1b1-f9fb-4b0e-9e3a-1d2c3b4a5f60")
	ifc := UUIDToIFC(id)

	variants := GUIDVariants(ifc)
	assert.Contains(t, variants, ifc)
	assert.Contains(t, variants, id.String())
	assert.Contains(t, variants, "4dd2d1b1f9fb4b0e9e3a1d2c3b4a5f60")

	variants = GUIDVariants(id.String())
	assert.Contains(t, variants, ifc)

	// Unknown formats only return themselves
	variants = GUIDVariants("B-104")
	assert.Equal(t, []string{"B-104"}, variants)
}
