package domain

import "testing"

func TestVenueFromSuffix(t *testing.T) {
	tests := []struct {
		id   TokenIdentifier
		want VenueTag
	}{
		{"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEpump", VenuePumpFun},
		{"9BB6NFEcjBCtnNLFko2FqVQBq8HHM13kCyYcdQbgbonk", VenueLetsBonk},
		{"So11111111111111111111111111111111111111112", VenueUnknown},
	}
	for _, tt := range tests {
		if got := VenueFromSuffix(tt.id); got != tt.want {
			t.Errorf("VenueFromSuffix(%s) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestVenueTag_String(t *testing.T) {
	if VenuePumpFun.String() != "pump.fun" {
		t.Errorf("unexpected label: %s", VenuePumpFun)
	}
	if VenueTag(99).String() != "Unknown" {
		t.Errorf("out-of-range tag should render Unknown")
	}
}

func TestOrigin_Color(t *testing.T) {
	tests := []struct {
		origin Origin
		want   uint32
	}{
		{OriginMigration, 0x00FF88},
		{OriginDexPaid, 0x5865F2},
		{OriginCTO, 0xFF6B00},
		{OriginScanner, 0xFFD700},
	}
	for _, tt := range tests {
		if got := tt.origin.Color(); got != tt.want {
			t.Errorf("%s color = %06X, want %06X", tt.origin, got, tt.want)
		}
	}
}
