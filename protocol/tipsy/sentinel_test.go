/*
NAME
  sentinel_test.go

DESCRIPTION
  sentinel_test.go tests the sentinel constants and predicates.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tipsy

import (
	"testing"

	"github.com/ausocean/tipsy/codec/floatpack"
)

// TestSentinelOrdering checks the ordering invariant from spec.md §4.2: for
// every sentinel s, MaxEncoded() < s < 10, and s is exactly representable
// in binary32 (trivially true for these small integer constants).
func TestSentinelOrdering(t *testing.T) {
	max := floatpack.MaxEncoded()
	for _, s := range []Sentinel{MessageBegin, Version, Size, MimeType, Body, EndMessage} {
		f := float32(s)
		if !(float32(max) < f && f < 10) {
			t.Errorf("sentinel %v = %v does not satisfy MaxEncoded() < s < 10", s, f)
		}
		if floatpack.IsValidDataEncoding(f) {
			t.Errorf("sentinel %v is a valid data encoding, should be impossible", s)
		}
	}
}

// TestIsSentinel checks that only the six sentinel values are recognised.
func TestIsSentinel(t *testing.T) {
	for _, s := range []Sentinel{MessageBegin, Version, Size, MimeType, Body, EndMessage} {
		if !IsSentinel(float32(s)) {
			t.Errorf("IsSentinel(%v) = false, want true", s)
		}
	}
	if IsSentinel(floatpack.Pack(1, 2, 3)) {
		t.Error("IsSentinel(data float) = true, want false")
	}
	if IsSentinel(10.5) {
		t.Error("IsSentinel(10.5) = true, want false")
	}
}

// TestIsValidProtocolEncoding checks both branches of the predicate.
func TestIsValidProtocolEncoding(t *testing.T) {
	if !IsValidProtocolEncoding(float32(Body)) {
		t.Error("IsValidProtocolEncoding(Body) = false, want true")
	}
	if !IsValidProtocolEncoding(floatpack.Pack(9, 9, 9)) {
		t.Error("IsValidProtocolEncoding(data float) = false, want true")
	}
	if IsValidProtocolEncoding(floatpack.MaxEncoded() + 1) {
		t.Error("IsValidProtocolEncoding(out-of-band float) = true, want false")
	}
}

// TestSentinelDisplayName checks both the named and fallback cases.
func TestSentinelDisplayName(t *testing.T) {
	if got := SentinelDisplayName(float32(EndMessage)); got != "EndMessage" {
		t.Errorf("SentinelDisplayName(EndMessage) = %q, want %q", got, "EndMessage")
	}
	if got := SentinelDisplayName(floatpack.Pack(0, 0, 0)); got != "NOT_A_SENTINEL" {
		t.Errorf("SentinelDisplayName(data float) = %q, want %q", got, "NOT_A_SENTINEL")
	}
}
