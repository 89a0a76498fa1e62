/*
NAME
  decoder_test.go

DESCRIPTION
  decoder_test.go tests the Decoder state machine in isolation, feeding it
  hand-built sample sequences rather than an Encoder (see roundtrip_test.go
  for encoder-to-decoder tests).

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

// TestDecoderDormant checks that non-sentinel floats are ignored while
// idle.
func TestDecoderDormant(t *testing.T) {
	var d Decoder
	if got := d.ReadFloat(floatpack.Pack(1, 2, 3)); got != DecoderDormant {
		t.Errorf("ReadFloat while idle = %v, want DecoderDormant", got)
	}
}

// TestProvideDataBufferRefusedInBody checks that swapping the payload
// buffer mid-body is refused.
func TestProvideDataBufferRefusedInBody(t *testing.T) {
	var d Decoder
	var buf [16]byte
	d.ProvideDataBuffer(buf[:])

	d.ReadFloat(float32(MessageBegin))
	d.ReadFloat(float32(Body))
	if d.state != InBody {
		t.Fatalf("expected InBody, got %v", d.state)
	}
	if ok := d.ProvideDataBuffer(buf[:]); ok {
		t.Error("ProvideDataBuffer returned true while InBody, want false")
	}
}

// TestIncompatibleVersion checks that a version outside (0, CurrentVersion]
// is rejected.
func TestIncompatibleVersion(t *testing.T) {
	var d Decoder
	d.ReadFloat(float32(MessageBegin))
	d.ReadFloat(float32(Version))
	bad := floatpack.Pack(byte(CurrentVersion+1), 0, 0)
	if got := d.ReadFloat(bad); got != ErrorIncompatibleVersion {
		t.Errorf("ReadFloat(future version) = %v, want ErrorIncompatibleVersion", got)
	}
}

// TestMalformedHeaderDoubleVersion checks that a second non-sentinel float
// inside a single-float header section is malformed.
func TestMalformedHeaderDoubleVersion(t *testing.T) {
	var d Decoder
	d.ReadFloat(float32(MessageBegin))
	d.ReadFloat(float32(Version))
	d.ReadFloat(floatpack.Pack(1, 0, 0))
	if got := d.ReadFloat(floatpack.Pack(1, 0, 0)); got != ErrorMalformedHeader {
		t.Errorf("second version float = %v, want ErrorMalformedHeader", got)
	}
}

// TestBodyTooLarge checks that a payload that would overflow the provided
// buffer is rejected before BodyReady, and that the check uses the exact
// pos+3 <= cap bound (not the off-by-three-allowing bound of the historical
// source — see DESIGN.md).
func TestBodyTooLarge(t *testing.T) {
	var d Decoder
	var buf [3]byte
	d.ProvideDataBuffer(buf[:])

	d.ReadFloat(float32(MessageBegin))
	d.ReadFloat(float32(Size))
	d.ReadFloat(floatpack.Pack(6, 0, 0))
	d.ReadFloat(float32(MimeType))
	d.ReadFloat(floatpack.Pack(1, 0, 0))
	d.ReadFloat(floatpack.Pack(0, 0, 0))
	d.ReadFloat(float32(Body))

	d.ReadFloat(floatpack.Pack(1, 2, 3)) // fills buf exactly: ParsingBody
	if got := d.ReadFloat(floatpack.Pack(4, 5, 6)); got != ErrorDataTooLarge {
		t.Errorf("second body group into 3-byte buffer = %v, want ErrorDataTooLarge", got)
	}
}

// TestMimeTypeBoundedByDeclaredLength checks that the decoder does not
// write past the MIME type's declared length, even though it always reads
// three packed bytes per sample (see DESIGN.md's discussion of the
// original source's unconditional three-byte write).
func TestMimeTypeBoundedByDeclaredLength(t *testing.T) {
	var d Decoder
	d.ReadFloat(float32(MessageBegin))
	d.ReadFloat(float32(MimeType))
	// Declare a 2-byte MIME field ("A" + NUL).
	d.ReadFloat(floatpack.Pack(2, 0, 0))
	// One group carries "A", NUL, and a padding byte that must not count.
	d.ReadFloat(floatpack.Pack('A', 0, 0xFF))
	d.ReadFloat(float32(Body))

	if got := d.MimeType(); got != "A" {
		t.Errorf("MimeType() = %q, want %q", got, "A")
	}
	if d.mime[2] != 0 {
		t.Errorf("mime[2] = %#x, want 0 (byte past the declared length written)", d.mime[2])
	}
}
