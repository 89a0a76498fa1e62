/*
NAME
  floatpack.go

DESCRIPTION
  floatpack.go implements the byte-to-float packing codec used by the tipsy
  wire protocol: a bijective mapping between (b0, b1, b2) byte triples and
  a single IEEE-754 binary32 value whose magnitude is pinned into a narrow
  band, safely inside the amplitude envelope of an audio/CV carrier.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package floatpack packs three arbitrary octets into a single float32 and
// back again. The encoding fixes the exponent byte of the IEEE-754
// representation so that every one of the 2^24 possible byte triples maps
// to a distinct, finite, non-subnormal float whose absolute value lies in
// [MinEncoded(), MaxEncoded()], a band comfortably inside a +-10 carrier
// rail. See the package-level constants for the exact bit layout.
package floatpack

import "math"

// expByte is the fixed exponent byte pattern (low 7 bits) burned into every
// packed float. With bit 23 always clear, the exponent field is 126, which
// pins the unsigned magnitude into [0.5, 1).
const expByte = 0x3F

// signMask is bit 7 of the high byte, borrowed from payload byte 2 to carry
// the sign of the packed float.
const signMask = 0x80

// Pack assembles b0, b1 and b2 into a float32 whose bit pattern is:
//
//	byte 0 (low)  = b0
//	byte 1        = b1
//	byte 2        = b2 & 0x7F
//	byte 3 (high) = (b2 & 0x80) | 0x3F
//
// Pack is total: every input produces a finite, non-NaN result, and the
// mapping is injective across all 2^24 inputs.
func Pack(b0, b1, b2 byte) float32 {
	bits := uint32(b0) | uint32(b1)<<8 | uint32(b2&0x7F)<<16 | uint32(expByte)<<24
	if b2&signMask != 0 {
		bits |= signMask << 24
	}
	return math.Float32frombits(bits)
}

// Unpack extracts the byte triple that Pack would have consumed to produce
// f's bit pattern, reconstructing the sign bit into byte 2's top bit. Unpack
// does not validate that f actually came from Pack; use IsValidDataEncoding
// for that.
func Unpack(f float32) (b0, b1, b2 byte) {
	bits := math.Float32bits(f)
	b0 = byte(bits)
	b1 = byte(bits >> 8)
	b2 = byte(bits>>16&0x7F) | byte(bits>>24&signMask)
	return b0, b1, b2
}

// MinEncoded returns the smallest value Pack can produce, found at
// Pack(255, 255, 255).
func MinEncoded() float32 { return Pack(255, 255, 255) }

// MaxEncoded returns the largest value Pack can produce, found at
// Pack(255, 255, 127).
func MaxEncoded() float32 { return Pack(255, 255, 127) }

// IsValidDataEncoding reports whether f lies in [MinEncoded(), MaxEncoded()],
// is finite, and has the fixed exponent byte pattern that Pack always
// produces. This is equivalent to checking that unpacking then repacking f
// reproduces its exact bit pattern.
func IsValidDataEncoding(f float32) bool {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return false
	}
	if f < MinEncoded() || f > MaxEncoded() {
		return false
	}
	bits := math.Float32bits(f)
	return bits>>24&0x7F == expByte
}

// Uint16FromFloat assembles a little-endian uint16 from the first two
// packed bytes of f, ignoring the third.
func Uint16FromFloat(f float32) uint16 {
	b0, b1, _ := Unpack(f)
	return uint16(b0) | uint16(b1)<<8
}

// Uint32FromFloat assembles a little-endian uint32 from all three packed
// bytes of f. The result always fits in 24 bits.
func Uint32FromFloat(f float32) uint32 {
	b0, b1, b2 := Unpack(f)
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16
}

// IsRepresentable32 reports whether v fits in the 24 bits that Pack can
// carry. Constructing a packed float from a non-representable uint32 is a
// programming error; callers should check this first.
func IsRepresentable32(v uint32) bool {
	return v&0xFF000000 == 0
}
