/*
NAME
  sentinel.go

DESCRIPTION
  sentinel.go defines the six reserved float values that the tipsy wire
  protocol uses to signal state transitions in-band, plus the predicates
  that distinguish them from data-encoding floats.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tipsy implements the tipsy framing protocol: a streaming
// encoder and decoder that carry an arbitrary MIME-tagged payload across a
// channel that conveys a single IEEE-754 binary32 sample at a time. See
// github.com/ausocean/tipsy/codec/floatpack for the underlying byte<->float
// packing this protocol's data sections are built from.
package tipsy

import "github.com/ausocean/tipsy/codec/floatpack"

// Sentinel is a reserved float value that can never be produced by
// floatpack.Pack, used to mark section boundaries in the tipsy wire format.
type Sentinel float32

// The six sentinels, in wire order of first appearance within a message.
// Each is strictly greater than floatpack.MaxEncoded() and strictly less
// than 10, the conventional +-10 rail of the carrier.
const (
	MessageBegin Sentinel = 11.0
	Version      Sentinel = 12.0
	Size         Sentinel = 13.0
	MimeType     Sentinel = 14.0
	Body         Sentinel = 15.0
	EndMessage   Sentinel = 16.0
)

// CurrentVersion is the only header version this package knows how to
// decode. A future version may extend the wire format but must not
// reinterpret the existing sentinels.
const CurrentVersion = 1

// MaxMimeTypeSize is the largest MIME-type string (including the
// terminating NUL) that InitiateMessage and ReadFloat will accept.
const MaxMimeTypeSize = 1024

// MaxMessageLength is the largest payload, in bytes, that InitiateMessage
// will accept.
const MaxMessageLength = 1 << 23

// allSentinels lists every sentinel for iteration by IsSentinel and
// SentinelDisplayName.
var allSentinels = [...]struct {
	val  Sentinel
	name string
}{
	{MessageBegin, "MessageBegin"},
	{Version, "Version"},
	{Size, "Size"},
	{MimeType, "MimeType"},
	{Body, "Body"},
	{EndMessage, "EndMessage"},
}

// IsSentinel reports whether f is exactly equal to one of the six reserved
// sentinel values. Sentinel comparison is always exact; since every
// sentinel is a small integer exactly representable in binary32 and the
// carrier is assumed lossless, no tolerance is needed or correct.
func IsSentinel(f float32) bool {
	for _, s := range allSentinels {
		if f == float32(s.val) {
			return true
		}
	}
	return false
}

// IsValidProtocolEncoding reports whether f is either a sentinel or a
// valid data-encoding float.
func IsValidProtocolEncoding(f float32) bool {
	return IsSentinel(f) || floatpack.IsValidDataEncoding(f)
}

// SentinelDisplayName returns a debug label for f if it is a sentinel, or
// "NOT_A_SENTINEL" otherwise.
func SentinelDisplayName(f float32) string {
	for _, s := range allSentinels {
		if f == float32(s.val) {
			return s.name
		}
	}
	return "NOT_A_SENTINEL"
}
