/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements the streaming tipsy protocol decoder: a state
  machine that consumes one float32 per call, interprets sentinels to
  advance state, and writes the MIME type into an internal fixed buffer and
  the payload into a caller-provided buffer. Like Encoder, it never
  allocates, never blocks, and does a bounded amount of work per call.

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

import "github.com/ausocean/tipsy/codec/floatpack"

// DecoderState is the Decoder's current position within a message.
type DecoderState uint8

// Decoder states.
const (
	Idle DecoderState = iota
	InHeader
	InVersion
	InSize
	InMimeType
	InBody
)

// Decoder consumes a tipsy-framed sample stream and reconstructs the MIME
// type and payload it carries. The zero value is a valid, idle Decoder,
// but ProvideDataBuffer must be called before any payload bytes can be
// stored. A Decoder must not be used from more than one goroutine at once
// without external synchronisation.
type Decoder struct {
	state DecoderState
	pos   int

	version  int
	dataSize uint32

	mime    [MaxMimeTypeSize]byte
	mimeLen int // declared length from the MimeType header field, incl. NUL

	data    []byte // caller-provided, borrowed from ProvideDataBuffer
	dataCap int
}

// ProvideDataBuffer installs the buffer the Decoder will write payload
// bytes into. It returns false, refusing the swap, if called while a body
// is already being decoded (InBody); the caller must wait for BodyReady (or
// resynchronisation via the next MessageBegin) before swapping buffers.
func (d *Decoder) ProvideDataBuffer(buf []byte) bool {
	if d.state == InBody {
		return false
	}
	d.data = buf
	d.dataCap = len(buf)
	return true
}

// ReadFloat interprets one incoming sample and advances the Decoder's
// state accordingly.
func (d *Decoder) ReadFloat(f float32) DecoderResult {
	switch {
	case f == float32(MessageBegin):
		d.beginMessage()
		return ParsingHeader
	case f == float32(Version):
		d.state = InVersion
		d.pos = 0
		return ParsingHeader
	case f == float32(Size):
		d.state = InSize
		d.pos = 0
		return ParsingHeader
	case f == float32(MimeType):
		d.state = InMimeType
		d.pos = 0
		return ParsingHeader
	case f == float32(Body):
		d.state = InBody
		d.pos = 0
		return HeaderReady
	case f == float32(EndMessage):
		d.state = Idle
		return BodyReady
	}

	switch d.state {
	case Idle:
		return DecoderDormant
	case InVersion:
		return d.readVersion(f)
	case InSize:
		return d.readSize(f)
	case InMimeType:
		return d.readMimeType(f)
	case InBody:
		return d.readBody(f)
	default:
		return ErrorUnknown
	}
}

// beginMessage resets per-message state on a MessageBegin sentinel. It is
// idempotent across the three repeated MessageBegin floats that open every
// message.
func (d *Decoder) beginMessage() {
	d.state = InHeader
	d.pos = 0
	d.version = -1
	d.dataSize = 0
	d.mimeLen = 0
	for i := range d.mime {
		d.mime[i] = 0
	}
}

// readVersion parses the single data float of the Version section.
func (d *Decoder) readVersion(f float32) DecoderResult {
	if d.pos != 0 {
		return ErrorMalformedHeader
	}
	d.pos++
	v := int(floatpack.Uint16FromFloat(f))
	d.version = v
	if v <= 0 || v > CurrentVersion {
		return ErrorIncompatibleVersion
	}
	return ParsingHeader
}

// readSize parses the single data float of the Size section.
func (d *Decoder) readSize(f float32) DecoderResult {
	if d.pos != 0 {
		return ErrorMalformedHeader
	}
	d.pos++
	d.dataSize = floatpack.Uint32FromFloat(f)
	return ParsingHeader
}

// readMimeType parses the MimeType section: a length float followed by the
// MIME bytes themselves, three at a time, bounded by both the internal
// mime buffer capacity and the declared length.
func (d *Decoder) readMimeType(f float32) DecoderResult {
	if d.pos == 0 {
		d.mimeLen = int(floatpack.Uint16FromFloat(f))
		d.pos = 1
		return ParsingHeader
	}

	// d.pos-1 is the offset (in bytes) already written into d.mime.
	off := d.pos - 1
	n := d.mimeLen - off // bytes of this group that are within the declared length
	if n > 3 {
		n = 3
	}
	if off >= len(d.mime) || off+n > len(d.mime) {
		return ErrorDataTooLarge
	}
	if off >= d.mimeLen {
		return ErrorMalformedHeader
	}

	b0, b1, b2 := floatpack.Unpack(f)
	if n > 0 {
		d.mime[off] = b0
	}
	if n > 1 {
		d.mime[off+1] = b1
	}
	if n > 2 {
		d.mime[off+2] = b2
	}
	d.pos += 3
	return ParsingHeader
}

// readBody parses one group of up to three payload bytes, bounded by the
// caller-provided buffer's capacity.
func (d *Decoder) readBody(f float32) DecoderResult {
	if d.pos+3 > d.dataCap {
		return ErrorDataTooLarge
	}
	b0, b1, b2 := floatpack.Unpack(f)
	d.data[d.pos] = b0
	d.data[d.pos+1] = b1
	d.data[d.pos+2] = b2
	d.pos += 3
	return ParsingBody
}

// MimeType returns the MIME type of the most recently decoded message,
// valid from HeaderReady until the next MessageBegin resets it.
func (d *Decoder) MimeType() string {
	n := d.mimeLen - 1 // drop the terminating NUL
	if n < 0 {
		n = 0
	}
	if n > len(d.mime) {
		n = len(d.mime)
	}
	return string(d.mime[:n])
}

// DataSize returns the declared payload length, in bytes, of the most
// recently decoded message, valid from HeaderReady until the next
// MessageBegin resets it.
func (d *Decoder) DataSize() uint32 {
	return d.dataSize
}
