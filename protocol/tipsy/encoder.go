/*
NAME
  encoder.go

DESCRIPTION
  encoder.go implements the streaming tipsy protocol encoder: a state
  machine that, given a MIME type and a payload, yields one float32 per
  call until the whole message has been framed. The encoder never
  allocates, never blocks, and does a bounded amount of work per call, so
  it is safe to drive from a real-time audio callback.

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

// EncoderState is the Encoder's current position within a message.
type EncoderState uint8

// Encoder states, in the order a message moves through them.
const (
	NoMessage EncoderState = iota
	StartMessage
	HeaderVersion
	HeaderSize
	HeaderMimeType
	EncodingBody
	EncoderEndMessage
)

// beginRepeats is the number of times MessageBegin is emitted to open a
// message.
const beginRepeats = 3

// Encoder frames a single tipsy message at a time. The zero value is a
// valid, dormant Encoder. An Encoder must not be used from more than one
// goroutine at once without external synchronisation.
type Encoder struct {
	state EncoderState
	pos   int

	mimeType string // borrowed for the lifetime of the message
	mimeLen  int    // strlen(mimeType) + 1, including the NUL

	data []byte // borrowed for the lifetime of the message
}

// InitiateMessage begins framing a new message with the given MIME type and
// payload. An empty mimeType is permitted and is encoded as just a NUL
// terminator; a nil or empty data is a zero-length payload. Neither
// ErrorMissingMimeType nor ErrorMissingData is returned. Both mimeType and data are
// borrowed by the Encoder until GetNextMessageFloat returns MessageComplete
// or TerminateCurrentMessage is called — the caller must keep them alive
// and unmodified until then.
func (e *Encoder) InitiateMessage(mimeType string, data []byte) EncoderResult {
	if e.state != NoMessage {
		return ErrorMessageAlreadyActive
	}
	if len(data) > MaxMessageLength {
		return ErrorMessageTooLarge
	}
	mimeLen := len(mimeType) + 1 // +1 for the NUL terminator tipsy always counts
	if mimeLen > MaxMimeTypeSize {
		return ErrorMimeTypeTooLarge
	}

	e.mimeType = mimeType
	e.mimeLen = mimeLen
	e.data = data
	e.state = StartMessage
	e.pos = 0
	return MessageInitiated
}

// GetNextMessageFloat writes the next float of the current message to out
// and reports the Encoder's progress. It does O(1) work, allocates
// nothing, and never blocks.
func (e *Encoder) GetNextMessageFloat(out *float32) EncoderResult {
	switch e.state {
	case NoMessage:
		*out = 0
		return Dormant

	case StartMessage:
		*out = float32(MessageBegin)
		e.pos++
		if e.pos >= beginRepeats {
			e.state = HeaderVersion
			e.pos = 0
		}
		return EncodingMessage

	case HeaderVersion:
		return e.emitVersion(out)

	case HeaderSize:
		return e.emitSize(out)

	case HeaderMimeType:
		return e.emitMimeType(out)

	case EncodingBody:
		return e.emitBody(out)

	case EncoderEndMessage:
		*out = float32(EndMessage)
		e.reset()
		return MessageComplete

	default:
		*out = 0
		return ErrorEncoderUnknown
	}
}

// emitVersion emits the Version sentinel then the packed current version
// number, then transitions to HeaderSize.
func (e *Encoder) emitVersion(out *float32) EncoderResult {
	if e.pos == 0 {
		*out = float32(Version)
		e.pos++
		return EncodingMessage
	}
	lo := byte(CurrentVersion)
	hi := byte(CurrentVersion >> 8)
	*out = floatpack.Pack(lo, hi, 0)
	e.state = HeaderSize
	e.pos = 0
	return EncodingMessage
}

// emitSize emits the Size sentinel then the packed payload length, then
// transitions to HeaderMimeType.
func (e *Encoder) emitSize(out *float32) EncoderResult {
	if e.pos == 0 {
		*out = float32(Size)
		e.pos++
		return EncodingMessage
	}
	n := uint32(len(e.data))
	*out = floatpack.Pack(byte(n), byte(n>>8), byte(n>>16))
	e.state = HeaderMimeType
	e.pos = 0
	return EncodingMessage
}

// emitMimeType emits the MimeType sentinel, the packed MIME-string length,
// then the MIME bytes (including the terminating NUL) three at a time,
// zero-padding the final group. It transitions to EncodingBody once every
// MIME byte has been emitted.
func (e *Encoder) emitMimeType(out *float32) EncoderResult {
	if e.pos == 0 {
		*out = float32(MimeType)
		e.pos++
		return EncodingMessage
	}
	if e.pos == 1 {
		n := uint32(e.mimeLen)
		*out = floatpack.Pack(byte(n), byte(n>>8), 0)
		e.pos = 2
		return EncodingMessage
	}

	// pos-2 is the offset into the (mimeType + NUL) byte stream.
	off := e.pos - 2
	var b0, b1, b2 byte
	if off < e.mimeLen {
		b0 = e.mimeByte(off)
	}
	if off+1 < e.mimeLen {
		b1 = e.mimeByte(off + 1)
	}
	if off+2 < e.mimeLen {
		b2 = e.mimeByte(off + 2)
	}
	*out = floatpack.Pack(b0, b1, b2)
	e.pos += 3

	if e.pos-2 >= e.mimeLen {
		e.state = EncodingBody
		e.pos = 0
	}
	return EncodingMessage
}

// mimeByte returns byte i of the MIME string followed by its NUL
// terminator; i must be < e.mimeLen.
func (e *Encoder) mimeByte(i int) byte {
	if i == len(e.mimeType) {
		return 0
	}
	return e.mimeType[i]
}

// emitBody emits the Body sentinel then the payload three bytes at a time,
// zero-padding the final group. A zero-length payload transitions straight
// to EncoderEndMessage after the sentinel.
func (e *Encoder) emitBody(out *float32) EncoderResult {
	if e.pos == 0 {
		*out = float32(Body)
		e.pos++
		if len(e.data) == 0 {
			e.state = EncoderEndMessage
		}
		return EncodingMessage
	}

	off := e.pos - 1
	var b0, b1, b2 byte
	if off < len(e.data) {
		b0 = e.data[off]
	}
	if off+1 < len(e.data) {
		b1 = e.data[off+1]
	}
	if off+2 < len(e.data) {
		b2 = e.data[off+2]
	}
	*out = floatpack.Pack(b0, b1, b2)
	e.pos += 3

	if e.pos-1 >= len(e.data) {
		e.state = EncoderEndMessage
	}
	return EncodingMessage
}

// TerminateCurrentMessage hard-resets the Encoder to NoMessage, releasing
// its borrowed buffers. It is an error to call this while dormant.
func (e *Encoder) TerminateCurrentMessage() EncoderResult {
	if e.state == NoMessage {
		return ErrorNoMessageActive
	}
	e.reset()
	return MessageTerminated
}

// reset returns the Encoder to NoMessage and drops its borrowed references.
func (e *Encoder) reset() {
	e.state = NoMessage
	e.pos = 0
	e.mimeType = ""
	e.mimeLen = 0
	e.data = nil
}
