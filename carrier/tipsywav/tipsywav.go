/*
NAME
  tipsywav.go

DESCRIPTION
  tipsywav.go provides a concrete realisation of the carrier that the tipsy
  protocol core treats abstractly: a 32-bit IEEE-float-PCM WAV file, one
  tipsy sample per audio frame. This is the nearest literal implementation
  of the "modular-synthesizer audio/CV cable" carrier that motivates the
  protocol, but expressed as a file so that it can be produced, stored and
  replayed without any audio hardware.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tipsywav encodes and decodes tipsy messages as 32-bit
// floating-point WAV files, using github.com/go-audio/wav and
// github.com/go-audio/audio for the container format.
package tipsywav

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ausocean/tipsy/protocol/tipsy"
)

// bitDepth is the WAV sample bit depth used for every tipsy carrier file.
// Tipsy samples are packed float32 values; storing anything less than 32
// bits would truncate the fraction bits that carry payload.
const bitDepth = 32

// frameChunk is the number of frames buffered per Encoder.Write call; it
// has no bearing on the wire format, only on I/O batching.
const frameChunk = 512

// WriteMessage encodes a full tipsy message (mimeType, payload) as a
// 32-bit float WAV file at the given sample rate, writing it to w.
func WriteMessage(w io.WriteSeeker, sampleRate int, mimeType string, payload []byte) error {
	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, int(wav.AudioFormatIEEEFloat))

	var e tipsy.Encoder
	if r := e.InitiateMessage(mimeType, payload); r != tipsy.MessageInitiated {
		return fmt.Errorf("tipsywav: could not initiate message: %v", r)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, 0, frameChunk),
		SourceBitDepth: bitDepth,
	}

	var f float32
	for {
		r := e.GetNextMessageFloat(&f)
		if r.IsError() {
			return fmt.Errorf("tipsywav: encoder error %v", r)
		}
		buf.Data = append(buf.Data, int(math.Float32bits(f)))
		if len(buf.Data) == cap(buf.Data) || r == tipsy.MessageComplete {
			if err := enc.Write(buf); err != nil {
				return fmt.Errorf("tipsywav: could not write WAV frames: %w", err)
			}
			buf.Data = buf.Data[:0]
		}
		if r == tipsy.MessageComplete {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("tipsywav: could not finalise WAV file: %w", err)
	}
	return nil
}

// ReadMessage decodes a single tipsy message from a 32-bit float WAV file,
// returning its MIME type and payload.
func ReadMessage(r io.Reader) (mimeType string, payload []byte, err error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return "", nil, fmt.Errorf("tipsywav: not a valid WAV file")
	}

	var d tipsy.Decoder
	buf := make([]byte, tipsy.MaxMessageLength)
	d.ProvideDataBuffer(buf)

	frame := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: int(dec.SampleRate)},
		Data:   make([]int, frameChunk),
	}

	for {
		n, rerr := dec.PCMBuffer(frame)
		if n == 0 && rerr == io.EOF {
			break
		}
		if rerr != nil && rerr != io.EOF {
			return "", nil, fmt.Errorf("tipsywav: could not read WAV frames: %w", rerr)
		}

		for i := 0; i < n; i++ {
			f := math.Float32frombits(uint32(frame.Data[i]))
			dr := d.ReadFloat(f)
			if dr.IsError() {
				return "", nil, fmt.Errorf("tipsywav: decoder error %v", dr)
			}
			if dr == tipsy.BodyReady {
				mimeType = d.MimeType()
				size := int(d.DataSize())
				if size > len(buf) {
					size = len(buf)
				}
				payload = append([]byte(nil), buf[:size]...)
				return mimeType, payload, nil
			}
		}

		if rerr == io.EOF {
			break
		}
	}

	return "", nil, fmt.Errorf("tipsywav: WAV file ended before BodyReady")
}
