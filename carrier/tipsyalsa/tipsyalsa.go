//go:build linux

/*
NAME
  tipsyalsa.go

DESCRIPTION
  tipsyalsa.go drives a tipsy Encoder or Decoder against a live ALSA
  device, so that tipsy messages can ride an actual audio/CV cable rather
  than a file or in-process buffer. It is built only on linux, and like
  the hardware-facing device packages it is derived from, it is not
  covered by unit tests because it requires physical ALSA hardware.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tipsyalsa sends and receives tipsy messages over an ALSA PCM
// device using github.com/yobert/alsa, with samples carried as 32-bit
// float frames.
package tipsyalsa

import (
	"errors"
	"fmt"
	"math"

	yalsa "github.com/yobert/alsa"

	"github.com/ausocean/tipsy/protocol/tipsy"
)

// defaultChannels is the number of channels negotiated on the device;
// tipsy only ever uses a single channel, the rest are left unused.
const defaultChannels = 1

// openDevice finds and opens the named ALSA device, or the first
// matching device of the wanted capability if name is empty.
func openDevice(name string, record bool) (*yalsa.Device, error) {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return nil, err
	}
	defer yalsa.CloseCards(cards)

	var found *yalsa.Device
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			return nil, err
		}
		for _, dev := range devices {
			if dev.Type != yalsa.PCM {
				continue
			}
			if record && !dev.Record {
				continue
			}
			if !record && !dev.Play {
				continue
			}
			if dev.Title == name || name == "" {
				found = dev
				break
			}
		}
		if found != nil {
			break
		}
	}
	if found == nil {
		return nil, errors.New("tipsyalsa: no matching ALSA device found")
	}
	if err := found.Open(); err != nil {
		return nil, err
	}
	return found, nil
}

// negotiate configures channel count, sample rate and float format on dev.
func negotiate(dev *yalsa.Device, rate int) error {
	if _, err := dev.NegotiateChannels(defaultChannels); err != nil {
		return fmt.Errorf("tipsyalsa: NegotiateChannels: %w", err)
	}
	if _, err := dev.NegotiateRate(rate); err != nil {
		return fmt.Errorf("tipsyalsa: NegotiateRate: %w", err)
	}
	if _, err := dev.NegotiateFormat(yalsa.FormatFloatLE); err != nil {
		return fmt.Errorf("tipsyalsa: NegotiateFormat: %w", err)
	}
	if err := dev.Prepare(); err != nil {
		return fmt.Errorf("tipsyalsa: Prepare: %w", err)
	}
	return nil
}

// Play opens a playback device (by name, or the first one if empty) and
// streams a single tipsy message out over it at the given sample rate.
func Play(name string, rate int, mimeType string, payload []byte) error {
	dev, err := openDevice(name, false)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := negotiate(dev, rate); err != nil {
		return err
	}

	var e tipsy.Encoder
	if r := e.InitiateMessage(mimeType, payload); r != tipsy.MessageInitiated {
		return fmt.Errorf("tipsyalsa: could not initiate message: %v", r)
	}

	ab := dev.NewBufferDuration(0)
	var f float32
	for {
		r := e.GetNextMessageFloat(&f)
		if r.IsError() {
			return fmt.Errorf("tipsyalsa: encoder error %v", r)
		}
		writeFloatLE(ab.Data, math.Float32bits(f))
		if err := dev.Write(ab); err != nil {
			return fmt.Errorf("tipsyalsa: device write: %w", err)
		}
		if r == tipsy.MessageComplete {
			return nil
		}
	}
}

// Record opens a capture device (by name, or the first one if empty) and
// decodes a single tipsy message from it at the given sample rate.
func Record(name string, rate int) (mimeType string, payload []byte, err error) {
	dev, err := openDevice(name, true)
	if err != nil {
		return "", nil, err
	}
	defer dev.Close()

	if err := negotiate(dev, rate); err != nil {
		return "", nil, err
	}

	var d tipsy.Decoder
	buf := make([]byte, tipsy.MaxMessageLength)
	d.ProvideDataBuffer(buf)

	ab := dev.NewBufferDuration(0)
	for {
		if err := dev.Read(ab); err != nil {
			return "", nil, fmt.Errorf("tipsyalsa: device read: %w", err)
		}
		bits := readFloatLE(ab.Data)
		dr := d.ReadFloat(math.Float32frombits(bits))
		if dr.IsError() {
			return "", nil, fmt.Errorf("tipsyalsa: decoder error %v", dr)
		}
		if dr == tipsy.BodyReady {
			size := int(d.DataSize())
			if size > len(buf) {
				size = len(buf)
			}
			return d.MimeType(), append([]byte(nil), buf[:size]...), nil
		}
	}
}

// writeFloatLE packs v into the first 4 bytes of dst as little-endian.
func writeFloatLE(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// readFloatLE unpacks a little-endian uint32 from the first 4 bytes of src.
func readFloatLE(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}
