/*
NAME
  roundtrip_test.go

DESCRIPTION
  roundtrip_test.go drives a full Encoder through a Decoder sample by
  sample and checks the properties listed in spec.md §8.

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
	"bytes"
	"strings"
	"testing"
)

// pump drives msg from an Encoder through a Decoder backed by bufCap bytes
// of storage, returning the results observed and the decoded MIME/body.
func pump(t *testing.T, mimeType string, payload []byte, bufCap int) (sawHeaderReady, sawBodyReady bool, gotMime string, gotBody []byte, lastErr DecoderResult) {
	t.Helper()

	var e Encoder
	if got := e.InitiateMessage(mimeType, payload); got != MessageInitiated {
		t.Fatalf("InitiateMessage = %v", got)
	}

	var d Decoder
	buf := make([]byte, bufCap)
	d.ProvideDataBuffer(buf)

	var f float32
	for {
		er := e.GetNextMessageFloat(&f)
		if er.IsError() {
			t.Fatalf("encoder error %v", er)
		}

		dr := d.ReadFloat(f)
		if dr.IsError() {
			lastErr = dr
			return
		}
		switch dr {
		case HeaderReady:
			sawHeaderReady = true
			gotMime = d.MimeType()
		case BodyReady:
			sawBodyReady = true
			n := int(d.DataSize())
			if n > len(buf) {
				n = len(buf)
			}
			gotBody = append([]byte(nil), buf[:n]...)
		}

		if er == MessageComplete {
			return
		}
	}
}

// TestRoundTripBasic is scenario 2 from spec.md §8.
func TestRoundTripBasic(t *testing.T) {
	msg := []byte("I am the very model of a modern major general")
	headerReady, bodyReady, mime, body, lastErr := pump(t, "application/text", msg, 2048)
	if lastErr.IsError() {
		t.Fatalf("unexpected decoder error %v", lastErr)
	}
	if !headerReady {
		t.Error("HeaderReady never observed")
	}
	if !bodyReady {
		t.Error("BodyReady never observed")
	}
	if mime != "application/text" {
		t.Errorf("MimeType = %q, want %q", mime, "application/text")
	}
	if !bytes.Equal(body, msg) {
		t.Errorf("body = %q, want %q", body, msg)
	}
}

// TestRoundTripBufferSizes is scenario 3 from spec.md §8. The decoder's
// body-buffer check rejects a group as soon as pos+3 > bufCap (see
// DESIGN.md), so a payload whose zero-padded final group doesn't fit
// wholly within bufCap must fail with ErrorDataTooLarge rather than
// complete.
func TestRoundTripBufferSizes(t *testing.T) {
	bufCaps := []int{127, 128, 129, 254, 255, 256}
	for _, bufCap := range bufCaps {
		for _, payloadLen := range []int{0, 1, bufCap / 2, bufCap - 1} {
			if payloadLen < 0 || payloadLen >= bufCap {
				continue
			}
			payload := make([]byte, payloadLen)
			for i := range payload {
				payload[i] = byte(i)
			}

			paddedLen := ((payloadLen + 2) / 3) * 3 // 3 * ceil(payloadLen/3)
			_, bodyReady, _, body, lastErr := pump(t, "application/octet-stream", payload, bufCap)

			if paddedLen > bufCap {
				if lastErr != ErrorDataTooLarge {
					t.Fatalf("bufCap=%d payloadLen=%d: lastErr = %v, want ErrorDataTooLarge", bufCap, payloadLen, lastErr)
				}
				continue
			}
			if lastErr.IsError() {
				t.Fatalf("bufCap=%d payloadLen=%d: unexpected decoder error %v", bufCap, payloadLen, lastErr)
			}
			if !bodyReady {
				t.Fatalf("bufCap=%d payloadLen=%d: BodyReady never observed", bufCap, payloadLen)
			}
			if !bytes.Equal(body, payload) {
				t.Errorf("bufCap=%d payloadLen=%d: body mismatch", bufCap, payloadLen)
			}
		}
	}
}

// TestRoundTripBufferTooSmall is scenario 4 from spec.md §8: a 46-byte
// payload into a 20-byte buffer must fail with ErrorDataTooLarge before
// BodyReady.
func TestRoundTripBufferTooSmall(t *testing.T) {
	payload := make([]byte, 46)
	headerReady, bodyReady, _, _, lastErr := pump(t, "application/text", payload, 20)
	if lastErr != ErrorDataTooLarge {
		t.Fatalf("lastErr = %v, want ErrorDataTooLarge", lastErr)
	}
	if bodyReady {
		t.Error("BodyReady observed despite buffer overflow")
	}
	_ = headerReady // header parsing succeeds before the body overflows; not asserted either way
}

// TestRoundTripMimeTypeSizes is scenario 6 from spec.md §8.
func TestRoundTripMimeTypeSizes(t *testing.T) {
	for n := 0; n <= 20; n++ {
		mime := strings.Repeat("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 1)[:n]
		payload := []byte("x")
		_, bodyReady, gotMime, gotBody, lastErr := pump(t, mime, payload, 64)
		if lastErr.IsError() {
			t.Fatalf("mimeLen=%d: unexpected error %v", n, lastErr)
		}
		if !bodyReady {
			t.Fatalf("mimeLen=%d: BodyReady never observed", n)
		}
		if gotMime != mime {
			t.Errorf("mimeLen=%d: MimeType = %q, want %q", n, gotMime, mime)
		}
		if !bytes.Equal(gotBody, payload) {
			t.Errorf("mimeLen=%d: body mismatch", n)
		}
	}
}

// TestResyncAfterError checks that the decoder recovers on the next
// MessageBegin after an error.
func TestResyncAfterError(t *testing.T) {
	var d Decoder
	buf := make([]byte, 8)
	d.ProvideDataBuffer(buf)

	d.ReadFloat(float32(MessageBegin))
	d.ReadFloat(float32(Version))
	// A zero version is out of the supported (0, CurrentVersion] range;
	// what matters here is that the next MessageBegin still resynchronises
	// cleanly regardless of this error.
	d.ReadFloat(float32(0))

	// Resynchronise and run a full, valid message through.
	var e Encoder
	e.InitiateMessage("text/plain", []byte("ok"))
	var f float32
	for {
		er := e.GetNextMessageFloat(&f)
		dr := d.ReadFloat(f)
		if dr == BodyReady {
			break
		}
		if er == MessageComplete {
			break
		}
	}
	if d.MimeType() != "text/plain" {
		t.Errorf("after resync, MimeType = %q, want %q", d.MimeType(), "text/plain")
	}
}
