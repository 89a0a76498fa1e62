/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the tagged result enums returned by Encoder and Decoder
  methods. Each carries a single high error-flag bit so that a caller can
  distinguish success from failure with one IsError test, without paying
  for a Go error allocation on every sample.

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

// errorFlag is set on every *Result value that represents a failure.
const errorFlag = 0x80

// EncoderResult is returned by every Encoder method call.
type EncoderResult uint8

// Encoder results. Values with errorFlag set are failures; all others are
// successes.
const (
	Dormant           EncoderResult = 0
	EncodingMessage   EncoderResult = 1
	MessageComplete   EncoderResult = 2
	MessageInitiated  EncoderResult = 3
	MessageTerminated EncoderResult = 4

	ErrorMissingMimeType      EncoderResult = errorFlag | 0
	ErrorMissingData          EncoderResult = errorFlag | 1
	ErrorMessageTooLarge      EncoderResult = errorFlag | 2
	ErrorMimeTypeTooLarge     EncoderResult = errorFlag | 3
	ErrorMessageAlreadyActive EncoderResult = errorFlag | 4
	ErrorNoMessageActive      EncoderResult = errorFlag | 5
	ErrorEncoderUnknown       EncoderResult = errorFlag | 6
)

// IsError reports whether r represents a failed call.
func (r EncoderResult) IsError() bool { return r&errorFlag != 0 }

// String returns a human-readable name for r, for logging and tests.
func (r EncoderResult) String() string {
	switch r {
	case Dormant:
		return "DORMANT"
	case EncodingMessage:
		return "ENCODING_MESSAGE"
	case MessageComplete:
		return "MESSAGE_COMPLETE"
	case MessageInitiated:
		return "MESSAGE_INITIATED"
	case MessageTerminated:
		return "MESSAGE_TERMINATED"
	case ErrorMissingMimeType:
		return "ERROR_MISSING_MIME_TYPE"
	case ErrorMissingData:
		return "ERROR_MISSING_DATA"
	case ErrorMessageTooLarge:
		return "ERROR_MESSAGE_TOO_LARGE"
	case ErrorMimeTypeTooLarge:
		return "ERROR_MIME_TYPE_TOO_LARGE"
	case ErrorMessageAlreadyActive:
		return "ERROR_MESSAGE_ALREADY_ACTIVE"
	case ErrorNoMessageActive:
		return "ERROR_NO_MESSAGE_ACTIVE"
	case ErrorEncoderUnknown:
		return "ERROR_UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// DecoderResult is returned by every Decoder.ReadFloat call.
type DecoderResult uint8

// Decoder results. Values with errorFlag set are failures; all others are
// successes.
const (
	DecoderDormant DecoderResult = 0
	ParsingHeader  DecoderResult = 1
	HeaderReady    DecoderResult = 2
	ParsingBody    DecoderResult = 3
	BodyReady      DecoderResult = 4

	ErrorIncompatibleVersion DecoderResult = errorFlag | 0
	ErrorMalformedHeader     DecoderResult = errorFlag | 1
	ErrorDataTooLarge        DecoderResult = errorFlag | 2
	ErrorUnknown             DecoderResult = errorFlag | 3
)

// IsError reports whether r represents a failed call.
func (r DecoderResult) IsError() bool { return r&errorFlag != 0 }

// String returns a human-readable name for r, for logging and tests.
func (r DecoderResult) String() string {
	switch r {
	case DecoderDormant:
		return "DORMANT"
	case ParsingHeader:
		return "PARSING_HEADER"
	case HeaderReady:
		return "HEADER_READY"
	case ParsingBody:
		return "PARSING_BODY"
	case BodyReady:
		return "BODY_READY"
	case ErrorIncompatibleVersion:
		return "ERROR_INCOMPATIBLE_VERSION"
	case ErrorMalformedHeader:
		return "ERROR_MALFORMED_HEADER"
	case ErrorDataTooLarge:
		return "ERROR_DATA_TOO_LARGE"
	case ErrorUnknown:
		return "ERROR_UNKNOWN"
	default:
		return "UNKNOWN"
	}
}
