package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrPayloadTooLarge   = errors.New("protocol: payload too large")
	ErrMalformedPacket   = errors.New("protocol: malformed packet")
	ErrProtocolVersion   = errors.New("protocol: unsupported version")
	ErrUnknownPacketType = errors.New("protocol: unknown packet type")
	ErrDuplicateType     = errors.New("protocol: packet type already registered")
)

// PayloadTooLargeError is returned at encode time when a payload does not fit
// the one-byte length field.
type PayloadTooLargeError struct {
	Limit  int
	Actual int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("protocol: payload too large: %d bytes (limit %d)", e.Actual, e.Limit)
}

func (e *PayloadTooLargeError) Is(target error) bool {
	return target == ErrPayloadTooLarge
}

// MalformedPacketError is returned when bytes cannot be turned into a packet,
// or a packet value cannot be represented on the wire.
type MalformedPacketError struct {
	Reason string
}

func (e *MalformedPacketError) Error() string {
	return "protocol: malformed packet: " + e.Reason
}

func (e *MalformedPacketError) Is(target error) bool {
	return target == ErrMalformedPacket
}

// ProtocolVersionError reports a header version newer than this implementation.
type ProtocolVersionError struct {
	MaxSupported uint16
	Got          uint16
}

func (e *ProtocolVersionError) Error() string {
	return fmt.Sprintf("protocol: unsupported version 0x%04x (max supported 0x%04x)", e.Got, e.MaxSupported)
}

func (e *ProtocolVersionError) Is(target error) bool {
	return target == ErrProtocolVersion
}

// UnknownPacketTypeError reports a type tag with no registered payload codec.
type UnknownPacketTypeError struct {
	Tag PacketType
}

func (e *UnknownPacketTypeError) Error() string {
	return fmt.Sprintf("protocol: unknown packet type 0x%02x", uint8(e.Tag))
}

func (e *UnknownPacketTypeError) Is(target error) bool {
	return target == ErrUnknownPacketType
}

func malformed(format string, args ...any) error {
	return &MalformedPacketError{Reason: fmt.Sprintf(format, args...)}
}
