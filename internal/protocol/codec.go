package protocol

import (
	"fmt"
	"unicode/utf8"
)

// Codec combines the header codec with a payload registry. It is the only
// place wire bytes become packets and back.
type Codec struct {
	registry *Registry
}

// NewCodec returns a codec backed by reg, or by DefaultRegistry when reg is nil.
func NewCodec(reg *Registry) *Codec {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Codec{registry: reg}
}

var defaultCodec = NewCodec(nil)

func Encode(p Packet) ([]byte, error) {
	return defaultCodec.Encode(p)
}

func Decode(b []byte) (Packet, error) {
	return defaultCodec.Decode(b)
}

func EncodePending(a *Allocator, p PendingRequest) (Request, []byte, error) {
	return defaultCodec.EncodePending(a, p)
}

// Describe renders p on one line for logs and tooling.
func Describe(p Packet) string {
	switch v := p.(type) {
	case Request:
		return fmt.Sprintf("request conn=0x%04x resource=%d", v.ConnectionID, v.ResourceID)
	case DirectoryResponse:
		return fmt.Sprintf("directory conn=0x%04x entries=%v", v.ConnectionID, v.Entries)
	case ArticleResponse:
		return fmt.Sprintf("article conn=0x%04x text=%q", v.ConnectionID, v.Article)
	case ErrorResponse:
		return fmt.Sprintf("error conn=0x%04x id=%d message=%q", v.ConnectionID, v.ErrorID, v.Message)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%s conn=0x%04x", p.Type(), p.ConnID())
	}
}

func checkText(field string, b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", malformed("%s is not valid utf-8", field)
	}
	return string(b), nil
}

func wrongType(want PacketType, p Packet) error {
	return malformed("%s codec cannot encode %T", want, p)
}
