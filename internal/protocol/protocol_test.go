package protocol

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func samplePackets() []Packet {
	return []Packet{
		Request{ResourceID: 0xAB12, ConnectionID: 0x1234},
		DirectoryResponse{
			Entries: []DirectoryEntry{
				{EntryID: 1, Name: "Foo"},
				{EntryID: 2, Name: "Bar"},
			},
			ConnectionID: 0xCCDD,
		},
		DirectoryResponse{ConnectionID: 7},
		ArticleResponse{Article: "foobarbaz", ConnectionID: 0x1234},
		ArticleResponse{Article: "", ConnectionID: 1},
		ErrorResponse{ErrorID: 0xAB, Message: "foobarbaz", ConnectionID: 0x1234},
		ErrorResponse{ErrorID: 0xBA, ConnectionID: 0xAB12},
	}
}

func TestRoundTripEncodeDecode(t *testing.T) {
	for _, in := range samplePackets() {
		b, err := Encode(in)
		if err != nil {
			t.Fatalf("encode %s: %v", Describe(in), err)
		}
		out, err := Decode(b)
		if err != nil {
			t.Fatalf("decode %s: %v", Describe(in), err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round-trip mismatch: got=%s want=%s", Describe(out), Describe(in))
		}
	}
}

func TestEncodedLengthByteMatchesPayload(t *testing.T) {
	for _, in := range samplePackets() {
		b, err := Encode(in)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if int(b[7]) != len(b)-HeaderSize {
			t.Fatalf("%s: length byte %d, payload %d", in.Type(), b[7], len(b)-HeaderSize)
		}
	}
}

func TestEncodeArticleBytes(t *testing.T) {
	b, err := Encode(ArticleResponse{Article: "foobarbaz", ConnectionID: 0x1234})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := append([]byte{0xBB, 0x50, 0x00, 0x01, 0x02, 0x12, 0x34, 9}, "foobarbaz"...)
	if !bytes.Equal(b, want) {
		t.Fatalf("unexpected bytes: % X", b)
	}
}

func TestEncodeErrorResponseBytes(t *testing.T) {
	b, err := Encode(ErrorResponse{ErrorID: 0xAB, Message: "foobarbaz", ConnectionID: 0x1234})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := append([]byte{0xBB, 0x50, 0x00, 0x01, 0x03, 0x12, 0x34, 10, 0xAB}, "foobarbaz"...)
	if !bytes.Equal(b, want) {
		t.Fatalf("unexpected bytes: % X", b)
	}
}

func TestEncodeRequestBytes(t *testing.T) {
	b, err := Encode(Request{ResourceID: 0xAB12, ConnectionID: 0x0102})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0xBB, 0x50, 0x00, 0x01, 0x00, 0x01, 0x02, 2, 0xAB, 0x12}
	if !bytes.Equal(b, want) {
		t.Fatalf("unexpected bytes: % X", b)
	}
}

func TestEncodePayloadLimit(t *testing.T) {
	if _, err := Encode(ArticleResponse{Article: strings.Repeat("a", MaxPayloadLen)}); err != nil {
		t.Fatalf("255-byte payload should encode: %v", err)
	}

	_, err := Encode(ArticleResponse{Article: strings.Repeat("a", MaxPayloadLen+1)})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	var tooLarge *PayloadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected *PayloadTooLargeError, got %T", err)
	}
	if tooLarge.Limit != 255 || tooLarge.Actual != 256 {
		t.Fatalf("unexpected limit/actual: %+v", tooLarge)
	}
}

func TestEncodeHeaderRejectsOversizedPayload(t *testing.T) {
	_, err := EncodeHeader(TypeRequest, 0, 256)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	full := []byte{0xBB, 0x50, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}
	for n := 0; n < HeaderSize; n++ {
		_, err := Decode(full[:n])
		if !errors.Is(err, ErrMalformedPacket) {
			t.Fatalf("len=%d: expected ErrMalformedPacket, got %v", n, err)
		}
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	b, err := Encode(Request{ResourceID: 1, ConnectionID: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b[0] = 0x00
	_, err = Decode(b)
	if !errors.Is(err, ErrMalformedPacket) {
		t.Fatalf("expected ErrMalformedPacket, got %v", err)
	}
}

func TestDecodeNewerVersionRejected(t *testing.T) {
	b, err := Encode(Request{ResourceID: 1, ConnectionID: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b[2], b[3] = 0x00, 0x02
	_, err = Decode(b)
	if !errors.Is(err, ErrProtocolVersion) {
		t.Fatalf("expected ErrProtocolVersion, got %v", err)
	}
	var verr *ProtocolVersionError
	if !errors.As(err, &verr) || verr.MaxSupported != Version || verr.Got != 2 {
		t.Fatalf("unexpected version error: %v", err)
	}
}

func TestDecodeOlderVersionAccepted(t *testing.T) {
	b, err := Encode(Request{ResourceID: 9, ConnectionID: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b[2], b[3] = 0x00, 0x00
	p, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.(Request).ResourceID != 9 {
		t.Fatalf("unexpected packet: %s", Describe(p))
	}
}

func TestDecodePayloadLengthMismatch(t *testing.T) {
	b, err := Encode(ArticleResponse{Article: "abc", ConnectionID: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(b[:len(b)-1]); !errors.Is(err, ErrMalformedPacket) {
		t.Fatalf("short payload: expected ErrMalformedPacket, got %v", err)
	}
	if _, err := Decode(append(b, 'x')); !errors.Is(err, ErrMalformedPacket) {
		t.Fatalf("trailing bytes: expected ErrMalformedPacket, got %v", err)
	}
}

func TestDecodeUnknownPacketType(t *testing.T) {
	payloads := [][]byte{nil, {0x01}, {0xAA, 0xBB, 0x1E}}
	for _, payload := range payloads {
		head, err := EncodeHeader(PacketType(0xFF), 0x1234, len(payload))
		if err != nil {
			t.Fatalf("encode header: %v", err)
		}
		_, err = Decode(append(head, payload...))
		var unknown *UnknownPacketTypeError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected UnknownPacketTypeError, got %v", err)
		}
		if unknown.Tag != 0xFF {
			t.Fatalf("unexpected tag: 0x%02x", uint8(unknown.Tag))
		}
	}
}

func TestDecodeRequestPayloadSize(t *testing.T) {
	for _, payload := range [][]byte{nil, {0x01}, {0x01, 0x02, 0x03}} {
		head, err := EncodeHeader(TypeRequest, 1, len(payload))
		if err != nil {
			t.Fatalf("encode header: %v", err)
		}
		if _, err := Decode(append(head, payload...)); !errors.Is(err, ErrMalformedPacket) {
			t.Fatalf("payload %v: expected ErrMalformedPacket, got %v", payload, err)
		}
	}
}

func TestDecodeErrorResponseRequiresErrorID(t *testing.T) {
	head, err := EncodeHeader(TypeErrorResponse, 1, 0)
	if err != nil {
		t.Fatalf("encode header: %v", err)
	}
	if _, err := Decode(head); !errors.Is(err, ErrMalformedPacket) {
		t.Fatalf("expected ErrMalformedPacket, got %v", err)
	}
}

func TestDecodeInvalidText(t *testing.T) {
	cases := []struct {
		typ     PacketType
		payload []byte
	}{
		{TypeArticleResponse, []byte{0xFF, 0xFE}},
		{TypeErrorResponse, []byte{0x01, 0xC3}},
		{TypeDirectoryResponse, []byte{0x00, 0x01, 0xC3, RecordSeparator}},
	}
	for _, tc := range cases {
		head, err := EncodeHeader(tc.typ, 1, len(tc.payload))
		if err != nil {
			t.Fatalf("encode header: %v", err)
		}
		if _, err := Decode(append(head, tc.payload...)); !errors.Is(err, ErrMalformedPacket) {
			t.Fatalf("%s: expected ErrMalformedPacket, got %v", tc.typ, err)
		}
	}
}

func TestEncodeRejectsInvalidText(t *testing.T) {
	if _, err := Encode(ArticleResponse{Article: "\xff"}); !errors.Is(err, ErrMalformedPacket) {
		t.Fatalf("expected ErrMalformedPacket, got %v", err)
	}
	if _, err := Encode(ErrorResponse{Message: "\xff"}); !errors.Is(err, ErrMalformedPacket) {
		t.Fatalf("expected ErrMalformedPacket, got %v", err)
	}
}
