package protocol

import "encoding/binary"

// DecodeHeader parses the fixed preamble at the start of b. It returns the
// header and the offset at which the payload begins. The declared payload
// length is not checked against len(b); that is the caller's job.
func DecodeHeader(b []byte) (Header, int, error) {
	if len(b) < HeaderSize {
		return Header{}, 0, malformed("short header: %d bytes", len(b))
	}
	if magic := binary.BigEndian.Uint16(b[0:2]); magic != Magic {
		return Header{}, 0, malformed("invalid magic 0x%04x", magic)
	}
	h := Header{
		Version:      binary.BigEndian.Uint16(b[2:4]),
		Type:         PacketType(b[4]),
		ConnectionID: binary.BigEndian.Uint16(b[5:7]),
		PayloadLen:   b[7],
	}
	// Older versions are accepted as-is.
	if h.Version > Version {
		return Header{}, 0, &ProtocolVersionError{MaxSupported: Version, Got: h.Version}
	}
	return h, HeaderSize, nil
}

// Decode turns one complete frame into a typed packet. Nothing is returned
// unless the whole frame is valid.
func (c *Codec) Decode(b []byte) (Packet, error) {
	h, offset, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	payload := b[offset:]
	if len(payload) != int(h.PayloadLen) {
		return nil, malformed("payload length %d does not match header length %d", len(payload), h.PayloadLen)
	}
	pc, ok := c.registry.Lookup(h.Type)
	if !ok {
		return nil, &UnknownPacketTypeError{Tag: h.Type}
	}
	return pc.DecodePayload(h.ConnectionID, payload)
}
