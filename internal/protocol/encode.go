package protocol

import "encoding/binary"

// EncodeHeader builds the fixed 8-byte preamble for a payload of payloadLen bytes.
func EncodeHeader(t PacketType, connID uint16, payloadLen int) ([]byte, error) {
	if payloadLen < 0 {
		return nil, malformed("negative payload length %d", payloadLen)
	}
	if payloadLen > MaxPayloadLen {
		return nil, &PayloadTooLargeError{Limit: MaxPayloadLen, Actual: payloadLen}
	}
	buf := make([]byte, HeaderSize, HeaderSize+payloadLen)
	binary.BigEndian.PutUint16(buf[0:2], Magic)
	binary.BigEndian.PutUint16(buf[2:4], Version)
	buf[4] = byte(t)
	binary.BigEndian.PutUint16(buf[5:7], connID)
	buf[7] = byte(payloadLen)
	return buf, nil
}

// Encode serializes p as header ++ payload.
func (c *Codec) Encode(p Packet) ([]byte, error) {
	if p == nil {
		return nil, malformed("nil packet")
	}
	pc, ok := c.registry.Lookup(p.Type())
	if !ok {
		return nil, &UnknownPacketTypeError{Tag: p.Type()}
	}
	payload, err := pc.EncodePayload(p)
	if err != nil {
		return nil, err
	}
	out, err := EncodeHeader(p.Type(), p.ConnID(), len(payload))
	if err != nil {
		return nil, err
	}
	return append(out, payload...), nil
}

// EncodePending assigns a connection id to p using a and encodes the result.
// The assigned request is returned so callers can correlate the response.
func (c *Codec) EncodePending(a *Allocator, p PendingRequest) (Request, []byte, error) {
	req := a.Assign(p)
	out, err := c.Encode(req)
	if err != nil {
		return Request{}, nil, err
	}
	return req, out, nil
}
