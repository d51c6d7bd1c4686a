package protocol

import "encoding/binary"

const requestPayloadLen = 2

type requestCodec struct{}

func (requestCodec) EncodePayload(p Packet) ([]byte, error) {
	req, ok := p.(Request)
	if !ok {
		return nil, wrongType(TypeRequest, p)
	}
	buf := make([]byte, requestPayloadLen)
	binary.BigEndian.PutUint16(buf, req.ResourceID)
	return buf, nil
}

func (requestCodec) DecodePayload(connID uint16, payload []byte) (Packet, error) {
	if len(payload) != requestPayloadLen {
		return nil, malformed("request payload is %d bytes, want %d", len(payload), requestPayloadLen)
	}
	return Request{
		ResourceID:   binary.BigEndian.Uint16(payload),
		ConnectionID: connID,
	}, nil
}
