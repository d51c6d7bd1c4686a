package protocol

import "unicode/utf8"

type errorCodec struct{}

func (errorCodec) EncodePayload(p Packet) ([]byte, error) {
	resp, ok := p.(ErrorResponse)
	if !ok {
		return nil, wrongType(TypeErrorResponse, p)
	}
	if !utf8.ValidString(resp.Message) {
		return nil, malformed("error message is not valid utf-8")
	}
	buf := make([]byte, 0, 1+len(resp.Message))
	buf = append(buf, resp.ErrorID)
	return append(buf, resp.Message...), nil
}

func (errorCodec) DecodePayload(connID uint16, payload []byte) (Packet, error) {
	if len(payload) < 1 {
		return nil, malformed("error payload missing error id")
	}
	msg, err := checkText("error message", payload[1:])
	if err != nil {
		return nil, err
	}
	return ErrorResponse{
		ErrorID:      payload[0],
		Message:      msg,
		ConnectionID: connID,
	}, nil
}
