package catalog

import (
	"fmt"

	"github.com/danmuck/burrow/internal/logging"
	"github.com/danmuck/burrow/internal/observability"
	"github.com/danmuck/burrow/internal/protocol"
	"github.com/rs/zerolog"
)

// Responder turns raw request frames into raw response frames. It never
// returns a decode failure to the caller; those become ErrBadRequest packets.
type Responder struct {
	catalog *Catalog
	codec   *protocol.Codec
	logger  zerolog.Logger
}

func NewResponder(c *Catalog, codec *protocol.Codec) *Responder {
	if codec == nil {
		codec = protocol.NewCodec(nil)
	}
	return &Responder{
		catalog: c,
		codec:   codec,
		logger:  logging.Component("catalog"),
	}
}

func (r *Responder) Respond(frame []byte) ([]byte, error) {
	resp, out, err := r.handle(frame)
	if err != nil {
		observability.LogCodecError(r.logger, observability.DirectionEncode, err)
		return nil, err
	}
	observability.LogPacket(r.logger, observability.DirectionEncode, resp)
	observability.RecordResponse(resp)
	return out, nil
}

func (r *Responder) handle(frame []byte) (protocol.Packet, []byte, error) {
	p, err := r.codec.Decode(frame)
	if err != nil {
		observability.LogCodecError(r.logger, observability.DirectionDecode, err)
		var connID uint16
		if h, _, herr := protocol.DecodeHeader(frame); herr == nil {
			connID = h.ConnectionID
		}
		return r.reject(protocol.ErrorResponse{
			ErrorID:      ErrBadRequest,
			Message:      "bad request: " + observability.ErrorKind(err),
			ConnectionID: connID,
		})
	}
	observability.LogPacket(r.logger, observability.DirectionDecode, p)

	req, ok := p.(protocol.Request)
	if !ok {
		return r.reject(protocol.ErrorResponse{
			ErrorID:      ErrBadRequest,
			Message:      "expected request, got " + p.Type().String(),
			ConnectionID: p.ConnID(),
		})
	}
	return r.catalog.ResolveFrame(r.codec, req)
}

func (r *Responder) reject(resp protocol.ErrorResponse) (protocol.Packet, []byte, error) {
	out, err := r.codec.Encode(resp)
	if err != nil {
		return resp, nil, fmt.Errorf("encode error response: %w", err)
	}
	return resp, out, nil
}
