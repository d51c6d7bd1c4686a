package catalog

import (
	"errors"
	"fmt"

	"github.com/danmuck/burrow/internal/protocol"
)

// Error ids carried by ErrorResponse packets.
const (
	ErrNotFound   uint8 = 0x01
	ErrBadRequest uint8 = 0x02
	ErrTooLarge   uint8 = 0x03
	ErrInternal   uint8 = 0x04
)

var defaultCodec = protocol.NewCodec(nil)

// Resolve answers req from the catalog. The response always echoes the
// request's connection id.
func (c *Catalog) Resolve(req protocol.Request) protocol.Packet {
	resp, _, err := c.ResolveFrame(defaultCodec, req)
	if err != nil {
		return protocol.ErrorResponse{ErrorID: ErrInternal, Message: "internal error", ConnectionID: req.ConnectionID}
	}
	return resp
}

// ResolveFrame answers req and encodes the answer with codec. An answer the
// codec rejects is replaced by an ErrorResponse, which is encoded instead.
func (c *Catalog) ResolveFrame(codec *protocol.Codec, req protocol.Request) (protocol.Packet, []byte, error) {
	resp := c.answer(req)
	out, err := codec.Encode(resp)
	if err == nil {
		return resp, out, nil
	}

	id, msg := ErrInternal, "resource cannot be encoded"
	if errors.Is(err, protocol.ErrPayloadTooLarge) {
		id, msg = ErrTooLarge, fmt.Sprintf("resource %d too large", req.ResourceID)
	}
	resp = protocol.ErrorResponse{ErrorID: id, Message: msg, ConnectionID: req.ConnectionID}
	if out, err = codec.Encode(resp); err != nil {
		return resp, nil, fmt.Errorf("encode fallback response: %w", err)
	}
	return resp, out, nil
}

func (c *Catalog) answer(req protocol.Request) protocol.Packet {
	res, ok := c.resources[req.ResourceID]
	if !ok {
		return protocol.ErrorResponse{
			ErrorID:      ErrNotFound,
			Message:      fmt.Sprintf("resource %d not found", req.ResourceID),
			ConnectionID: req.ConnectionID,
		}
	}

	switch res.Kind {
	case KindDirectory:
		entries := make([]protocol.DirectoryEntry, 0, len(res.Entries))
		for _, id := range res.Entries {
			entries = append(entries, protocol.DirectoryEntry{EntryID: id, Name: c.resources[id].Name})
		}
		return protocol.DirectoryResponse{Entries: entries, ConnectionID: req.ConnectionID}
	default:
		return protocol.ArticleResponse{Article: res.Body, ConnectionID: req.ConnectionID}
	}
}
