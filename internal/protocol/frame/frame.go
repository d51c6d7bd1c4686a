package frame

import (
	"errors"
	"io"

	"github.com/danmuck/burrow/internal/protocol"
)

var (
	ErrShortHeader  = errors.New("frame: short fixed header")
	ErrShortPayload = errors.New("frame: short payload")
)

// ReadFrame reads exactly one packet frame (header plus declared payload)
// from r. The header is validated before the payload is read; the payload is
// not decoded.
func ReadFrame(r io.Reader) ([]byte, error) {
	buf := make([]byte, protocol.HeaderSize, protocol.HeaderSize+protocol.MaxPayloadLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortHeader
		}
		return nil, err
	}

	h, offset, err := protocol.DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	buf = buf[:offset+int(h.PayloadLen)]
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, buf[offset:]); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, ErrShortPayload
			}
			return nil, err
		}
	}
	return buf, nil
}

// ReadPacket reads one frame from r and decodes it with c.
func ReadPacket(r io.Reader, c *protocol.Codec) (protocol.Packet, error) {
	b, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return c.Decode(b)
}

// WriteFrame encodes p with c and writes it to w in a single call.
func WriteFrame(w io.Writer, c *protocol.Codec, p protocol.Packet) error {
	b, err := c.Encode(p)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
