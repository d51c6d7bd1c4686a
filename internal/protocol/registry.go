package protocol

import (
	"fmt"
	"sync"
)

// PayloadCodec owns the payload layout of one packet type. DecodePayload
// receives the connection id from the already-validated header.
type PayloadCodec interface {
	EncodePayload(p Packet) ([]byte, error)
	DecodePayload(connID uint16, payload []byte) (Packet, error)
}

// Registry maps type tags to payload codecs. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[PacketType]PayloadCodec
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[PacketType]PayloadCodec)}
}

// DefaultRegistry returns a new registry holding the built-in packet types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister(TypeRequest, requestCodec{})
	r.mustRegister(TypeDirectoryResponse, directoryCodec{})
	r.mustRegister(TypeArticleResponse, articleCodec{})
	r.mustRegister(TypeErrorResponse, errorCodec{})
	return r
}

func (r *Registry) Register(t PacketType, c PayloadCodec) error {
	if c == nil {
		return fmt.Errorf("protocol: nil codec for %s", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codecs[t]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, t)
	}
	r.codecs[t] = c
	return nil
}

func (r *Registry) Lookup(t PacketType) (PayloadCodec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[t]
	return c, ok
}

// Types lists the registered tags in ascending order.
func (r *Registry) Types() []PacketType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PacketType, 0, len(r.codecs))
	for t := 0; t <= 0xFF; t++ {
		if _, ok := r.codecs[PacketType(t)]; ok {
			out = append(out, PacketType(t))
		}
	}
	return out
}

func (r *Registry) mustRegister(t PacketType, c PayloadCodec) {
	if err := r.Register(t, c); err != nil {
		panic(err)
	}
}
