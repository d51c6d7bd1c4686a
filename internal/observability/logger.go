package observability

import (
	"github.com/danmuck/burrow/internal/protocol"
	"github.com/rs/zerolog"
)

// LogPacket writes a debug line describing p and counts it.
func LogPacket(logger zerolog.Logger, direction string, p protocol.Packet) {
	RecordPacket(direction, p)
	logger.Debug().
		Str("direction", direction).
		Str("type", p.Type().String()).
		Uint16("conn_id", p.ConnID()).
		Msg(protocol.Describe(p))
}

// LogCodecError writes a warning for a failed encode or decode and counts it.
func LogCodecError(logger zerolog.Logger, direction string, err error) {
	RecordCodecError(direction, err)
	logger.Warn().
		Str("direction", direction).
		Str("kind", ErrorKind(err)).
		Err(err).
		Msg("codec failure")
}
