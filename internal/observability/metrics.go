package observability

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/danmuck/burrow/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	DirectionEncode = "encode"
	DirectionDecode = "decode"
)

var (
	registerOnce sync.Once

	codecPackets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "codec",
			Name:      "packets_total",
			Help:      "Packets successfully encoded or decoded.",
		},
		[]string{"direction", "type"},
	)
	codecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "codec",
			Name:      "errors_total",
			Help:      "Encode and decode failures by error kind.",
		},
		[]string{"direction", "kind"},
	)
	catalogResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "burrow",
			Subsystem: "catalog",
			Name:      "responses_total",
			Help:      "Responses produced by the catalog responder.",
		},
		[]string{"type", "error_id"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecPackets, codecErrors, catalogResponses)
	})
}

func RecordPacket(direction string, p protocol.Packet) {
	RegisterMetrics()
	codecPackets.WithLabelValues(direction, p.Type().String()).Inc()
}

func RecordCodecError(direction string, err error) {
	RegisterMetrics()
	codecErrors.WithLabelValues(direction, ErrorKind(err)).Inc()
}

func RecordResponse(p protocol.Packet) {
	RegisterMetrics()
	errorID := ""
	if resp, ok := p.(protocol.ErrorResponse); ok {
		errorID = strconv.Itoa(int(resp.ErrorID))
	}
	catalogResponses.WithLabelValues(p.Type().String(), errorID).Inc()
}

// ErrorKind maps a codec error onto a bounded label value.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, protocol.ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, protocol.ErrMalformedPacket):
		return "malformed_packet"
	case errors.Is(err, protocol.ErrProtocolVersion):
		return "protocol_version"
	case errors.Is(err, protocol.ErrUnknownPacketType):
		return "unknown_packet_type"
	default:
		return "other"
	}
}

// WriteMetrics dumps every burrow metric family in the text exposition format.
func WriteMetrics(w io.Writer) error {
	RegisterMetrics()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "burrow_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
