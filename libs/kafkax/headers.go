package kafkax

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// Headers is a kafka header list usable as an otel TextMapCarrier. Set may
// grow the slice, so the carrier is always *Headers.
type Headers []kafka.Header

var _ propagation.TextMapCarrier = (*Headers)(nil)

// EventHeaders tags a message with its event id and type plus the W3C trace
// context found in ctx.
func EventHeaders(ctx context.Context, eventID, eventType string) Headers {
	h := Headers{
		{Key: HeaderEventID, Value: []byte(eventID)},
		{Key: HeaderEventType, Value: []byte(eventType)},
	}
	otel.GetTextMapPropagator().Inject(ctx, &h)
	return h
}

// ExtractTraceContext restores the producer's span context from msg.
func ExtractTraceContext(ctx context.Context, msg kafka.Message) context.Context {
	h := Headers(msg.Headers)
	return otel.GetTextMapPropagator().Extract(ctx, &h)
}

func (h Headers) Get(key string) string {
	for _, hdr := range h {
		if hdr.Key == key {
			return string(hdr.Value)
		}
	}
	return ""
}

func (h Headers) Keys() []string {
	keys := make([]string, len(h))
	for i, hdr := range h {
		keys[i] = hdr.Key
	}
	return keys
}

func (h *Headers) Set(key, value string) {
	for i := range *h {
		if (*h)[i].Key == key {
			(*h)[i].Value = []byte(value)
			return
		}
	}
	*h = append(*h, kafka.Header{Key: key, Value: []byte(value)})
}
