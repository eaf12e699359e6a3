package kafkax

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, ,kafka-2:9092 ")
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
	if SplitBrokers("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestReadyCheck_NoBrokers(t *testing.T) {
	if err := ReadyCheck("")(context.Background()); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestHeadersSetReplaces(t *testing.T) {
	h := Headers{{Key: "a", Value: []byte("1")}}
	h.Set("a", "2")
	h.Set("b", "3")
	if len(h) != 2 || h.Get("a") != "2" || h.Get("b") != "3" {
		t.Fatalf("unexpected headers: %v", h)
	}
	if h.Get("missing") != "" {
		t.Fatalf("expected empty value for a missing key")
	}
}

func TestEventHeadersCarryTrace(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := EventHeaders(ctx, "evt-1", "booking.created.v1")
	if headers.Get("traceparent") == "" {
		t.Fatalf("expected traceparent header, got %v", headers)
	}
	if headers.Get(HeaderEventType) != "booking.created.v1" {
		t.Fatalf("event_type header lost: %v", headers)
	}

	got := trace.SpanContextFromContext(ExtractTraceContext(context.Background(), kafka.Message{Headers: headers}))
	if got.TraceID() != traceID {
		t.Fatalf("expected trace id %s, got %s", traceID, got.TraceID())
	}
}
