package ctxutil

import (
	"context"
	"testing"
)

func TestTraceDataRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t-1", RequestID: "r-1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t-1" || td.RequestID != "r-1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}

	fields := LogFields(ctx)
	if len(fields) != 4 || fields[1] != "t-1" || fields[3] != "r-1" {
		t.Fatalf("unexpected log fields: %v", fields)
	}
}

func TestTraceDataMissing(t *testing.T) {
	t.Parallel()

	if td := GetTraceData(context.Background()); td != nil {
		t.Fatalf("expected nil trace data, got %+v", td)
	}
	if fields := LogFields(context.Background()); fields != nil {
		t.Fatalf("expected nil fields, got %v", fields)
	}
}
