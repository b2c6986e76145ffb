package tracer

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSetup_EmptyEndpoint(t *testing.T) {
	p, err := Setup(context.Background(), Config{ServiceName: "worldsync-test"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if p.Enabled() {
		t.Error("provider should be disabled without an endpoint")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown returned error: %v", err)
	}
}

func TestProvider_NilShutdown(t *testing.T) {
	var p *Provider
	if p.Enabled() {
		t.Error("nil provider should be disabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown returned error: %v", err)
	}
}

func TestStartEnd_Noop(t *testing.T) {
	ctx, span := Start(context.Background(), "test.span", attribute.String("stream", "planets"))
	if ctx == nil || span == nil {
		t.Fatal("Start returned nil")
	}
	End(span, errors.New("boom"))

	_, span = Start(ctx, "test.child")
	End(span, nil)
}
