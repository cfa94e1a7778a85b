package upload

import (
	"context"

	"github.com/botpost/courier/metrics"
)

// InstrumentedTransport wraps a Transport and records send metrics.
// Each Send increments send_success or send_failure and, on success,
// adds the framed body length to bytes_sent.
type InstrumentedTransport struct {
	inner     Transport
	collector *metrics.Collector
}

// NewInstrumentedTransport wraps a transport with metrics instrumentation.
func NewInstrumentedTransport(inner Transport, collector *metrics.Collector) *InstrumentedTransport {
	return &InstrumentedTransport{inner: inner, collector: collector}
}

// Send delegates to the inner transport and records success or failure.
func (t *InstrumentedTransport) Send(ctx context.Context, req *SendRequest) (*Response, error) {
	resp, err := t.inner.Send(ctx, req)
	if err != nil {
		t.collector.IncSendFailure()
		return nil, err
	}
	t.collector.IncSendSuccess()
	t.collector.AddBytesSent(req.Plan.TotalLength())
	return resp, nil
}

// Close delegates to the inner transport.
func (t *InstrumentedTransport) Close() error {
	return t.inner.Close()
}

// Verify InstrumentedTransport implements Transport.
var _ Transport = (*InstrumentedTransport)(nil)
