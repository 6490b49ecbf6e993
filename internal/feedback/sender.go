package feedback

import (
	"context"
	"time"
)

// DefaultDelay is the simulated latency of MockSender.
const DefaultDelay = time.Second

// MockSender accepts every complete form after a simulated delay.
type MockSender struct {
	delay time.Duration
}

// NewMockSender creates a mock sender. A negative delay is treated as zero.
func NewMockSender(delay time.Duration) *MockSender {
	return &MockSender{delay: max(delay, 0)}
}

// Send implements Sender. It rejects incomplete forms the same way Form.Validate does.
func (m *MockSender) Send(ctx context.Context, form Form) error {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return form.Trimmed().Validate()
}
