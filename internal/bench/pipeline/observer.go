package pipeline

//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks

import (
	"time"
)

// DeliveryEvent is emitted when a task's value is released in index order.
type DeliveryEvent struct {
	Strategy string
	Delivery Delivery
}

// FailureEvent is emitted when a task fails and again once it has recovered.
type FailureEvent struct {
	Strategy  string
	Index     int
	ContextID string
	Delay     time.Duration
	Err       error
}

// Observer receives pipeline events. Calls for one pipeline's deliveries
// are serialized and arrive in ascending index order; failure events may
// arrive concurrently from different contexts.
type Observer interface {
	OnDelivered(event DeliveryEvent)
	OnFailure(event FailureEvent)
	OnRecovered(event FailureEvent)
	OnCompleted(result *Result)
	OnTerminalError(strategy string, err error)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnDelivered(DeliveryEvent)     {}
func (NopObserver) OnFailure(FailureEvent)        {}
func (NopObserver) OnRecovered(FailureEvent)      {}
func (NopObserver) OnCompleted(*Result)           {}
func (NopObserver) OnTerminalError(string, error) {}
