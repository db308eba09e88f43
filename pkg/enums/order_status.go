package enums

import "fmt"

// OrderStatus tracks the fulfillment pipeline of a vendor order.
// The pipeline is strictly ordered; transitions only move forward.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusReceived         OrderStatus = "RECEIVED"
	OrderStatusReadyForShipping OrderStatus = "READY_FOR_SHIPPING"
	OrderStatusOutForDelivery   OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
)

// orderStatusPipeline holds the statuses in fulfillment order. Index position
// defines precedence for the forward-only transition rule.
var orderStatusPipeline = []OrderStatus{
	OrderStatusPending,
	OrderStatusReceived,
	OrderStatusReadyForShipping,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	return o.index() >= 0
}

// IsTerminal reports whether the status has no outgoing transitions.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered
}

// CanTransitionTo reports whether next is a legal forward transition from o.
// Backward and same-state transitions are rejected; DELIVERED is terminal.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from := o.index()
	to := next.index()
	if from < 0 || to < 0 {
		return false
	}
	return to > from
}

func (o OrderStatus) index() int {
	for i, candidate := range orderStatusPipeline {
		if candidate == o {
			return i
		}
	}
	return -1
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range orderStatusPipeline {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
