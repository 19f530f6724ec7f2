package cart

import "context"

// ItemAddedEvent carries the resulting line and the quantity delta of an add
// operation. Consumers (notification surfaces) rely on this payload shape.
type ItemAddedEvent struct {
	Item          LineItem `json:"item"`
	QuantityDelta int      `json:"quantity_delta"`
}

// ItemAddedListener receives item-added events synchronously after the
// mutation has been applied.
type ItemAddedListener func(ctx context.Context, event ItemAddedEvent)
