// Package broker is the fan-out primitive behind live delivery. Delivery
// is best-effort and at-most-once per subscriber; durable storage, not the
// broker, is the system of record.
package broker

import "context"

// Subscriber receives published payloads. Deliver must not block; an
// implementation that cannot accept a payload drops it.
type Subscriber interface {
	Deliver(payload []byte)
}

type Broker interface {
	Subscribe(group string, sub Subscriber)
	Unsubscribe(group string, sub Subscriber)
	// Publish fans the payload out to current subscribers of the group.
	// It never blocks on slow consumers.
	Publish(ctx context.Context, group string, payload []byte) error
}
