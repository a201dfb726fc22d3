// Package input carries keyboard lines from a reader goroutine to the simulation loop.
package input

// Mailbox is a single-slot hand-off between one producer and one consumer.
// Post never blocks: an unconsumed value is replaced by the newer one.
type Mailbox[T any] struct {
	ch chan T
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Post stores v, dropping any value that has not been taken yet.
func (m *Mailbox[T]) Post(v T) {
	for {
		select {
		case m.ch <- v:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

// TryTake returns the pending value, if any, and empties the slot.
func (m *Mailbox[T]) TryTake() (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// C exposes the slot for use in select statements. Receiving from it takes the value.
func (m *Mailbox[T]) C() <-chan T { return m.ch }
