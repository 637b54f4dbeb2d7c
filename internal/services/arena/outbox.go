package arena

import "github.com/mcoot/rpsarena/internal/model"

// Notification is one outbound event produced by an engine operation
type Notification struct {
	To        model.Handle // ignored when Broadcast is set
	Broadcast bool
	Event     model.EventType
	Payload   any
}

// Outbox collects notifications in the order they must be delivered
type Outbox []Notification

func (o *Outbox) send(to model.Handle, event model.EventType, payload any) {
	*o = append(*o, Notification{To: to, Event: event, Payload: payload})
}

func (o *Outbox) broadcast(event model.EventType, payload any) {
	*o = append(*o, Notification{Broadcast: true, Event: event, Payload: payload})
}

// For returns the notifications a given handle receives, in order
func (o Outbox) For(handle model.Handle) []Notification {
	var result []Notification
	for _, n := range o {
		if n.Broadcast || n.To == handle {
			result = append(result, n)
		}
	}
	return result
}
