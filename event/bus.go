package event

// Bus fans engine-wide events out to subscribers in subscription order. It is
// synchronous and meant to be used from the simulation goroutine only.
type Bus struct {
	subscribers []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback for every published event.
func (b *Bus) Subscribe(fn func(Event)) {
	if b == nil || fn == nil {
		return
	}
	b.subscribers = append(b.subscribers, fn)
}

// Publish delivers e until a subscriber marks it handled.
func (b *Bus) Publish(e Event) {
	if b == nil || e == nil {
		return
	}
	for _, fn := range b.subscribers {
		if e.Handled() {
			return
		}
		fn(e)
	}
}

// On subscribes fn to events of type T only.
func On[T Event](b *Bus, fn func(T) bool) {
	b.Subscribe(func(e Event) {
		Dispatch(e, fn)
	})
}
