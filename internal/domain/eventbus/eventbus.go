package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Bus is the synchronous publish/subscribe bus shared by a single run.
type Bus = evbus.Bus

// New creates a new synchronous event bus.
func New() Bus {
	return evbus.New()
}

// SubscribeAll registers handler for every topic in topics.
func SubscribeAll(bus Bus, handlers map[string]interface{}) error {
	for topic, fn := range handlers {
		if err := bus.Subscribe(topic, fn); err != nil {
			return err
		}
	}
	return nil
}
