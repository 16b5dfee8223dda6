package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

var bus EventBus.Bus

func Init() {
	bus = EventBus.New()
}

// Publish emits an event on the side channel. Reconciliation code publishes
// here instead of threading observability through its return values; when
// the bus has not been initialized the event is silently dropped, so library
// use without Init stays safe.
func Publish(topic string, event interface{}) {
	if bus == nil {
		return
	}

	bus.Publish(topic, event)
}

// Subscribe registers a callback for a topic, initializing the bus on first
// use so subscription order relative to Init does not matter.
func Subscribe(topic string, callbackFn interface{}) error {
	if bus == nil {
		Init()
	}

	if err := bus.SubscribeAsync(topic, callbackFn, false); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}
