package mqtt

import "context"

// Publisher delivers a payload to an MQTT topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
