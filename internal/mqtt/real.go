package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/sweeney/bin-sensor/internal/logic"
)

// pendingCapacity bounds how many messages are held while the broker is
// unreachable. At the 100ms loop cadence edge events are rare, so this
// covers hours of typical outage.
const pendingCapacity = 256

// RealPublisher publishes to an actual MQTT broker. While disconnected it
// buffers messages and replays them in order once the connection returns.
type RealPublisher struct {
	client paho.Client
	log    *zap.SugaredLogger

	mu            sync.Mutex
	pending       *ringBuffer
	connectedOnce bool
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string, log *zap.SugaredLogger) (*RealPublisher, error) {
	p := &RealPublisher{
		log:     log,
		pending: newRingBuffer(pendingCapacity, log),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("bin-sensor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a bin alert event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.publish(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.pending.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.pending.len()
		p.mu.Unlock()
		p.log.Debugw("broker unreachable, message buffered", "topic", topic, "pending", n)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// onConnect fires on every (re)connection. After a reconnect it announces
// recovery and replays anything buffered while offline, oldest first.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	first := !p.connectedOnce
	p.connectedOnce = true
	msgs := p.pending.drainAll()
	p.mu.Unlock()

	if first {
		return
	}

	reconnected, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "RECONNECTED",
	})
	if err == nil {
		client.Publish(TopicSystem, 1, false, reconnected)
	}

	if len(msgs) == 0 {
		return
	}
	p.log.Infow("broker reconnected, replaying buffered messages", "count", len(msgs))
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			p.log.Warnw("replay publish timeout", "topic", m.topic)
		} else if err := token.Error(); err != nil {
			p.log.Warnw("replay publish failed", "topic", m.topic, "err", err)
		}
	}
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	p.log.Warnw("broker connection lost", "err", err)
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
