package mqtthost

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/mqtt"
)

// ingestTimeout bounds one store write triggered by a message.
const ingestTimeout = 5 * time.Second

// MQTTClient is the subset of the MQTT client the bridge uses.
type MQTTClient interface {
	PublishJSON(topic string, v any, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	IsConnected() bool
	Topics() mqtt.Topics
}

// Store receives the host view carried by MQTT.
type Store interface {
	PutState(ctx context.Context, st *host.State) error
	RemoveState(ctx context.Context, entityID string) error
	PutEntity(ctx context.Context, e host.EntityEntry) error
	PutDevice(ctx context.Context, d host.DeviceEntry) error
	PutArea(ctx context.Context, a host.AreaEntry) error
}

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options holds what a bridge is built from.
type Options struct {
	MQTTClient MQTTClient
	Store      Store

	// QoS of the subscriptions. Default 1.
	QoS byte

	// Logger is optional.
	Logger Logger
}

// Bridge ingests host state from MQTT and publishes service calls and
// events back to the host.
type Bridge struct {
	mqtt   MQTTClient
	store  Store
	topics mqtt.Topics
	qos    byte

	stateCache   map[string]string
	stateCacheMu sync.Mutex

	ctx       context.Context
	ctxCancel context.CancelFunc
	stopOnce  sync.Once

	statesReceived atomic.Uint64
	callsSent      atomic.Uint64
	eventsSent     atomic.Uint64

	loggerMu sync.RWMutex
	logger   Logger
}

// NewBridge creates a bridge. Call Start to subscribe.
func NewBridge(opts Options) (*Bridge, error) {
	if opts.MQTTClient == nil {
		return nil, ErrMissingClient
	}
	if opts.Store == nil {
		return nil, ErrMissingStore
	}
	qos := opts.QoS
	if qos == 0 {
		qos = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		mqtt:       opts.MQTTClient,
		store:      opts.Store,
		topics:     opts.MQTTClient.Topics(),
		qos:        qos,
		stateCache: make(map[string]string),
		ctx:        ctx,
		ctxCancel:  cancel,
		logger:     logger,
	}, nil
}

// SetLogger sets the logger for the bridge.
func (b *Bridge) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	b.loggerMu.Lock()
	b.logger = logger
	b.loggerMu.Unlock()
}

func (b *Bridge) log() Logger {
	b.loggerMu.RLock()
	defer b.loggerMu.RUnlock()
	return b.logger
}

// Start subscribes to the state and registry topics.
func (b *Bridge) Start(_ context.Context) error {
	for _, topic := range []string{b.topics.AllRegistry(), b.topics.AllStates()} {
		if err := b.mqtt.Subscribe(topic, b.qos, b.handleMessage); err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		b.log().Info("subscribed to host topic", "topic", topic)
	}
	return nil
}

// Stop cancels in-flight store writes. Messages received afterwards are
// dropped.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.ctxCancel()
		b.log().Info("host bridge stopped")
	})
}

// ============================================================================
// Host -> bridge
// ============================================================================

// handleMessage routes a received message by topic.
func (b *Bridge) handleMessage(topic string, payload []byte) error {
	if b.ctx.Err() != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(b.ctx, ingestTimeout)
	defer cancel()

	if entityID, ok := b.topics.ParseState(topic); ok {
		return b.handleState(ctx, entityID, payload)
	}
	if kind, id, ok := b.topics.ParseRegistry(topic); ok {
		return b.handleRegistry(ctx, kind, id, payload)
	}
	return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
}

func (b *Bridge) handleState(ctx context.Context, entityID string, payload []byte) error {
	if b.stateUnchanged(entityID, payload) {
		return nil
	}

	if len(payload) == 0 {
		if err := b.store.RemoveState(ctx, entityID); err != nil {
			b.forgetState(entityID)
			return err
		}
		b.log().Debug("entity removed", "entity_id", entityID)
		return nil
	}

	var msg StateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		b.forgetState(entityID)
		return fmt.Errorf("%w: state of %s: %w", ErrInvalidMessage, entityID, err)
	}
	if err := b.store.PutState(ctx, msg.toState(entityID)); err != nil {
		b.forgetState(entityID)
		return err
	}
	b.statesReceived.Add(1)
	return nil
}

// stateUnchanged records payload as the latest one of entityID and
// reports whether it equals the previous one.
func (b *Bridge) stateUnchanged(entityID string, payload []byte) bool {
	b.stateCacheMu.Lock()
	defer b.stateCacheMu.Unlock()
	prev, ok := b.stateCache[entityID]
	if ok && prev == string(payload) {
		return true
	}
	if len(payload) == 0 {
		delete(b.stateCache, entityID)
	} else {
		b.stateCache[entityID] = string(payload)
	}
	return false
}

func (b *Bridge) forgetState(entityID string) {
	b.stateCacheMu.Lock()
	delete(b.stateCache, entityID)
	b.stateCacheMu.Unlock()
}

func (b *Bridge) handleRegistry(ctx context.Context, kind, id string, payload []byte) error {
	decode := func(v any) error {
		if err := json.Unmarshal(payload, v); err != nil {
			return fmt.Errorf("%w: %s %s: %w", ErrInvalidMessage, kind, id, err)
		}
		return nil
	}

	switch kind {
	case mqtt.RegistryEntity:
		var e host.EntityEntry
		if err := decode(&e); err != nil {
			return err
		}
		e.EntityID = id
		return b.store.PutEntity(ctx, e)
	case mqtt.RegistryDevice:
		var d host.DeviceEntry
		if err := decode(&d); err != nil {
			return err
		}
		d.ID = id
		return b.store.PutDevice(ctx, d)
	case mqtt.RegistryArea:
		var a host.AreaEntry
		if err := decode(&a); err != nil {
			return err
		}
		a.ID = id
		return b.store.PutArea(ctx, a)
	}
	return fmt.Errorf("%w: registry kind %q", ErrUnknownTopic, kind)
}

// ============================================================================
// Bridge -> host
// ============================================================================

// CallService implements host.ServiceCaller.
func (b *Bridge) CallService(_ context.Context, call host.ServiceCall) error {
	topic := b.topics.Service(call.Domain, call.Service)
	if err := b.mqtt.PublishJSON(topic, call, false); err != nil {
		return fmt.Errorf("calling %s: %w", call.Name(), err)
	}
	b.callsSent.Add(1)
	b.log().Debug("service called", "service", call.Name())
	return nil
}

// FireEvent implements host.EventBus.
func (b *Bridge) FireEvent(_ context.Context, event host.Event) error {
	if event.TimeFired.IsZero() {
		event.TimeFired = time.Now().UTC()
	}
	if err := b.mqtt.PublishJSON(b.topics.Event(event.Type), event, false); err != nil {
		return fmt.Errorf("firing %s: %w", event.Type, err)
	}
	b.eventsSent.Add(1)
	return nil
}

// ============================================================================
// Metrics
// ============================================================================

// Metrics are the bridge counters.
type Metrics struct {
	Connected      bool
	StatesReceived uint64
	CallsSent      uint64
	EventsSent     uint64
}

// GetMetrics returns the current counters.
func (b *Bridge) GetMetrics() Metrics {
	return Metrics{
		Connected:      b.mqtt.IsConnected(),
		StatesReceived: b.statesReceived.Load(),
		CallsSent:      b.callsSent.Load(),
		EventsSent:     b.eventsSent.Load(),
	}
}
