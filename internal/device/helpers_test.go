package device

import (
	"context"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// MockLogger records log messages per level.
type MockLogger struct {
	mu       sync.Mutex
	messages map[string][]string
}

func (l *MockLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.messages == nil {
		l.messages = make(map[string][]string)
	}
	l.messages[level] = append(l.messages[level], msg)
}

func (l *MockLogger) Debug(msg string, _ ...any) { l.add("debug", msg) }
func (l *MockLogger) Info(msg string, _ ...any)  { l.add("info", msg) }
func (l *MockLogger) Warn(msg string, _ ...any)  { l.add("warn", msg) }
func (l *MockLogger) Error(msg string, _ ...any) { l.add("error", msg) }

// Messages returns the messages logged at level.
func (l *MockLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages[level]...)
}

func newTestEntry(cfg config.AliceConfig) (*Entry, *host.Memory, *MockLogger) {
	mem := host.NewMemory()
	logger := &MockLogger{}
	return &Entry{Host: mem, Config: cfg, Log: logger}, mem, logger
}

func entityConfig(entityID string, ec config.EntityConfig) config.AliceConfig {
	return config.AliceConfig{EntityConfig: map[string]config.EntityConfig{entityID: ec}}
}

func putState(t *testing.T, mem *host.Memory, entityID, state string, attrs map[string]any) *host.State {
	t.Helper()
	s := host.NewState(entityID, state, attrs)
	if err := mem.PutState(s); err != nil {
		t.Fatalf("PutState(%s) error = %v", entityID, err)
	}
	return s
}

func floatPtr(v float64) *float64 { return &v }

func value(t *testing.T, c interface {
	Value(ctx context.Context) (any, error)
}) any {
	t.Helper()
	v, err := c.Value(context.Background())
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	return v
}

func set(t *testing.T, c Capability, v any, relative bool) {
	t.Helper()
	info := c.Info()
	_, err := c.Set(context.Background(), schema.CapabilityInstanceActionState{
		Instance: info.Instance,
		Value:    v,
		Relative: relative,
	})
	if err != nil {
		t.Fatalf("Set(%v) error = %v", v, err)
	}
}

func setErr(c Capability, v any, relative bool) error {
	_, err := c.Set(context.Background(), schema.CapabilityInstanceActionState{
		Instance: c.Info().Instance,
		Value:    v,
		Relative: relative,
	})
	return err
}

// lastCall returns the most recent service call.
func lastCall(t *testing.T, mem *host.Memory) host.ServiceCall {
	t.Helper()
	calls := mem.Calls()
	if len(calls) == 0 {
		t.Fatal("no service calls recorded")
	}
	return calls[len(calls)-1]
}

func assertCode(t *testing.T, err error, code schema.ResponseCode, message string) {
	t.Helper()
	apiErr, ok := schema.AsAPIError(err)
	if !ok {
		t.Fatalf("error = %v, want APIError %s", err, code)
	}
	if apiErr.Code != code {
		t.Errorf("Code = %s, want %s", apiErr.Code, code)
	}
	if message != "" && apiErr.Message != message {
		t.Errorf("Message = %q, want %q", apiErr.Message, message)
	}
}
