package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/logging"
)

const testSecret = "test-secret-for-development-only-0123456789"

// writeTestConfig writes a config with MQTT and InfluxDB disabled.
func writeTestConfig(t *testing.T, dbPath string, port int) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	configContent := fmt.Sprintf(`
site:
  id: test-site

database:
  path: %q
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: warn
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: %d

security:
  jwt:
    secret: %q
    issuer: "graylogic-alice-test"

alice:
  filter:
    include_domains: ["switch"]
`, dbPath, port, testSecret)
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, nil, &bytes.Buffer{})
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("run() error = %v, want loading config error", err)
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFIG", writeTestConfig(t, "", 8123))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx, nil, &bytes.Buffer{}); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-bogus"}, &out); err == nil {
		t.Fatal("run() should fail with an unknown flag")
	}
}

func TestRun_IssueToken(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "unused.db")
	t.Setenv("GRAYLOGIC_CONFIG", writeTestConfig(t, dbPath, 8123))

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-issue-token", "alice-user"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	raw := strings.TrimSpace(out.String())
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("ParseWithClaims() error = %v", err)
	}
	if claims.Subject != "alice-user" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "alice-user")
	}
	if claims.Issuer != "graylogic-alice-test" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "graylogic-alice-test")
	}

	// Issuing a token must not touch the database.
	if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
		t.Errorf("database file created by -issue-token: %v", statErr)
	}
}

// TestRun_StartupAndShutdown starts the bridge without MQTT or InfluxDB and
// stops it through context cancellation.
func TestRun_StartupAndShutdown(t *testing.T) {
	port := freePort(t)
	t.Setenv("GRAYLOGIC_CONFIG", writeTestConfig(t, filepath.Join(t.TempDir(), "alice.db"), port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, nil, &bytes.Buffer{})
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/health", port)
	deadline := time.Now().Add(5 * time.Second)
	healthy := false
	for time.Now().Before(deadline) {
		resp, err := http.Get(url) //nolint:noctx // test poll
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				healthy = true
				break
			}
		}
		select {
		case err := <-done:
			t.Fatalf("run() returned early: %v", err)
		case <-time.After(50 * time.Millisecond):
		}
	}
	if !healthy {
		t.Fatal("health endpoint never became ready")
	}

	// Platform endpoints require a bearer token.
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/v1.0/user/devices", port)) //nolint:noctx // test request
	if err != nil {
		t.Fatalf("GET /v1.0/user/devices error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET /v1.0/user/devices status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run() did not return after cancellation")
	}
}

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("GRAYLOGIC_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("GRAYLOGIC_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// MockCaller fails every call with err when set.
type MockCaller struct {
	err   error
	calls []host.ServiceCall
}

func (m *MockCaller) CallService(_ context.Context, call host.ServiceCall) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, call)
	return nil
}

func TestJournaledCaller(t *testing.T) {
	call := host.NewServiceCall("switch", "turn_on", "switch.kettle", nil)

	tests := []struct {
		name        string
		nextErr     error
		journalErr  error
		wantErr     bool
		wantJournal int
	}{
		{name: "sent and journaled", wantJournal: 1},
		{name: "send failure is not journaled", nextErr: errors.New("broker down"), wantErr: true},
		{name: "journal failure is ignored", journalErr: errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &MockCaller{err: tt.nextErr}
			journal := &MockCaller{err: tt.journalErr}
			c := &journaledCaller{next: next, journal: journal, log: logging.Default()}

			err := c.CallService(context.Background(), call)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CallService() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(journal.calls) != tt.wantJournal {
				t.Errorf("journaled calls = %d, want %d", len(journal.calls), tt.wantJournal)
			}
			if tt.nextErr == nil && len(next.calls) != 1 {
				t.Errorf("forwarded calls = %d, want 1", len(next.calls))
			}
		})
	}
}
