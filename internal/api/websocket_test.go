package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/gray-logic-alice/internal/device"
	"github.com/nerrad567/gray-logic-alice/internal/host"
)

// requestTicket obtains a WebSocket ticket from a running server.
func requestTicket(t *testing.T, env *testEnv, baseURL string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/auth/ws-ticket", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+env.token(t, "user-1"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("ws-ticket request failed: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		Ticket    string `json:"ticket"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode ticket response: %v", err)
	}
	if result.Ticket == "" || result.ExpiresIn != int(ticketTTL.Seconds()) {
		t.Fatalf("ticket response = %+v", result)
	}
	return result.Ticket
}

func dialWebSocket(t *testing.T, baseURL, ticket string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws?ticket=" + ticket
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v (resp: %v)", err, resp)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) WSMessage {
	t.Helper()
	//nolint:errcheck // test deadline
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

func TestWebSocketActionEvents(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.router)
	defer ts.Close()

	ws := dialWebSocket(t, ts.URL, requestTicket(t, env, ts.URL))

	if err := ws.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{device.EventDeviceAction}},
	}); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}
	if resp := readMessage(t, ws); resp.Type != WSTypeResponse || resp.ID != "sub-1" {
		t.Fatalf("subscribe response = %+v", resp)
	}

	body := `{"payload": {"devices": [{"id": "switch.kettle", "capabilities": [
		{"type": "devices.capabilities.on_off", "state": {"instance": "on", "value": true}}]}]}}`
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1.0/user/devices/action", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+env.token(t, "user-1"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("action request failed: %v", err)
	}
	resp.Body.Close()

	msg := readMessage(t, ws)
	if msg.Type != WSTypeEvent || msg.EventType != device.EventDeviceAction {
		t.Fatalf("message = %+v, want %s event", msg, device.EventDeviceAction)
	}
	payload, _ := msg.Payload.(map[string]any)
	data, _ := payload["data"].(map[string]any)
	if data["entity_id"] != "switch.kettle" {
		t.Errorf("entity_id = %v, want switch.kettle", data["entity_id"])
	}
}

func TestWebSocketPingAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.router)
	defer ts.Close()

	ws := dialWebSocket(t, ts.URL, requestTicket(t, env, ts.URL))

	if err := ws.WriteJSON(WSMessage{Type: WSTypePing, ID: "p-1"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msg := readMessage(t, ws); msg.Type != WSTypePong || msg.ID != "p-1" {
		t.Errorf("ping reply = %+v, want pong p-1", msg)
	}

	if err := ws.WriteJSON(WSMessage{Type: "reboot", ID: "x-1"}); err != nil {
		t.Fatalf("write unknown: %v", err)
	}
	if msg := readMessage(t, ws); msg.Type != WSTypeError || msg.ID != "x-1" {
		t.Errorf("unknown reply = %+v, want error x-1", msg)
	}
}

func TestWebSocketTickets(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.router)
	defer ts.Close()

	ticket := requestTicket(t, env, ts.URL)
	dialWebSocket(t, ts.URL, ticket)

	tests := []struct {
		name   string
		ticket string
	}{
		{"missing", ""},
		{"unknown", "not-a-ticket"},
		{"reused", ticket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?ticket=" + tt.ticket
			_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err == nil {
				t.Fatal("Dial() succeeded, want error")
			}
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("response = %v, want 401", resp)
			}
		})
	}
}

func TestHubBroadcastFiltersChannels(t *testing.T) {
	env := newTestEnv(t)
	hub := env.srv.Hub()

	subscribed := &WSClient{hub: hub, send: make(chan []byte, 4), subscriptions: map[string]struct{}{"a": {}}}
	other := &WSClient{hub: hub, send: make(chan []byte, 4), subscriptions: map[string]struct{}{"b": {}}}
	hub.Register(subscribed)
	hub.Register(other)
	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("ClientCount() = %d, want 2", got)
	}

	if err := hub.FireEvent(context.Background(), host.Event{Type: "a", Data: map[string]any{"x": 1}}); err != nil {
		t.Fatalf("FireEvent() error = %v", err)
	}
	if len(subscribed.send) != 1 {
		t.Errorf("subscribed client got %d messages, want 1", len(subscribed.send))
	}
	if len(other.send) != 0 {
		t.Errorf("other client got %d messages, want 0", len(other.send))
	}

	hub.Unregister(subscribed)
	hub.Unregister(subscribed)
	if got := hub.ClientCount(); got != 1 {
		t.Errorf("ClientCount() = %d, want 1", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() after Run = %d, want 0", got)
	}
}
