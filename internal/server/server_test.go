package server

import (
	"combat-meter/internal/network"
	"combat-meter/pkg/api"
	"combat-meter/pkg/logger"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type recordingControl struct {
	commands chan api.ClientCommand
}

func (c *recordingControl) Handle(cmd api.ClientCommand) error {
	c.commands <- cmd
	return cmd.Validate()
}

func newTestServer(t *testing.T) (*httptest.Server, *network.Broadcaster, *recordingControl) {
	t.Helper()
	hub := network.NewBroadcaster()
	control := &recordingControl{commands: make(chan api.ClientCommand, 4)}
	ts := httptest.NewServer(New(hub, control, "0").Handler())
	t.Cleanup(ts.Close)
	return ts, hub, control
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitSubscribers(t *testing.T, hub *network.Broadcaster, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d subscribers, got %d", n, hub.SubscriberCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocket_ForwardsCommands(t *testing.T) {
	ts, _, control := newTestServer(t)
	conn := dial(t, ts)

	if err := conn.WriteJSON(api.ClientCommand{Event: api.EventPauseRequest}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	select {
	case cmd := <-control.commands:
		if cmd.Event != api.EventPauseRequest {
			t.Errorf("Expected %s, got %s", api.EventPauseRequest, cmd.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Command was not forwarded")
	}

	// Неизвестная команда не рвет соединение
	if err := conn.WriteJSON(api.ClientCommand{Event: "bogus"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	<-control.commands
	if err := conn.WriteJSON(api.ClientCommand{Event: api.EventResetRequest}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	select {
	case cmd := <-control.commands:
		if cmd.Event != api.EventResetRequest {
			t.Errorf("Expected %s, got %s", api.EventResetRequest, cmd.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Connection closed after invalid command")
	}
}

func TestWebSocket_ReceivesEvents(t *testing.T) {
	ts, hub, _ := newTestServer(t)
	conn := dial(t, ts)
	waitSubscribers(t, hub, 1)

	if err := hub.Emit(api.EventPauseEncounter, api.AckPayload{Paused: true}); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Event   string         `json:"event"`
		Payload api.AckPayload `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if msg.Event != api.EventPauseEncounter || !msg.Payload.Paused {
		t.Errorf("Expected paused ack, got %+v", msg)
	}

	conn.Close()
	waitSubscribers(t, hub, 0)
}

func TestWebSocket_LastSnapshotOnConnect(t *testing.T) {
	ts, hub, _ := newTestServer(t)

	view := api.EncounterView{LocalPlayer: "Valtan"}
	if err := hub.Emit(api.EventEncounterUpdate, view); err != network.ErrNoSubscribers {
		t.Fatalf("Expected ErrNoSubscribers, got %v", err)
	}

	conn := dial(t, ts)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Event   string            `json:"event"`
		Payload api.EncounterView `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if msg.Event != api.EventEncounterUpdate || msg.Payload.LocalPlayer != "Valtan" {
		t.Errorf("Expected last snapshot, got %+v", msg)
	}
}

func TestDebugEncounter(t *testing.T) {
	ts, hub, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/debug/encounter")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 before first publish, got %d", resp.StatusCode)
	}

	_ = hub.Emit(api.EventEncounterUpdate, api.EncounterView{LocalPlayer: "Brelshaza"})

	resp, err = http.Get(ts.URL + "/debug/encounter")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	var view api.EncounterView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if view.LocalPlayer != "Brelshaza" {
		t.Errorf("Expected Brelshaza, got %q", view.LocalPlayer)
	}
}

func TestHealthAndVersion(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}

	resp, err = http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := info["protocol"]; !ok {
		t.Errorf("Expected protocol field, got %v", info)
	}
}
