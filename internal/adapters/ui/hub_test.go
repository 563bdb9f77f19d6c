package ui

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Siddhubn/VitalLens/internal/domain"
	"github.com/Siddhubn/VitalLens/internal/ports"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestHubSendsSnapshotOnConnect(t *testing.T) {
	h := NewHub()
	defer h.Close()

	h.SetStatus("ready")
	h.SetFaceIndicator(domain.SignalFacePresent)
	h.SetTriggerEnabled(true)

	conn := dialHub(t, h)

	status := readEvent(t, conn)
	if status.Type != EventStatus || status.Payload != "ready" {
		t.Fatalf("unexpected first snapshot event %+v", status)
	}
	face := readEvent(t, conn)
	if face.Type != EventFace || face.Payload != "face_present" {
		t.Fatalf("unexpected face snapshot event %+v", face)
	}
	trigger := readEvent(t, conn)
	if trigger.Type != EventTrigger || trigger.Payload != true {
		t.Fatalf("unexpected trigger snapshot event %+v", trigger)
	}
}

func TestHubBroadcastsUpdates(t *testing.T) {
	h := NewHub()
	defer h.Close()

	conn := dialHub(t, h)
	for i := 0; i < 3; i++ {
		readEvent(t, conn) // drain the connect snapshot
	}

	h.SetStatus("Processing your video. Please wait...")
	ev := readEvent(t, conn)
	if ev.Type != EventStatus {
		t.Fatalf("expected status event, got %+v", ev)
	}
	if ev.Payload != "Processing your video. Please wait..." {
		t.Fatalf("unexpected payload %v", ev.Payload)
	}

	h.ShowResult(ports.ResultView{HeartRate: "95 bpm", BloodPressure: "130/85 mmHg", Stress: "Moderate"})
	ev = readEvent(t, conn)
	if ev.Type != EventResult {
		t.Fatalf("expected result event, got %+v", ev)
	}
	payload, ok := ev.Payload.(map[string]any)
	if !ok {
		t.Fatalf("expected object payload, got %T", ev.Payload)
	}
	if payload["heart_rate"] != "95 bpm" || payload["stress"] != "Moderate" {
		t.Fatalf("unexpected result payload %v", payload)
	}

	h.ClearResult()
	ev = readEvent(t, conn)
	if ev.Type != EventClearResult {
		t.Fatalf("expected clear event, got %+v", ev)
	}
}

func TestHubResultIncludedInSnapshot(t *testing.T) {
	h := NewHub()
	defer h.Close()

	h.ShowResult(ports.ResultView{HeartRate: "70 bpm", BloodPressure: "110/70 mmHg", Stress: "Normal"})

	conn := dialHub(t, h)
	types := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		types = append(types, readEvent(t, conn).Type)
	}
	if types[3] != EventResult {
		t.Fatalf("expected result at the end of the snapshot, got %v", types)
	}
}

func TestHubCloseRejectsNewClients(t *testing.T) {
	h := NewHub()

	srv := httptest.NewServer(h)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	h.Close()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		// The upgrade itself may fail once the hub is closed; acceptable.
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected closed hub to drop the connection")
	}
}
