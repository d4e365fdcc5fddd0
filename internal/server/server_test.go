package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jmoret/rosterbee/internal/lms"
	"github.com/jmoret/rosterbee/internal/ops"
	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/settings"
)

type scriptedLMS struct {
	students []lms.StudentInfo
}

func (f *scriptedLMS) Verify(ctx context.Context) ([]lms.Course, error) {
	return []lms.Course{{ID: "12", Name: "Programming"}}, nil
}

func (f *scriptedLMS) Students(ctx context.Context, courseID string, tick lms.Tick) ([]lms.StudentInfo, error) {
	for i := range f.students {
		if tick != nil {
			tick(i+1, len(f.students))
		}
	}
	return f.students, nil
}

func startTestServer(t *testing.T) (*httptest.Server, *Server, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := settings.NewStoreAt(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	svc := ops.NewLocalService(store, settings.NewProfileStore(dir))
	svc.LMSFactory = func(settings.LMSSettings) (lms.Client, error) {
		return &scriptedLMS{students: []lms.StudentInfo{
			{Group: "team-01", FullName: "John Doe", LastName: "doe", GitID: "1001", Email: "john.doe@uni.nl"},
		}}, nil
	}

	s := New(svc, "127.0.0.1", 0, "")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.hub.Run(ctx)

	ts := httptest.NewServer(s.router(ctx))
	t.Cleanup(ts.Close)
	return ts, s, dir
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func request(t *testing.T, conn *websocket.Conn, msgType, id string, payload interface{}) {
	t.Helper()
	msg, err := NewMessage(msgType, id, payload)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("sending request: %v", err)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading message: %v", err)
	}
	return msg
}

func TestHealthAndSchemaRoutes(t *testing.T) {
	ts, _, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status: %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	defer resp.Body.Close()
	var schema settings.Schema
	if err := json.NewDecoder(resp.Body).Decode(&schema); err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	if len(schema.Fields) == 0 {
		t.Error("schema has no fields")
	}
}

func TestLoadSaveOverWebsocket(t *testing.T) {
	ts, _, _ := startTestServer(t)
	conn := dial(t, ts)

	request(t, conn, MsgLoad, "r1", nil)
	resp := readMessage(t, conn)
	if resp.Type != MsgOpResult || resp.ID != "r1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	var doc settings.Document
	if err := json.Unmarshal(resp.Payload, &doc); err != nil {
		t.Fatalf("decoding document: %v", err)
	}
	if doc != settings.Defaults() {
		t.Error("fresh store should load defaults")
	}

	doc.LMSSettings.CourseID = "12"
	request(t, conn, MsgSave, "r2", doc)
	resp = readMessage(t, conn)
	if resp.Type != MsgOpResult || resp.ID != "r2" {
		t.Fatalf("save response: %+v", resp)
	}

	request(t, conn, MsgLoad, "r3", nil)
	resp = readMessage(t, conn)
	json.Unmarshal(resp.Payload, &doc)
	if doc.LMSSettings.CourseID != "12" {
		t.Errorf("saved change not visible: %q", doc.LMSSettings.CourseID)
	}
}

func TestProfileErrorsOverWebsocket(t *testing.T) {
	ts, _, _ := startTestServer(t)
	conn := dial(t, ts)

	request(t, conn, MsgProfileLoad, "r1", NamePayload{Name: "nope"})
	resp := readMessage(t, conn)
	if resp.Type != MsgError || resp.ID != "r1" {
		t.Fatalf("missing profile should produce an error message: %+v", resp)
	}
	var p ErrorPayload
	if err := json.Unmarshal(resp.Payload, &p); err != nil || p.Error == "" {
		t.Errorf("error payload: %s", resp.Payload)
	}
}

// Streamed operations must deliver progress messages before the terminal
// result, all with strictly increasing sequence numbers.
func TestGenerateStreamsInOrder(t *testing.T) {
	ts, _, dir := startTestServer(t)
	conn := dial(t, ts)

	ls := settings.Defaults().LMSSettings
	ls.CourseID = "12"
	ls.YamlFile = dir + "/students.yaml"
	request(t, conn, MsgGenerate, "gen-1", ls)

	var stream []string
	var lastSeq int64
	for {
		msg := readMessage(t, conn)
		if msg.Seq <= lastSeq {
			t.Errorf("seq not increasing: %d after %d", msg.Seq, lastSeq)
		}
		lastSeq = msg.Seq
		if msg.ID != "gen-1" {
			t.Errorf("stray message id %q", msg.ID)
		}

		if msg.Type == MsgStream {
			var p StreamPayload
			json.Unmarshal(msg.Payload, &p)
			stream = append(stream, p.Text)
			continue
		}
		if msg.Type != MsgOpResult {
			t.Fatalf("unexpected message type %q", msg.Type)
		}
		var res ops.Result
		if err := json.Unmarshal(msg.Payload, &res); err != nil {
			t.Fatalf("decoding result: %v", err)
		}
		if !res.Success {
			t.Fatalf("generate failed: %s / %s", res.Message, res.Details)
		}
		break
	}

	if len(stream) == 0 {
		t.Fatal("no progress messages before the result")
	}
	sawTick := false
	for _, m := range stream {
		if strings.HasPrefix(m, progress.WirePrefix) {
			sawTick = true
		}
	}
	if !sawTick {
		t.Errorf("expected at least one transient tick, got %v", stream)
	}
}

// A client that disconnects while an operation is still streaming must
// not take the server down: frames for it are dropped, other clients
// keep receiving.
func TestDisconnectMidOperationDropsMessages(t *testing.T) {
	dir := t.TempDir()
	store, err := settings.NewStoreAt(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	h := NewHub(ops.NewLocalService(store, settings.NewProfileStore(dir)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	gone := newClient(h, nil, "gone")
	h.register <- gone
	h.unregister <- gone
	stays := newClient(h, nil, "stays")
	// Registering a second client forces the hub to finish processing
	// the unregister above before we send.
	h.register <- stays

	h.send(gone, MsgStream, "op-1", StreamPayload{Text: "tick"})
	h.send(stays, MsgStream, "op-1", StreamPayload{Text: "tick"})

	select {
	case data := <-stays.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decoding frame: %v", err)
		}
		if msg.Type != MsgStream || msg.ID != "op-1" {
			t.Errorf("unexpected frame: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("connected client should still receive")
	}

	if _, ok := <-gone.send; ok {
		t.Error("disconnected client's queue should be closed and empty")
	}
}

func TestTokenAuthRejectsBadToken(t *testing.T) {
	dir := t.TempDir()
	store, err := settings.NewStoreAt(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	svc := ops.NewLocalService(store, settings.NewProfileStore(dir))

	s := New(svc, "127.0.0.1", 0, "secret")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)
	ts := httptest.NewServer(s.router(ctx))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer conn.Close()

	conn.WriteJSON(map[string]string{"token": "wrong"})
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply map[string]string
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading auth reply: %v", err)
	}
	if reply["error"] == "" {
		t.Errorf("bad token should be rejected, got %v", reply)
	}
}
