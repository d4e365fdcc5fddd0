package server_test

import (
	"encoding/json"
	"testing"

	"github.com/jmoret/rosterbee/internal/server"
	"github.com/jmoret/rosterbee/internal/settings"
)

func TestNewMessage(t *testing.T) {
	msg, err := server.NewMessage(server.MsgProfileSave, "req-1", server.ProfileSavePayload{
		Name:     "course-2026",
		Document: settings.Defaults(),
	})
	if err != nil {
		t.Fatalf("creating message: %v", err)
	}

	if msg.Type != server.MsgProfileSave {
		t.Errorf("got type %q, want %q", msg.Type, server.MsgProfileSave)
	}
	if msg.ID != "req-1" {
		t.Errorf("got id %q, want %q", msg.ID, "req-1")
	}

	var payload server.ProfileSavePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshalling payload: %v", err)
	}
	if payload.Name != "course-2026" {
		t.Errorf("got name %q", payload.Name)
	}
	if payload.Document.LMSSettings.Type != settings.ProviderCanvas {
		t.Errorf("document did not survive the round trip: %+v", payload.Document.LMSSettings)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	original, _ := server.NewMessage(server.MsgStream, "req-9", server.StreamPayload{
		Text: "[PROGRESS] students 3/20",
	})
	original.Seq = 42

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshalling: %v", err)
	}

	var decoded server.Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshalling: %v", err)
	}

	if decoded.Type != original.Type {
		t.Errorf("type mismatch: %q != %q", decoded.Type, original.Type)
	}
	if decoded.Seq != 42 {
		t.Errorf("seq mismatch: %d != 42", decoded.Seq)
	}
	if decoded.ID != "req-9" {
		t.Errorf("id mismatch: %q", decoded.ID)
	}
}

func TestNewMessageNilPayload(t *testing.T) {
	msg, err := server.NewMessage(server.MsgPing, "", nil)
	if err != nil {
		t.Fatalf("creating message: %v", err)
	}
	if msg.Payload != nil {
		t.Errorf("nil payload should stay nil, got %s", msg.Payload)
	}
}
