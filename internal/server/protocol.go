package server

import (
	"encoding/json"

	"github.com/jmoret/rosterbee/internal/settings"
)

// Message is the wire envelope for all websocket communication. Seq is
// assigned by the server and increases monotonically across every
// message it sends, so clients can verify ordered delivery. ID echoes
// the request id on responses and on the stream messages belonging to a
// long-running operation.
type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request message types, one per operation on the command surface.
const (
	MsgLocatePath    = "settings.locate"
	MsgExists        = "settings.exists"
	MsgLoad          = "settings.load"
	MsgSave          = "settings.save"
	MsgReset         = "settings.reset"
	MsgResetLocation = "settings.reset_location"
	MsgSchema        = "settings.schema"
	MsgImport        = "settings.import"
	MsgExport        = "settings.export"

	MsgProfileList   = "profile.list"
	MsgProfileActive = "profile.active"
	MsgProfileLoad   = "profile.load"
	MsgProfileSave   = "profile.save"
	MsgProfileDelete = "profile.delete"

	MsgVerifyHost = "op.verify_host"
	MsgVerifyLMS  = "op.verify_lms"
	MsgGenerate   = "op.generate"
	MsgSetup      = "op.setup"
	MsgClone      = "op.clone"

	MsgPing = "ping"
)

// Response message types.
const (
	MsgOpResult = "op.result"
	MsgStream   = "stream.message"
	MsgError    = "error"
	MsgPong     = "pong"
)

// Payload types for typed access.

type NamePayload struct {
	Name string `json:"name"`
}

type PathPayload struct {
	Path string `json:"path"`
}

type ExistsPayload struct {
	Exists bool `json:"exists"`
}

type StreamPayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type ProfileSavePayload struct {
	Name     string            `json:"name"`
	Document settings.Document `json:"document"`
}

type ExportPayload struct {
	Path     string            `json:"path"`
	Document settings.Document `json:"document"`
}

// RepoOpPayload parameterizes the setup and clone operations.
type RepoOpPayload struct {
	Hosting settings.HostingSettings `json:"hosting"`
	Repos   settings.RepoSettings    `json:"repos"`
}

func NewMessage(msgType, id string, payload interface{}) (Message, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Message{}, err
		}
		raw = data
	}
	return Message{
		Type:    msgType,
		ID:      id,
		Payload: raw,
	}, nil
}
