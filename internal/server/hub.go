package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mordilloSan/go-logger/logger"

	"github.com/jmoret/rosterbee/internal/ops"
	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/settings"
)

type clientMessage struct {
	client  *Client
	message Message
}

// Hub owns the connected clients and dispatches requests to the command
// surface. Synchronous settings operations run on the hub goroutine;
// long-running operations get their own goroutine and stream back
// through the shared sequencer, so every message a client sees carries
// a strictly increasing seq.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage
	sequencer  *Sequencer
	service    ops.Service

	// sendMu keeps seq stamping and channel enqueue atomic, so a client
	// never observes sequence numbers out of order when operation
	// goroutines send concurrently.
	sendMu sync.Mutex
}

func NewHub(svc ops.Service) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage, 256),
		sequencer:  NewSequencer(),
		service:    svc,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			logger.Infof("client connected: %s (%d total)", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				logger.Infof("client disconnected: %s (%d remaining)", client.id, len(h.clients))
			}

		case cm := <-h.incoming:
			h.handleMessage(ctx, cm)
		}
	}
}

// send marshals and enqueues one message for a client, stamping the next
// sequence number. A client that cannot keep up is dropped rather than
// allowed to stall the hub.
func (h *Hub) send(client *Client, msgType, id string, payload interface{}) {
	msg, err := NewMessage(msgType, id, payload)
	if err != nil {
		logger.Errorf("building %s message: %v", msgType, err)
		return
	}
	h.sendMu.Lock()
	defer h.sendMu.Unlock()
	msg.Seq = h.sequencer.Next()
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("marshalling %s message: %v", msgType, err)
		return
	}
	if !client.enqueue(data) {
		client.close()
	}
}

func (h *Hub) sendError(client *Client, id string, err error) {
	h.send(client, MsgError, id, ErrorPayload{Error: err.Error()})
}

func (h *Hub) handleMessage(ctx context.Context, cm clientMessage) {
	client, msg := cm.client, cm.message

	switch msg.Type {
	case MsgLocatePath:
		path, err := h.service.LocatePath()
		h.reply(client, msg.ID, PathPayload{Path: path}, err)

	case MsgExists:
		exists, err := h.service.Exists()
		h.reply(client, msg.ID, ExistsPayload{Exists: exists}, err)

	case MsgLoad:
		doc, err := h.service.Load()
		h.reply(client, msg.ID, doc, err)

	case MsgSave:
		var doc settings.Document
		if err := json.Unmarshal(msg.Payload, &doc); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		h.reply(client, msg.ID, doc, h.service.Save(doc))

	case MsgReset:
		doc, err := h.service.ResetSettings()
		h.reply(client, msg.ID, doc, err)

	case MsgResetLocation:
		path, err := h.service.ResetSettingsLocation()
		h.reply(client, msg.ID, PathPayload{Path: path}, err)

	case MsgSchema:
		h.send(client, MsgOpResult, msg.ID, h.service.Schema())

	case MsgImport:
		var p PathPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		doc, err := h.service.ImportSettings(p.Path)
		h.reply(client, msg.ID, doc, err)

	case MsgExport:
		var p ExportPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		h.reply(client, msg.ID, PathPayload{Path: p.Path}, h.service.ExportSettings(p.Document, p.Path))

	case MsgProfileList:
		names, err := h.service.ListProfiles()
		h.reply(client, msg.ID, names, err)

	case MsgProfileActive:
		name, err := h.service.ActiveProfile()
		h.reply(client, msg.ID, NamePayload{Name: name}, err)

	case MsgProfileLoad:
		var p NamePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		doc, err := h.service.LoadProfile(p.Name)
		h.reply(client, msg.ID, doc, err)

	case MsgProfileSave:
		var p ProfileSavePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		h.reply(client, msg.ID, NamePayload{Name: p.Name}, h.service.SaveProfile(p.Name, p.Document))

	case MsgProfileDelete:
		var p NamePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		h.reply(client, msg.ID, NamePayload{Name: p.Name}, h.service.DeleteProfile(p.Name))

	case MsgVerifyHost:
		var hs settings.HostingSettings
		if err := json.Unmarshal(msg.Payload, &hs); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		go func() {
			h.send(client, MsgOpResult, msg.ID, h.service.VerifyHostConfig(ctx, hs))
		}()

	case MsgVerifyLMS:
		var ls settings.LMSSettings
		if err := json.Unmarshal(msg.Payload, &ls); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		go func() {
			h.send(client, MsgOpResult, msg.ID, h.service.VerifyLMSCourse(ctx, ls))
		}()

	case MsgGenerate:
		var ls settings.LMSSettings
		if err := json.Unmarshal(msg.Payload, &ls); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		go func() {
			sink := h.streamSink(client, msg.ID)
			h.send(client, MsgOpResult, msg.ID, h.service.GenerateRosterFiles(ctx, ls, sink))
		}()

	case MsgSetup:
		var p RepoOpPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		go func() {
			sink := h.streamSink(client, msg.ID)
			h.send(client, MsgOpResult, msg.ID, h.service.SetupRepos(ctx, p.Hosting, p.Repos, sink))
		}()

	case MsgClone:
		var p RepoOpPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(client, msg.ID, err)
			return
		}
		go func() {
			sink := h.streamSink(client, msg.ID)
			h.send(client, MsgOpResult, msg.ID, h.service.CloneRepos(ctx, p.Hosting, p.Repos, sink))
		}()

	case MsgPing:
		h.send(client, MsgPong, msg.ID, nil)
	}
}

// reply sends either the success payload or the error for a synchronous
// operation.
func (h *Hub) reply(client *Client, id string, payload interface{}, err error) {
	if err != nil {
		h.sendError(client, id, err)
		return
	}
	h.send(client, MsgOpResult, id, payload)
}

// streamSink routes an operation's progress messages to the requesting
// client. Messages are sent from the operation goroutine in emission
// order, and the per-client channel preserves it.
func (h *Hub) streamSink(client *Client, id string) progress.Sink {
	return progress.SinkFunc(func(m string) {
		h.send(client, MsgStream, id, StreamPayload{Text: m})
	})
}
