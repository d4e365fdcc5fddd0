package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mordilloSan/go-logger/logger"

	"github.com/jmoret/rosterbee/internal/ops"
)

// Server exposes the command surface over one websocket endpoint plus a
// couple of plain HTTP routes for health and schema discovery.
type Server struct {
	hub          *Hub
	addr         string
	token        string
	listener     net.Listener
	discoveryDir string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local-network tool, same trust model as the CLI.
		return true
	},
}

// New builds a server. An empty token disables authentication.
func New(svc ops.Service, host string, port int, token string) *Server {
	return &Server{
		hub:   NewHub(svc),
		addr:  fmt.Sprintf("%s:%d", host, port),
		token: token,
	}
}

// EnableDiscovery makes Start publish a ServerInfo record into dir for
// the lifetime of the server.
func (s *Server) EnableDiscovery(dir string) {
	s.discoveryDir = dir
}

func (s *Server) router(ctx context.Context) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/schema", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.hub.service.Schema())
	})
	router.GET("/ws", func(c *gin.Context) {
		s.handleWS(ctx, c.Writer, c.Request)
	})
	return router
}

func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	var err error
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	logger.Infof("serving on %s", s.listener.Addr().String())

	if s.discoveryDir != "" {
		if err := WriteServerInfo(s.discoveryDir, s.listener.Addr().String(), s.token != ""); err != nil {
			logger.Warnf("writing server info: %v", err)
		} else {
			defer func() {
				if err := RemoveServerInfo(s.discoveryDir); err != nil {
					logger.Warnf("removing server info: %v", err)
				}
			}()
		}
	}

	srv := &http.Server{Handler: s.router(ctx)}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.Serve(s.listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("websocket upgrade: %v", err)
		return
	}

	if s.token != "" {
		var hello struct {
			Token string `json:"token"`
		}
		if err := conn.ReadJSON(&hello); err != nil || hello.Token != s.token {
			conn.WriteJSON(map[string]string{"error": "authentication failed"})
			conn.Close()
			return
		}
	}

	client := newClient(s.hub, conn, uuid.New().String())
	s.hub.register <- client

	go client.writePump(ctx)
	go client.readPump(ctx)
}
