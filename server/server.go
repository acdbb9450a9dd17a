// Package server exposes the storefront agent over HTTP and websocket.
package server

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	vocta "github.com/vocta-football/vocta"
	"github.com/vocta-football/vocta/catalog"
	"github.com/vocta-football/vocta/realtime"
	"github.com/vocta-football/vocta/sessions"
	"github.com/vocta-football/vocta/stores"
)

// Server wires the shared collaborators into gin handlers.
type Server struct {
	Config     vocta.Config
	Catalog    *catalog.Catalog
	ChatAgent  *vocta.Agent
	VoiceAgent *vocta.Agent
	Hub        *realtime.Hub
	Store      stores.TraceStore
	Streamer   realtime.SpeechStreamer
	Synth      realtime.SpeechSynthesizer
	Logger     *log.Logger

	upgrader websocket.Upgrader
}

// NewServer creates the server around its collaborators
func NewServer(cfg vocta.Config, cat *catalog.Catalog, chatAgent, voiceAgent *vocta.Agent, hub *realtime.Hub, store stores.TraceStore, streamer realtime.SpeechStreamer, synth realtime.SpeechSynthesizer) *Server {
	return &Server{
		Config:     cfg,
		Catalog:    cat,
		ChatAgent:  chatAgent,
		VoiceAgent: voiceAgent,
		Hub:        hub,
		Store:      store,
		Streamer:   streamer,
		Synth:      synth,
		Logger:     log.New(os.Stdout, "[SERVER] ", log.LstdFlags),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes registers every endpoint on the router
func (s *Server) Routes(router *gin.Engine) {
	router.POST("/chat", s.HandleChat)
	router.POST("/broadcast", s.HandleBroadcast)
	router.GET("/ws", s.HandleWebSocket)
	router.GET("/healthz", s.HandleHealthz)
	router.GET("/traces", s.HandleTraces)
}

// HandleWebSocket upgrades the connection and hands it to a relay session.
func (s *Server) HandleWebSocket(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sessionID := uuid.New().String()
	conn := realtime.NewConn(ws)
	dispatcher := sessions.NewChatSession(sessionID, sessions.ChannelVoice, s.VoiceAgent, s.Catalog, s.Store)
	relay := realtime.NewRelaySession(sessionID, conn, s.Hub, dispatcher, s.Streamer, s.Synth)

	// Blocks until the client hangs up; the handler goroutine is the read loop.
	defer ws.Close()
	relay.Run(c.Request.Context())
}

// HandleHealthz reports process and trace store health.
func (s *Server) HandleHealthz(c *gin.Context) {
	if s.Store != nil {
		if err := s.Store.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "detail": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleTraces returns recent turn diagnostics.
func (s *Server) HandleTraces(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusOK, []stores.TurnTrace{})
		return
	}

	traces, err := s.Store.RecentTraces(100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, traces)
}
