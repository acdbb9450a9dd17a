package realtime

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/vocta-football/vocta/models"
)

// Dispatcher runs one conversational turn. Satisfied by sessions.ChatSession.
type Dispatcher interface {
	RunTurn(history []models.Chat_Message, utterance string) (models.ResponseEnvelope, error)
}

// RecognitionStream is one live speech-to-text stream. Send pushes raw audio
// chunks; Results yields finalized transcripts until the stream ends. Close
// is idempotent.
type RecognitionStream interface {
	Send(audio []byte) error
	Results() <-chan string
	Close() error
}

// SpeechStreamer opens recognition streams.
type SpeechStreamer interface {
	Start(ctx context.Context) (RecognitionStream, error)
}

// SpeechSynthesizer renders a reply to audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ClientConn is the duplex connection a relay session owns. Satisfied by
// *Conn; tests substitute fakes.
type ClientConn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Ping() error
	Close() error
}

// clientFrame is the inbound wire shape. Dashboard frames use "type", voice
// frames use "event"; distinguishing by field matches the client protocol.
type clientFrame struct {
	Type  string `json:"type,omitempty"`
	Event string `json:"event,omitempty"`
	Data  string `json:"data,omitempty"`
}

// RelaySession owns one voice websocket: it feeds inbound audio to the
// recognizer and runs each finalized transcript through the dispatcher.
type RelaySession struct {
	SessionID  string
	Conn       ClientConn
	Hub        *Hub
	Dispatcher Dispatcher
	Streamer   SpeechStreamer
	Synth      SpeechSynthesizer
	Logger     *log.Logger

	mu     sync.Mutex
	stream RecognitionStream
}

// NewRelaySession creates a relay for one accepted websocket connection
func NewRelaySession(sessionID string, conn ClientConn, hub *Hub, dispatcher Dispatcher, streamer SpeechStreamer, synth SpeechSynthesizer) *RelaySession {
	return &RelaySession{
		SessionID:  sessionID,
		Conn:       conn,
		Hub:        hub,
		Dispatcher: dispatcher,
		Streamer:   streamer,
		Synth:      synth,
		Logger:     log.New(os.Stdout, fmt.Sprintf("[WS %s] ", sessionID), log.LstdFlags),
	}
}

// HandleFrame routes one inbound frame. Returns an error only for
// conditions that should end the connection.
func (s *RelaySession) HandleFrame(ctx context.Context, frame clientFrame) error {
	switch {
	case frame.Type == "dashboard_connect":
		s.Hub.Register(s.Conn)
		s.Logger.Printf("Registered as dashboard observer")

	case frame.Event == "start":
		return s.startStream(ctx)

	case frame.Event == "audio_in":
		return s.feedAudio(frame.Data)

	case frame.Event == "stop":
		s.stopStream()

	default:
		s.Logger.Printf("Ignoring unknown frame type=%q event=%q", frame.Type, frame.Event)
	}
	return nil
}

// Run reads frames until the connection closes, then tears everything down.
// The recognition stream never outlives its connection.
func (s *RelaySession) Run(ctx context.Context) {
	defer s.teardown()

	for {
		var frame clientFrame
		if err := s.Conn.ReadJSON(&frame); err != nil {
			s.Logger.Printf("Connection closed: %v", err)
			return
		}
		if err := s.HandleFrame(ctx, frame); err != nil {
			s.Logger.Printf("Frame error: %v", err)
		}
	}
}

// startStream opens a recognition stream and consumes its transcripts. A
// start while already streaming restarts the stream.
func (s *RelaySession) startStream(ctx context.Context) error {
	if s.Streamer == nil {
		s.Logger.Printf("No speech streamer configured; ignoring start")
		return nil
	}

	s.stopStream()

	stream, err := s.Streamer.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start recognition stream: %w", err)
	}

	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()

	go func() {
		for transcript := range stream.Results() {
			s.handleTranscript(ctx, transcript)
		}
	}()

	return nil
}

// feedAudio decodes one base64 chunk into the live stream. Audio arriving
// with no stream open is dropped.
func (s *RelaySession) feedAudio(data string) error {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()

	if stream == nil {
		return nil
	}

	audio, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("bad audio chunk: %w", err)
	}

	return stream.Send(audio)
}

// stopStream closes the live stream if any. Safe to call repeatedly.
func (s *RelaySession) stopStream() {
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
}

// handleTranscript runs one finalized transcript through the dispatcher and
// plays the reply back: transcripts to dashboards and the speaker's own
// connection, audio to the speaker only.
func (s *RelaySession) handleTranscript(ctx context.Context, transcript string) {
	s.Logger.Printf("Transcript: %s", transcript)

	s.Hub.Broadcast(TranscriptLine{From: "user", Text: transcript})
	if err := s.Conn.WriteJSON(map[string]string{"type": "user_transcript", "text": transcript}); err != nil {
		s.Logger.Printf("Failed to echo user transcript: %v", err)
	}

	// Each voice exchange stands alone: no history is carried between turns.
	envelope, err := s.Dispatcher.RunTurn(nil, transcript)
	if err != nil {
		s.Logger.Printf("Dispatcher error: %v", err)
		return
	}

	s.Hub.Broadcast(TranscriptLine{From: "agent", Text: envelope.Message})
	if err := s.Conn.WriteJSON(map[string]string{"type": "agent_transcript", "text": envelope.Message}); err != nil {
		s.Logger.Printf("Failed to echo agent transcript: %v", err)
	}

	if s.Synth == nil {
		return
	}

	audio, err := s.Synth.Synthesize(ctx, envelope.Message)
	if err != nil {
		s.Logger.Printf("Synthesis error: %v", err)
		return
	}

	if err := s.Conn.WriteJSON(map[string]string{
		"type": "audio",
		"data": base64.StdEncoding.EncodeToString(audio),
	}); err != nil {
		s.Logger.Printf("Failed to send audio: %v", err)
	}
}

// teardown closes the stream and removes the connection from the hub.
func (s *RelaySession) teardown() {
	s.stopStream()
	s.Hub.Unregister(s.Conn)
}
