// Package server implements a WebSocket speech recognition server speaking
// the Vosk server protocol.
//
// Protocol:
//
//   - An optional first text frame {"config": {...}} sets sample_rate, words,
//     partial_words, max_alternatives, grammar (alias phrase_list) and
//     speaker for the session.
//   - Binary frames carry little-endian 16-bit mono PCM. Each is answered
//     with result JSON when it completes an utterance, otherwise with
//     partial JSON.
//   - The text frame {"eof": 1} is answered with the final result, after
//     which the server closes the connection.
//   - Failures are reported as {"error": "..."} before closing.
//
// Each connection owns one recognizer, created on the first audio frame and
// freed when the connection ends. Models are shared by all connections.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/haivivi/vosk/pkg/audio/pcm"
	"github.com/haivivi/vosk/pkg/transcript"
	"github.com/haivivi/vosk/pkg/vosk"
)

const (
	// DefaultMaxMessageSize bounds a single incoming frame.
	DefaultMaxMessageSize = 1 << 20

	writeTimeout = 10 * time.Second

	// SessionHeader carries the session id in the upgrade response.
	SessionHeader = "X-Vosk-Session"
)

// Server is an http.Handler that upgrades requests to recognition sessions.
type Server struct {
	// Factory creates a recognizer per session. Required.
	Factory Factory

	// Defaults apply to sessions that send no config, and to fields a
	// config leaves out. A zero SampleRate means 16000.
	Defaults SessionConfig

	// Store receives every non-empty final result. Optional.
	Store transcript.Store

	// MaxMessageSize bounds incoming frames. Default is DefaultMaxMessageSize.
	MaxMessageSize int64

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	mu       sync.Mutex
	sessions map[*websocket.Conn]struct{}
	closing  bool
	wg       sync.WaitGroup
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) defaults() SessionConfig {
	cfg := s.Defaults
	if cfg.SampleRate < 1 {
		cfg.SampleRate = 16000
	}
	return cfg
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	header := http.Header{SessionHeader: []string{id}}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	ws, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		s.logger().Debug("server: upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	limit := s.MaxMessageSize
	if limit <= 0 {
		limit = DefaultMaxMessageSize
	}
	ws.SetReadLimit(limit)

	if !s.track(ws) {
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeTimeout))
		ws.Close()
		return
	}
	defer s.untrack(ws)

	cfg := s.defaults()
	sess := &session{
		id:     id,
		srv:    s,
		ws:     ws,
		cfg:    cfg,
		format: pcm.L16Mono(int(cfg.SampleRate)),
		logger: s.logger().With("session", id, "remote", r.RemoteAddr),
	}
	sess.run(r.Context())
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. It returns after every open
// session has been closed and its recognizer freed, so models and the store
// may be released once it returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.Factory == nil {
		return errors.New("server: Factory is required")
	}
	hs := &http.Server{Handler: s}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hs.Shutdown(shutdownCtx)
	}()

	s.logger().Info("server: listening", "addr", ln.Addr().String())
	err := hs.Serve(ln)

	// Shutdown does not touch hijacked connections, so sessions are closed
	// here and waited for until each has freed its recognizer.
	s.closeSessions()
	s.wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// track registers a session connection. It reports false once the server
// is closing.
func (s *Server) track(ws *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	if s.sessions == nil {
		s.sessions = make(map[*websocket.Conn]struct{})
	}
	s.sessions[ws] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(ws *websocket.Conn) {
	s.mu.Lock()
	delete(s.sessions, ws)
	s.mu.Unlock()
	s.wg.Done()
}

// closeSessions refuses new sessions and closes the open ones, which makes
// their read loops return.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	for ws := range s.sessions {
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeTimeout))
		ws.Close()
	}
}

type session struct {
	id     string
	srv    *Server
	ws     *websocket.Conn
	cfg    SessionConfig
	logger *slog.Logger

	rec      Recognizer
	format   pcm.Format
	consumed int64
	seq      int
}

// configMessage is the client's session setup frame.
type configMessage struct {
	Config *struct {
		SampleRate      *float64 `json:"sample_rate"`
		Words           *bool    `json:"words"`
		PartialWords    *bool    `json:"partial_words"`
		MaxAlternatives *int     `json:"max_alternatives"`
		Grammar         []string `json:"grammar"`
		PhraseList      []string `json:"phrase_list"`
		Speaker         *bool    `json:"speaker"`
	} `json:"config"`
	EOF *int `json:"eof"`
}

type errorMessage struct {
	Error string `json:"error"`
}

func (s *session) run(ctx context.Context) {
	s.logger.Info("server: session started")
	defer func() {
		if s.rec != nil {
			s.rec.Free()
		}
		s.ws.Close()
		s.logger.Info("server: session closed", "utterances", s.seq, "audio", s.format.Duration(s.consumed))
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		mt, data, err := s.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("server: read failed", "error", err)
			}
			return
		}

		var done bool
		switch mt {
		case websocket.BinaryMessage:
			err = s.audio(ctx, data)
		case websocket.TextMessage:
			done, err = s.text(ctx, data)
		}
		if err != nil {
			s.fail(err)
			return
		}
		if done {
			s.close()
			return
		}
	}
}

func (s *session) text(ctx context.Context, data []byte) (bool, error) {
	var msg configMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return false, fmt.Errorf("invalid message: %w", err)
	}
	switch {
	case msg.Config != nil:
		if s.rec != nil {
			return false, errors.New("config must precede audio")
		}
		c := msg.Config
		if c.SampleRate != nil {
			if *c.SampleRate < 1 {
				return false, fmt.Errorf("invalid sample_rate %v", *c.SampleRate)
			}
			s.cfg.SampleRate = *c.SampleRate
		}
		if c.Words != nil {
			s.cfg.Words = *c.Words
		}
		if c.PartialWords != nil {
			s.cfg.PartialWords = *c.PartialWords
		}
		if c.MaxAlternatives != nil {
			s.cfg.MaxAlternatives = *c.MaxAlternatives
		}
		if c.Grammar != nil {
			s.cfg.Grammar = c.Grammar
		} else if c.PhraseList != nil {
			s.cfg.Grammar = c.PhraseList
		}
		if c.Speaker != nil {
			s.cfg.Speaker = *c.Speaker
		} else if c.Grammar != nil || c.PhraseList != nil {
			// A grammar without an explicit speaker flag overrides a
			// speaker default; the two cannot be combined.
			s.cfg.Speaker = false
		}
		s.logger.Debug("server: session configured", "config", s.cfg)
		return false, nil
	case msg.EOF != nil:
		if err := s.ensureRecognizer(); err != nil {
			return false, err
		}
		res, err := s.rec.FinalResult()
		if err != nil {
			return false, err
		}
		s.store(ctx, res)
		return true, s.send(res)
	}
	return false, errors.New("unknown message")
}

func (s *session) ensureRecognizer() error {
	if s.rec != nil {
		return nil
	}
	rec, err := s.srv.Factory.NewRecognizer(s.cfg)
	if err != nil {
		return err
	}
	s.rec = rec
	s.format = pcm.L16Mono(int(s.cfg.SampleRate))
	return nil
}

func (s *session) audio(ctx context.Context, data []byte) error {
	if err := s.ensureRecognizer(); err != nil {
		return err
	}
	s.consumed += int64(len(data))
	endpoint, err := s.rec.AcceptWaveform(data)
	if err != nil {
		return err
	}
	if endpoint {
		res, err := s.rec.Result()
		if err != nil {
			return err
		}
		s.store(ctx, res)
		return s.send(res)
	}
	p, err := s.rec.PartialResult()
	if err != nil {
		return err
	}
	return s.send(p)
}

func (s *session) store(ctx context.Context, res *vosk.Result) {
	offset := s.format.Duration(s.consumed)
	s.logger.Debug("server: final result", "seq", s.seq, "offset", offset, "text", res.Best())
	if res.Best() == "" {
		return
	}
	seq := s.seq
	s.seq++
	if s.srv.Store == nil {
		return
	}
	if err := s.srv.Store.Append(ctx, transcript.FromResult(s.id, seq, offset, res)); err != nil {
		s.logger.Warn("server: store transcript failed", "seq", seq, "error", err)
	}
}

func (s *session) send(v any) error {
	s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.ws.WriteJSON(v)
}

func (s *session) fail(err error) {
	s.logger.Warn("server: session failed", "error", err)
	if werr := s.send(errorMessage{Error: err.Error()}); werr != nil {
		return
	}
	s.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""),
		time.Now().Add(writeTimeout))
}

func (s *session) close() {
	s.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}
