// Package transcript persists finalized utterances grouped by session.
//
// Utterances are msgpack-encoded and keyed by session and sequence number:
//
//	utt:{session}:{seq:020d}  → msgpack-encoded Utterance
//
// so a prefix scan over one session returns its utterances in order. The
// package includes a BadgerDB-backed implementation for production use and
// an in-memory implementation for testing.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/haivivi/vosk/pkg/vosk"
	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors.
var (
	// ErrInvalidSession is returned for empty session ids or ids containing
	// the key separator.
	ErrInvalidSession = errors.New("transcript: invalid session id")
)

// Utterance is one finalized recognition result.
type Utterance struct {
	Session string `json:"session" msgpack:"session"`

	// Seq orders utterances within a session.
	Seq int `json:"seq" msgpack:"seq"`

	// Offset is the stream position at which the utterance was finalized.
	Offset time.Duration `json:"offset" msgpack:"offset"`

	Text      string      `json:"text" msgpack:"text"`
	Words     []vosk.Word `json:"words,omitempty" msgpack:"words,omitempty"`
	Spk       []float64   `json:"spk,omitempty" msgpack:"spk,omitempty"`
	SpkFrames int         `json:"spk_frames,omitempty" msgpack:"spk_frames,omitempty"`
	CreatedAt time.Time   `json:"created_at" msgpack:"created_at"`
}

// FromResult builds the utterance for a recognizer result.
func FromResult(session string, seq int, offset time.Duration, r *vosk.Result) *Utterance {
	u := &Utterance{
		Session:   session,
		Seq:       seq,
		Offset:    offset,
		Text:      r.Best(),
		Words:     r.Words,
		Spk:       r.Spk,
		SpkFrames: r.SpkFrames,
	}
	if len(u.Words) == 0 && len(r.Alternatives) > 0 {
		u.Words = r.Alternatives[0].Words
	}
	return u
}

// Store is the interface for a transcript store.
type Store interface {
	// Append stores u. An utterance with the same session and Seq is
	// replaced. A zero CreatedAt is set to the current time.
	Append(ctx context.Context, u *Utterance) error

	// List returns the utterances of a session ordered by Seq. An unknown
	// session yields an empty slice.
	List(ctx context.Context, session string) ([]*Utterance, error)

	// Sessions returns all session ids in lexicographic order.
	Sessions(ctx context.Context) ([]string, error)

	// Delete removes every utterance of a session.
	Delete(ctx context.Context, session string) error

	// Close releases any resources held by the store.
	Close() error
}

const (
	keyPrefix = "utt:"
	sep       = ':'
)

func checkSession(session string) error {
	if session == "" || strings.IndexByte(session, sep) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidSession, session)
	}
	return nil
}

func sessionPrefix(session string) []byte {
	return []byte(keyPrefix + session + string(sep))
}

func utteranceKey(session string, seq int) []byte {
	return fmt.Appendf(sessionPrefix(session), "%020d", seq)
}

// sessionOf extracts the session id from an encoded key.
func sessionOf(key []byte) (string, bool) {
	rest, ok := strings.CutPrefix(string(key), keyPrefix)
	if !ok {
		return "", false
	}
	i := strings.LastIndexByte(rest, sep)
	if i <= 0 {
		return "", false
	}
	if _, err := strconv.ParseUint(rest[i+1:], 10, 64); err != nil {
		return "", false
	}
	return rest[:i], true
}

func encode(u *Utterance) ([]byte, []byte, error) {
	if err := checkSession(u.Session); err != nil {
		return nil, nil, err
	}
	if u.Seq < 0 {
		return nil, nil, fmt.Errorf("transcript: negative seq %d", u.Seq)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	data, err := msgpack.Marshal(u)
	if err != nil {
		return nil, nil, fmt.Errorf("transcript: marshal: %w", err)
	}
	return utteranceKey(u.Session, u.Seq), data, nil
}

func decode(data []byte) (*Utterance, error) {
	var u Utterance
	if err := msgpack.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("transcript: unmarshal: %w", err)
	}
	return &u, nil
}
