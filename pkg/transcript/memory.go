package transcript

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-memory Store implementation. It is safe for concurrent use
// and intended primarily for testing.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Append(_ context.Context, u *Utterance) error {
	k, v, err := encode(u)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[string(k)] = v
	m.mu.Unlock()
	return nil
}

// keys returns the stored keys with the given prefix in sorted order.
func (m *Memory) keys(prefix string) []string {
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (m *Memory) List(_ context.Context, session string) ([]*Utterance, error) {
	if err := checkSession(session); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Utterance{}
	for _, k := range m.keys(string(sessionPrefix(session))) {
		u, err := decode(m.data[k])
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *Memory) Sessions(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []string
	for _, k := range m.keys(keyPrefix) {
		s, ok := sessionOf([]byte(k))
		if !ok {
			continue
		}
		if n := len(sessions); n == 0 || sessions[n-1] != s {
			sessions = append(sessions, s)
		}
	}
	slices.Sort(sessions)
	return sessions, nil
}

func (m *Memory) Delete(_ context.Context, session string) error {
	if err := checkSession(session); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.keys(string(sessionPrefix(session))) {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
