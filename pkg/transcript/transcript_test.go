package transcript_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/haivivi/vosk/pkg/transcript"
	"github.com/haivivi/vosk/pkg/vosk"
)

// backends lists every Store implementation; each test runs against all.
var backends = []struct {
	name string
	open func(t *testing.T) transcript.Store
}{
	{"memory", func(t *testing.T) transcript.Store {
		return transcript.NewMemory()
	}},
	{"badger", func(t *testing.T) transcript.Store {
		s, err := transcript.NewBadger(transcript.BadgerOptions{InMemory: true})
		if err != nil {
			t.Fatalf("NewBadger: %v", err)
		}
		return s
	}},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s transcript.Store)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

func TestAppendList(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s transcript.Store) {
		ctx := context.Background()

		// Appended out of order, with seq crossing a digit boundary.
		for _, seq := range []int{10, 2, 0, 1} {
			u := &transcript.Utterance{
				Session: "s1",
				Seq:     seq,
				Offset:  time.Duration(seq) * time.Second,
				Text:    "utterance",
				Words:   []vosk.Word{{Conf: 1, Start: 0.1, End: 0.4, Word: "utterance"}},
			}
			if err := s.Append(ctx, u); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if u.CreatedAt.IsZero() {
				t.Error("CreatedAt not set")
			}
		}

		got, err := s.List(ctx, "s1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var seqs []int
		for _, u := range got {
			seqs = append(seqs, u.Seq)
		}
		if !slices.Equal(seqs, []int{0, 1, 2, 10}) {
			t.Fatalf("seqs = %v, want [0 1 2 10]", seqs)
		}
		last := got[3]
		if last.Offset != 10*time.Second || last.Text != "utterance" || len(last.Words) != 1 {
			t.Errorf("utterance = %+v", last)
		}
		if last.Words[0].Word != "utterance" || last.Words[0].End != 0.4 {
			t.Errorf("word = %+v", last.Words[0])
		}
	})
}

func TestAppendReplaces(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s transcript.Store) {
		ctx := context.Background()
		for _, text := range []string{"first", "second"} {
			if err := s.Append(ctx, &transcript.Utterance{Session: "s", Seq: 0, Text: text}); err != nil {
				t.Fatal(err)
			}
		}
		got, err := s.List(ctx, "s")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Text != "second" {
			t.Errorf("List = %+v", got)
		}
	})
}

func TestSessionsAndDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s transcript.Store) {
		ctx := context.Background()
		for _, session := range []string{"ab", "ab1", "abc"} {
			for seq := range 2 {
				if err := s.Append(ctx, &transcript.Utterance{Session: session, Seq: seq, Text: session}); err != nil {
					t.Fatal(err)
				}
			}
		}

		sessions, err := s.Sessions(ctx)
		if err != nil {
			t.Fatalf("Sessions: %v", err)
		}
		if !slices.Equal(sessions, []string{"ab", "ab1", "abc"}) {
			t.Fatalf("Sessions = %v", sessions)
		}

		// Prefix boundary: "ab" must not include "ab1" or "abc".
		got, err := s.List(ctx, "ab")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("List(ab) = %d utterances, want 2", len(got))
		}

		if err := s.Delete(ctx, "ab"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		sessions, err = s.Sessions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(sessions, []string{"ab1", "abc"}) {
			t.Errorf("Sessions after delete = %v", sessions)
		}
		if got, _ := s.List(ctx, "abc"); len(got) != 2 {
			t.Errorf("List(abc) = %d utterances, want 2", len(got))
		}

		// Unknown sessions are empty, and deleting them is not an error.
		got, err = s.List(ctx, "nope")
		if err != nil || got == nil || len(got) != 0 {
			t.Errorf("List(nope) = %v, %v; want empty", got, err)
		}
		if err := s.Delete(ctx, "nope"); err != nil {
			t.Errorf("Delete(nope): %v", err)
		}
	})
}

func TestInvalidSession(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s transcript.Store) {
		ctx := context.Background()
		for _, session := range []string{"", "a:b"} {
			if err := s.Append(ctx, &transcript.Utterance{Session: session}); !errors.Is(err, transcript.ErrInvalidSession) {
				t.Errorf("Append(%q) err = %v", session, err)
			}
			if _, err := s.List(ctx, session); !errors.Is(err, transcript.ErrInvalidSession) {
				t.Errorf("List(%q) err = %v", session, err)
			}
			if err := s.Delete(ctx, session); !errors.Is(err, transcript.ErrInvalidSession) {
				t.Errorf("Delete(%q) err = %v", session, err)
			}
		}
		if err := s.Append(ctx, &transcript.Utterance{Session: "s", Seq: -1}); err == nil {
			t.Error("Append with negative seq succeeded")
		}
	})
}

func TestBadgerPersists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	s, err := transcript.NewBadger(transcript.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	u := &transcript.Utterance{Session: "keep", Seq: 3, Text: "persisted", Spk: []float64{0.5, -0.5}, SpkFrames: 12}
	if err := s.Append(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = transcript.NewBadger(transcript.BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.List(ctx, "keep")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "persisted" || got[0].SpkFrames != 12 || len(got[0].Spk) != 2 {
		t.Errorf("List = %+v", got)
	}
}

func TestNewBadgerRequiresDir(t *testing.T) {
	if _, err := transcript.NewBadger(transcript.BadgerOptions{}); err == nil {
		t.Error("expected error without Dir")
	}
}

func TestFromResult(t *testing.T) {
	r := &vosk.Result{
		Text:      "hello world",
		Words:     []vosk.Word{{Word: "hello"}, {Word: "world"}},
		Spk:       []float64{1, 2},
		SpkFrames: 40,
	}
	u := transcript.FromResult("s", 4, 2*time.Second, r)
	if u.Session != "s" || u.Seq != 4 || u.Offset != 2*time.Second {
		t.Errorf("header = %+v", u)
	}
	if u.Text != "hello world" || len(u.Words) != 2 || u.SpkFrames != 40 {
		t.Errorf("body = %+v", u)
	}

	alt := &vosk.Result{Alternatives: []vosk.Alternative{
		{Text: "best", Words: []vosk.Word{{Word: "best"}}},
		{Text: "worse"},
	}}
	u = transcript.FromResult("s", 0, 0, alt)
	if u.Text != "best" || len(u.Words) != 1 {
		t.Errorf("alternatives = %+v", u)
	}
}
