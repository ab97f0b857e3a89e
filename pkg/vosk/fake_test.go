package vosk

import (
	"encoding/binary"
	"encoding/json"
	"strings"
	"testing"
	"unsafe"
)

// fakeLibrary is an in-process stand-in for libvosk. It records every call
// and mimics the observable behaviour tests rely on: silence never reaches an
// endpoint, speech followed by silence does, and result JSON follows the
// recognizer's settings.
type fakeLibrary struct {
	calls    []fakeCall
	logLevel int

	failModel      bool
	failRecognizer bool

	models    map[unsafe.Pointer]string
	spkModels map[unsafe.Pointer]string
	recs      map[unsafe.Pointer]*fakeRecognizer

	// transcript is what every utterance decodes to.
	transcript string
}

type fakeCall struct {
	name string
	args []any
}

type fakeRecognizer struct {
	model        unsafe.Pointer
	spk          unsafe.Pointer
	rate         float32
	grammar      string
	words        bool
	partialWords bool
	maxAlt       int

	speech   bool // speech seen since the last endpoint
	frames   int
	status   int    // forced AcceptWaveform status when non-zero
	override string // raw JSON returned by result calls when set
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		models:     make(map[unsafe.Pointer]string),
		spkModels:  make(map[unsafe.Pointer]string),
		recs:       make(map[unsafe.Pointer]*fakeRecognizer),
		transcript: "hello world",
	}
}

// useFakeLibrary installs a fake as the process-wide native table for the
// duration of the test.
func useFakeLibrary(t *testing.T) *fakeLibrary {
	t.Helper()
	f := newFakeLibrary()
	old := native
	native = &loader{lib: f, path: "fake"}
	native.once.Do(func() {})
	t.Cleanup(func() { native = old })
	return f
}

func (f *fakeLibrary) record(name string, args ...any) {
	f.calls = append(f.calls, fakeCall{name: name, args: args})
}

func (f *fakeLibrary) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func (f *fakeLibrary) last(name string) fakeCall {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].name == name {
			return f.calls[i]
		}
	}
	return fakeCall{}
}

func newHandle() unsafe.Pointer {
	return unsafe.Pointer(new(byte))
}

func (f *fakeLibrary) setLogLevel(level int) {
	f.record("vosk_set_log_level", level)
	f.logLevel = level
}

func (f *fakeLibrary) modelNew(path []byte) unsafe.Pointer {
	f.record("vosk_model_new", append([]byte(nil), path...))
	if f.failModel {
		return nil
	}
	h := newHandle()
	f.models[h] = strings.TrimSuffix(string(path), "\x00")
	return h
}

func (f *fakeLibrary) modelFree(model unsafe.Pointer) {
	f.record("vosk_model_free", model)
	delete(f.models, model)
}

func (f *fakeLibrary) spkModelNew(path []byte) unsafe.Pointer {
	f.record("vosk_spk_model_new", append([]byte(nil), path...))
	if f.failModel {
		return nil
	}
	h := newHandle()
	f.spkModels[h] = strings.TrimSuffix(string(path), "\x00")
	return h
}

func (f *fakeLibrary) spkModelFree(model unsafe.Pointer) {
	f.record("vosk_spk_model_free", model)
	delete(f.spkModels, model)
}

func (f *fakeLibrary) newRec(r *fakeRecognizer) unsafe.Pointer {
	if f.failRecognizer {
		return nil
	}
	h := newHandle()
	f.recs[h] = r
	return h
}

func (f *fakeLibrary) recognizerNew(model unsafe.Pointer, sampleRate float32) unsafe.Pointer {
	f.record("vosk_recognizer_new", model, sampleRate)
	return f.newRec(&fakeRecognizer{model: model, rate: sampleRate})
}

func (f *fakeLibrary) recognizerNewSpk(model unsafe.Pointer, sampleRate float32, spkModel unsafe.Pointer) unsafe.Pointer {
	f.record("vosk_recognizer_new_spk", model, sampleRate, spkModel)
	return f.newRec(&fakeRecognizer{model: model, rate: sampleRate, spk: spkModel})
}

func (f *fakeLibrary) recognizerNewGrm(model unsafe.Pointer, sampleRate float32, grammar []byte) unsafe.Pointer {
	f.record("vosk_recognizer_new_grm", model, sampleRate, append([]byte(nil), grammar...))
	return f.newRec(&fakeRecognizer{model: model, rate: sampleRate, grammar: strings.TrimSuffix(string(grammar), "\x00")})
}

func (f *fakeLibrary) recognizerFree(rec unsafe.Pointer) {
	f.record("vosk_recognizer_free", rec)
	delete(f.recs, rec)
}

func (f *fakeLibrary) recognizerSetMaxAlternatives(rec unsafe.Pointer, n int) {
	f.record("vosk_recognizer_set_max_alternatives", rec, n)
	f.recs[rec].maxAlt = n
}

func (f *fakeLibrary) recognizerSetWords(rec unsafe.Pointer, words bool) {
	f.record("vosk_recognizer_set_words", rec, words)
	f.recs[rec].words = words
}

func (f *fakeLibrary) recognizerSetPartialWords(rec unsafe.Pointer, partialWords bool) {
	f.record("vosk_recognizer_set_partial_words", rec, partialWords)
	f.recs[rec].partialWords = partialWords
}

func (f *fakeLibrary) recognizerSetSpkModel(rec unsafe.Pointer, spkModel unsafe.Pointer) {
	f.record("vosk_recognizer_set_spk_model", rec, spkModel)
	f.recs[rec].spk = spkModel
}

func (f *fakeLibrary) recognizerAcceptWaveform(rec unsafe.Pointer, data []byte) int {
	f.record("vosk_recognizer_accept_waveform", rec, len(data))
	r := f.recs[rec]
	if r.status != 0 {
		return r.status
	}
	if isSilence(data) {
		if r.speech {
			r.speech = false
			return 1
		}
		return 0
	}
	r.speech = true
	r.frames += max(1, len(data)/320)
	return 0
}

func isSilence(data []byte) bool {
	for i := 0; i+1 < len(data); i += 2 {
		if int16(binary.LittleEndian.Uint16(data[i:])) != 0 {
			return false
		}
	}
	return true
}

func (f *fakeLibrary) resultJSON(r *fakeRecognizer, text string) string {
	if r.override != "" {
		return r.override
	}
	m := map[string]any{}
	if r.maxAlt > 0 {
		m["alternatives"] = []map[string]any{{"confidence": 212.5, "text": text}}
	} else {
		m["text"] = text
		if r.words && text != "" {
			var words []Word
			for i, w := range strings.Fields(text) {
				words = append(words, Word{Conf: 1, Start: float64(i) * 0.5, End: float64(i)*0.5 + 0.4, Word: w})
			}
			m["result"] = words
		}
	}
	if r.spk != nil && text != "" {
		m["spk"] = []float64{0.1, -0.2, 0.3, -0.4}
		m["spk_frames"] = r.frames
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func (f *fakeLibrary) recognizerResult(rec unsafe.Pointer) string {
	f.record("vosk_recognizer_result", rec)
	r := f.recs[rec]
	text := ""
	if r.frames > 0 {
		text = f.transcript
	}
	out := f.resultJSON(r, text)
	r.frames = 0
	return out
}

func (f *fakeLibrary) recognizerFinalResult(rec unsafe.Pointer) string {
	f.record("vosk_recognizer_final_result", rec)
	r := f.recs[rec]
	text := ""
	if r.speech || r.frames > 0 {
		text = f.transcript
	}
	out := f.resultJSON(r, text)
	r.speech, r.frames = false, 0
	return out
}

func (f *fakeLibrary) recognizerPartialResult(rec unsafe.Pointer) string {
	f.record("vosk_recognizer_partial_result", rec)
	r := f.recs[rec]
	if r.override != "" {
		return r.override
	}
	m := map[string]any{"partial": ""}
	if r.speech {
		m["partial"] = strings.Fields(f.transcript)[0]
		if r.partialWords {
			m["partial_result"] = []Word{{Conf: 1, Start: 0, End: 0.4, Word: strings.Fields(f.transcript)[0]}}
		}
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func (f *fakeLibrary) recognizerReset(rec unsafe.Pointer) {
	f.record("vosk_recognizer_reset", rec)
	r := f.recs[rec]
	r.speech, r.frames = false, 0
}

// speech returns n samples of a non-silent s16le square wave.
func speech(n int) []byte {
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := int16(1000)
		if i%2 == 1 {
			v = -1000
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return buf
}

// silence returns n zero samples.
func silence(n int) []byte {
	return make([]byte, n*2)
}
