// Package vosk provides Go bindings for the Vosk speech recognition library
// via runtime dynamic loading (dlopen) of libvosk.
//
// The package does no recognition of its own. It resolves the native entry
// points once per process, marshals Go values across the boundary and wraps
// the opaque native handles in Go types with explicit lifecycles.
//
// # Architecture
//
// The package exposes three core types:
//
//   - [Model]: an acoustic model loaded from a model directory
//   - [SpeakerModel]: a speaker identification model
//   - [Recognizer]: a streaming recognition session built on a Model
//
// Usage flow:
//
//	model, _ := vosk.NewModel("model/vosk-model-small-en-us-0.15")
//	defer model.Free()
//
//	rec, _ := vosk.NewRecognizer(vosk.RecognizerConfig{
//	    Model:      model,
//	    SampleRate: 16000,
//	})
//	defer rec.Free()
//
//	for chunk := range chunks {
//	    endpoint, _ := rec.AcceptWaveform(chunk)
//	    if endpoint {
//	        res, _ := rec.Result()
//	        fmt.Println(res.Text)
//	    }
//	}
//	final, _ := rec.FinalResult()
//
// # Dynamic Linking
//
// libvosk is loaded at runtime, not linked. The library path is taken from
// [Load], then the VOSK_LIBRARY_PATH environment variable, then
// lib/libvosk.{so,dylib,dll} next to the executable. The first load attempt
// decides the outcome for the whole process: a missing library or symbol is
// never retried and there is no partially bound mode. The library is never
// unloaded.
//
// # Memory
//
// Handles are released explicitly with Free; no finalizers are installed.
// Free is idempotent on the object it is called on, and further calls on that
// object return [ErrFreed]. A Recognizer only references its Model and
// SpeakerModel: the caller must keep them alive (not Free them) until every
// Recognizer built from them has been freed. The binding cannot detect a
// model freed underneath a live recognizer.
//
// # Thread Safety
//
// Model and SpeakerModel may be shared by recognizers created concurrently.
// A Recognizer must be used from a single goroutine at a time; the binding
// adds no locking around native calls.
package vosk
