package vosk

import (
	"fmt"
	"unsafe"
)

// Model holds a loaded acoustic model. Create with [NewModel].
//
// A Model may be shared by any number of Recognizers, including ones created
// concurrently. It must outlive all of them.
type Model struct {
	lib    library
	handle unsafe.Pointer
	path   string
}

// NewModel loads the model stored in directory path.
func NewModel(path string) (*Model, error) {
	lib, err := native.load("")
	if err != nil {
		return nil, err
	}
	return newModel(lib, path)
}

func newModel(lib library, path string) (*Model, error) {
	h := lib.modelNew(NullTerminated(path))
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrModelLoad, path)
	}
	return &Model{lib: lib, handle: h, path: path}, nil
}

// Path returns the directory the model was loaded from.
func (m *Model) Path() string {
	return m.path
}

// Free releases the native model. Calling Free again is a no-op.
func (m *Model) Free() {
	if m.handle != nil {
		m.lib.modelFree(m.handle)
		m.handle = nil
	}
}

// SpeakerModel holds a loaded speaker identification model. Create with
// [NewSpeakerModel]. Like Model, it may be shared and must outlive every
// Recognizer that uses it.
type SpeakerModel struct {
	lib    library
	handle unsafe.Pointer
	path   string
}

// NewSpeakerModel loads the speaker model stored in directory path.
func NewSpeakerModel(path string) (*SpeakerModel, error) {
	lib, err := native.load("")
	if err != nil {
		return nil, err
	}
	return newSpeakerModel(lib, path)
}

func newSpeakerModel(lib library, path string) (*SpeakerModel, error) {
	h := lib.spkModelNew(NullTerminated(path))
	if h == nil {
		return nil, fmt.Errorf("%w: speaker model %s", ErrModelLoad, path)
	}
	return &SpeakerModel{lib: lib, handle: h, path: path}, nil
}

// Path returns the directory the speaker model was loaded from.
func (m *SpeakerModel) Path() string {
	return m.path
}

// Free releases the native speaker model. Calling Free again is a no-op.
func (m *SpeakerModel) Free() {
	if m.handle != nil {
		m.lib.spkModelFree(m.handle)
		m.handle = nil
	}
}
