package vosk

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"
)

// LibraryPathEnv names the environment variable that overrides the default
// libvosk location.
const LibraryPathEnv = "VOSK_LIBRARY_PATH"

// Native log levels accepted by SetLogLevel. Values above LogLevelVerbose
// increase verbosity further.
const (
	LogLevelSilent  = -1
	LogLevelDefault = 0
	LogLevelVerbose = 1
)

// symbols is the native entry-point table, in binding order.
var symbols = [...]string{
	"vosk_set_log_level",
	"vosk_model_new",
	"vosk_model_free",
	"vosk_spk_model_new",
	"vosk_spk_model_free",
	"vosk_recognizer_new",
	"vosk_recognizer_new_spk",
	"vosk_recognizer_new_grm",
	"vosk_recognizer_free",
	"vosk_recognizer_set_max_alternatives",
	"vosk_recognizer_set_words",
	"vosk_recognizer_set_partial_words",
	"vosk_recognizer_set_spk_model",
	"vosk_recognizer_accept_waveform",
	"vosk_recognizer_result",
	"vosk_recognizer_final_result",
	"vosk_recognizer_partial_result",
	"vosk_recognizer_reset",
}

// Indices into symbols.
const (
	symSetLogLevel = iota
	symModelNew
	symModelFree
	symSpkModelNew
	symSpkModelFree
	symRecognizerNew
	symRecognizerNewSpk
	symRecognizerNewGrm
	symRecognizerFree
	symRecognizerSetMaxAlternatives
	symRecognizerSetWords
	symRecognizerSetPartialWords
	symRecognizerSetSpkModel
	symRecognizerAcceptWaveform
	symRecognizerResult
	symRecognizerFinalResult
	symRecognizerPartialResult
	symRecognizerReset
	numSymbols
)

// Symbols returns the names of the native entry points the binding resolves.
func Symbols() []string {
	return append([]string(nil), symbols[:]...)
}

// library is the bound native function table. String arguments are passed as
// NullTerminated buffers; string results are copied before returning.
type library interface {
	setLogLevel(level int)
	modelNew(path []byte) unsafe.Pointer
	modelFree(model unsafe.Pointer)
	spkModelNew(path []byte) unsafe.Pointer
	spkModelFree(model unsafe.Pointer)
	recognizerNew(model unsafe.Pointer, sampleRate float32) unsafe.Pointer
	recognizerNewSpk(model unsafe.Pointer, sampleRate float32, spkModel unsafe.Pointer) unsafe.Pointer
	recognizerNewGrm(model unsafe.Pointer, sampleRate float32, grammar []byte) unsafe.Pointer
	recognizerFree(rec unsafe.Pointer)
	recognizerSetMaxAlternatives(rec unsafe.Pointer, n int)
	recognizerSetWords(rec unsafe.Pointer, words bool)
	recognizerSetPartialWords(rec unsafe.Pointer, partialWords bool)
	recognizerSetSpkModel(rec unsafe.Pointer, spkModel unsafe.Pointer)
	recognizerAcceptWaveform(rec unsafe.Pointer, data []byte) int
	recognizerResult(rec unsafe.Pointer) string
	recognizerFinalResult(rec unsafe.Pointer) string
	recognizerPartialResult(rec unsafe.Pointer) string
	recognizerReset(rec unsafe.Pointer)
}

// loader holds the process-wide outcome of loading libvosk.
type loader struct {
	once sync.Once
	path string
	lib  library
	err  error
}

var native = &loader{}

func (l *loader) load(path string) (library, error) {
	l.once.Do(func() {
		if path == "" {
			path = DefaultLibraryPath()
		}
		l.path = path
		lib, err := openLibrary(path)
		if err != nil {
			l.err = fmt.Errorf("%w: %v", ErrLibrary, err)
			return
		}
		l.lib = lib
	})
	if l.err != nil {
		return nil, l.err
	}
	if path != "" && path != l.path {
		return nil, fmt.Errorf("%w: already loaded from %s", ErrLibrary, l.path)
	}
	return l.lib, nil
}

// Load binds libvosk from path, or from the default location when path is
// empty. Only the first call in a process loads anything; later calls return
// the same outcome. Constructors call Load("") implicitly.
func Load(path string) error {
	_, err := native.load(path)
	return err
}

// MustLoad is like Load but panics on failure.
func MustLoad(path string) {
	if err := Load(path); err != nil {
		panic(err)
	}
}

// DefaultLibraryPath returns the library location used when none is given:
// $VOSK_LIBRARY_PATH if set, otherwise lib/libvosk.<ext> in the directory of
// the running executable.
func DefaultLibraryPath() string {
	if p := os.Getenv(LibraryPathEnv); p != "" {
		return p
	}
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}
	return filepath.Join(dir, "lib", LibraryFileName())
}

// LibraryFileName returns the platform file name of libvosk.
func LibraryFileName() string {
	return "libvosk." + librarySuffix(runtime.GOOS)
}

func librarySuffix(goos string) string {
	switch goos {
	case "darwin", "ios":
		return "dylib"
	case "windows":
		return "dll"
	default:
		return "so"
	}
}

// SetLogLevel sets the native log level for the whole process. See
// LogLevelSilent, LogLevelDefault and LogLevelVerbose.
func SetLogLevel(level int) error {
	lib, err := native.load("")
	if err != nil {
		return err
	}
	lib.setLogLevel(level)
	return nil
}
