//go:build cgo && (linux || darwin)

package vosk

/*
#cgo linux LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdlib.h>

// Trampolines: call a resolved symbol with its exact C signature. Boolean
// flags travel as int, as declared in vosk_api.h.

static void vk_void_int(void *f, int a) {
    ((void (*)(int))f)(a);
}

static void *vk_ptr_str(void *f, const char *s) {
    return ((void *(*)(const char *))f)(s);
}

static void vk_void_ptr(void *f, void *p) {
    ((void (*)(void *))f)(p);
}

static void *vk_ptr_ptr_float(void *f, void *p, float rate) {
    return ((void *(*)(void *, float))f)(p, rate);
}

static void *vk_ptr_ptr_float_ptr(void *f, void *p, float rate, void *q) {
    return ((void *(*)(void *, float, void *))f)(p, rate, q);
}

static void *vk_ptr_ptr_float_str(void *f, void *p, float rate, const char *s) {
    return ((void *(*)(void *, float, const char *))f)(p, rate, s);
}

static void vk_void_ptr_int(void *f, void *p, int v) {
    ((void (*)(void *, int))f)(p, v);
}

static void vk_void_ptr_ptr(void *f, void *p, void *q) {
    ((void (*)(void *, void *))f)(p, q);
}

static int vk_int_ptr_buf_int(void *f, void *p, const char *data, int length) {
    return ((int (*)(void *, const char *, int))f)(p, data, length);
}

static const char *vk_str_ptr(void *f, void *p) {
    return ((const char *(*)(void *))f)(p);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// dlLibrary is the function table bound from a dlopen'ed libvosk.
type dlLibrary struct {
	handle unsafe.Pointer
	fn     [numSymbols]unsafe.Pointer
}

func openLibrary(path string) (library, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	h := C.dlopen(cPath, C.RTLD_NOW|C.RTLD_GLOBAL)
	if h == nil {
		return nil, fmt.Errorf("dlopen %s: %s", path, C.GoString(C.dlerror()))
	}

	lib := &dlLibrary{handle: h}
	for i, name := range symbols {
		cName := C.CString(name)
		sym := C.dlsym(h, cName)
		C.free(unsafe.Pointer(cName))
		if sym == nil {
			C.dlclose(h)
			return nil, fmt.Errorf("dlsym %s in %s: symbol not found", name, path)
		}
		lib.fn[i] = sym
	}
	return lib, nil
}

func cbool(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

// cstr views a NullTerminated buffer as a C string. The buffer must stay
// alive for the duration of the call.
func cstr(b []byte) *C.char {
	return (*C.char)(unsafe.Pointer(&b[0]))
}

func (l *dlLibrary) setLogLevel(level int) {
	C.vk_void_int(l.fn[symSetLogLevel], C.int(level))
}

func (l *dlLibrary) modelNew(path []byte) unsafe.Pointer {
	return C.vk_ptr_str(l.fn[symModelNew], cstr(path))
}

func (l *dlLibrary) modelFree(model unsafe.Pointer) {
	C.vk_void_ptr(l.fn[symModelFree], model)
}

func (l *dlLibrary) spkModelNew(path []byte) unsafe.Pointer {
	return C.vk_ptr_str(l.fn[symSpkModelNew], cstr(path))
}

func (l *dlLibrary) spkModelFree(model unsafe.Pointer) {
	C.vk_void_ptr(l.fn[symSpkModelFree], model)
}

func (l *dlLibrary) recognizerNew(model unsafe.Pointer, sampleRate float32) unsafe.Pointer {
	return C.vk_ptr_ptr_float(l.fn[symRecognizerNew], model, C.float(sampleRate))
}

func (l *dlLibrary) recognizerNewSpk(model unsafe.Pointer, sampleRate float32, spkModel unsafe.Pointer) unsafe.Pointer {
	return C.vk_ptr_ptr_float_ptr(l.fn[symRecognizerNewSpk], model, C.float(sampleRate), spkModel)
}

func (l *dlLibrary) recognizerNewGrm(model unsafe.Pointer, sampleRate float32, grammar []byte) unsafe.Pointer {
	return C.vk_ptr_ptr_float_str(l.fn[symRecognizerNewGrm], model, C.float(sampleRate), cstr(grammar))
}

func (l *dlLibrary) recognizerFree(rec unsafe.Pointer) {
	C.vk_void_ptr(l.fn[symRecognizerFree], rec)
}

func (l *dlLibrary) recognizerSetMaxAlternatives(rec unsafe.Pointer, n int) {
	C.vk_void_ptr_int(l.fn[symRecognizerSetMaxAlternatives], rec, C.int(n))
}

func (l *dlLibrary) recognizerSetWords(rec unsafe.Pointer, words bool) {
	C.vk_void_ptr_int(l.fn[symRecognizerSetWords], rec, cbool(words))
}

func (l *dlLibrary) recognizerSetPartialWords(rec unsafe.Pointer, partialWords bool) {
	C.vk_void_ptr_int(l.fn[symRecognizerSetPartialWords], rec, cbool(partialWords))
}

func (l *dlLibrary) recognizerSetSpkModel(rec unsafe.Pointer, spkModel unsafe.Pointer) {
	C.vk_void_ptr_ptr(l.fn[symRecognizerSetSpkModel], rec, spkModel)
}

func (l *dlLibrary) recognizerAcceptWaveform(rec unsafe.Pointer, data []byte) int {
	var p *C.char
	if len(data) > 0 {
		p = (*C.char)(unsafe.Pointer(&data[0]))
	}
	return int(C.vk_int_ptr_buf_int(l.fn[symRecognizerAcceptWaveform], rec, p, C.int(len(data))))
}

// The native layer owns result buffers and reuses them on the next call, so
// they are copied into Go strings here.

func (l *dlLibrary) recognizerResult(rec unsafe.Pointer) string {
	return C.GoString(C.vk_str_ptr(l.fn[symRecognizerResult], rec))
}

func (l *dlLibrary) recognizerFinalResult(rec unsafe.Pointer) string {
	return C.GoString(C.vk_str_ptr(l.fn[symRecognizerFinalResult], rec))
}

func (l *dlLibrary) recognizerPartialResult(rec unsafe.Pointer) string {
	return C.GoString(C.vk_str_ptr(l.fn[symRecognizerPartialResult], rec))
}

func (l *dlLibrary) recognizerReset(rec unsafe.Pointer) {
	C.vk_void_ptr(l.fn[symRecognizerReset], rec)
}
