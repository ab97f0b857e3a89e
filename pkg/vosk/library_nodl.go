//go:build !cgo || !(linux || darwin)

package vosk

import (
	"fmt"
	"runtime"
)

func openLibrary(path string) (library, error) {
	return nil, fmt.Errorf("load %s: dynamic loading needs cgo on linux or darwin, have %s/%s",
		path, runtime.GOOS, runtime.GOARCH)
}
