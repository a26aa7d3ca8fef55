//go:build js && wasm

package sink

import (
	"context"
	"path"
	"syscall/js"
)

// Download is a browser sink. It offers the SVG as a file download named
// after the base name of dest.
type Download struct{}

func (Download) Write(ctx context.Context, text, dest string) (err error) {
	if err := ctx.Err(); err != nil {
		return ioError(dest, err)
	}
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = ioError(dest, jsErr)
				return
			}
			panic(r)
		}
	}()

	doc := js.Global().Get("document")
	parts := js.Global().Get("Array").New(text)
	opts := js.Global().Get("Object").New()
	opts.Set("type", "image/svg+xml")
	blob := js.Global().Get("Blob").New(parts, opts)

	url := js.Global().Get("URL").Call("createObjectURL", blob)
	defer js.Global().Get("URL").Call("revokeObjectURL", url)

	a := doc.Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", path.Base(dest))
	doc.Get("body").Call("appendChild", a)
	a.Call("click")
	doc.Get("body").Call("removeChild", a)
	return nil
}
