//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"syscall/js"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/engine"
	"github.com/inamate/pathsvg/internal/scene"
	"github.com/inamate/pathsvg/internal/sink"
	"github.com/inamate/pathsvg/internal/text"
)

var errMissingScene = errors.New("missing scene JSON")

var (
	eng *engine.Engine

	// The last assembled scene, reused while the caller passes the same JSON.
	lastJSON string
	lastDoc  *document.Document
)

func main() {
	eng = engine.New(engine.WithShaper(text.NewShaper(text.NewFontDB())))

	// Create the API object
	api := js.Global().Get("Object").New()

	api.Set("render", js.FuncOf(render))
	api.Set("drawCommands", js.FuncOf(drawCommands))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("selectionBounds", js.FuncOf(selectionBounds))
	api.Set("sampleScene", js.FuncOf(sampleScene))
	api.Set("download", js.FuncOf(download))

	// Register on global scope
	js.Global().Set("pathsvg", api)

	// Signal that WASM is ready
	js.Global().Set("pathsvgWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorValue(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func decode(args []js.Value) (*scene.Scene, error) {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return nil, errMissingScene
	}
	return scene.Decode(strings.NewReader(args[0].String()), scene.FormatJSON)
}

func assemble(args []js.Value) (*document.Document, error) {
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() == lastJSON && lastDoc != nil {
		return lastDoc, nil
	}
	sc, err := decode(args)
	if err != nil {
		return nil, err
	}
	doc, err := eng.Assemble(sc)
	if err != nil {
		return nil, err
	}
	lastJSON, lastDoc = args[0].String(), doc
	return doc, nil
}

// render(sceneJSON) returns {svg, viewport} or {error}.
func render(this js.Value, args []js.Value) interface{} {
	sc, err := decode(args)
	if err != nil {
		return errorValue(err)
	}
	res, err := eng.Render(context.Background(), sc)
	if err != nil {
		return errorValue(err)
	}
	lastJSON, lastDoc = args[0].String(), res.Document
	vp := res.Document.Viewport
	return js.ValueOf(map[string]interface{}{
		"svg": res.SVG,
		"viewport": map[string]interface{}{
			"width":   vp.Width,
			"height":  vp.Height,
			"centerX": vp.CenterX,
			"centerY": vp.CenterY,
		},
	})
}

// drawCommands(sceneJSON) returns the canvas commands as a JSON string.
func drawCommands(this js.Value, args []js.Value) interface{} {
	doc, err := assemble(args)
	if err != nil {
		return errorValue(err)
	}
	out, err := engine.DrawCommandsToJSON(engine.CompileDrawCommands(doc))
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(out)
}

// hitTest(sceneJSON, x, y) returns the id of the topmost shape under the
// point, or "".
func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf("")
	}
	doc, err := assemble(args)
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(engine.HitTest(doc, args[1].Float(), args[2].Float()))
}

// selectionBounds(sceneJSON, ids) returns the world bounds of the shapes.
func selectionBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("null")
	}
	doc, err := assemble(args)
	if err != nil {
		return errorValue(err)
	}

	arr := args[1]
	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}

	b := engine.SelectionBounds(doc, ids)
	if b.IsEmpty() {
		return js.ValueOf("null")
	}
	data, _ := json.Marshal(b)
	return js.ValueOf(string(data))
}

// sampleScene() returns the demo scene as JSON.
func sampleScene(this js.Value, args []js.Value) interface{} {
	var buf strings.Builder
	if err := scene.Encode(&buf, scene.Sample(), scene.FormatJSON); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(buf.String())
}

// download(sceneJSON, name) renders the scene and offers it as a file.
func download(this js.Value, args []js.Value) interface{} {
	sc, err := decode(args)
	if err != nil {
		return errorValue(err)
	}
	name := "drawing.svg"
	if len(args) > 1 && args[1].Type() == js.TypeString && args[1].String() != "" {
		name = args[1].String()
	}
	if _, err := eng.Export(context.Background(), sc, sink.Download{}, name); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}
