// Package protocol defines the typed messages exchanged between the
// paint controller and the render worker, and the map file codec. The
// two sides share the grid through memory; everything else crosses as
// one-way messages.
package protocol

import (
	"github.com/tilemason/tilemason/config"
	"github.com/tilemason/tilemason/geom"
)

// MessageType enumerates the message categories exchanged between the
// controller and the render worker.
type MessageType uint8

const (
	MsgInitialize MessageType = iota
	MsgUpdateTransform
	MsgRedrawTile
	MsgRedrawRegion
	MsgRedrawLayer
	MsgRedrawAll
	MsgResize
	MsgSetShowGrid
	MsgSetLayerVisibility
	MsgUpdateBrushPreview
	MsgClearBrushPreview
	MsgDraw
	MsgSetCurrentLayer
	MsgSetOptions
	MsgTerminate

	// Replies from the worker.
	MsgInitComplete
	MsgInitError
	MsgFrameComplete
	MsgFPSUpdate
	MsgError
	MsgMapDimensionsUpdated
	MsgMapDimensionsError
	MsgTerminateAck
)

var messageNames = map[MessageType]string{
	MsgInitialize:           "initialize",
	MsgUpdateTransform:      "updateTransform",
	MsgRedrawTile:           "redrawTile",
	MsgRedrawRegion:         "redrawRegion",
	MsgRedrawLayer:          "redrawLayer",
	MsgRedrawAll:            "redrawAll",
	MsgResize:               "resize",
	MsgSetShowGrid:          "setShowGrid",
	MsgSetLayerVisibility:   "setLayerVisibility",
	MsgUpdateBrushPreview:   "updateBrushPreview",
	MsgClearBrushPreview:    "clearBrushPreview",
	MsgDraw:                 "draw",
	MsgSetCurrentLayer:      "setCurrentLayer",
	MsgSetOptions:           "setOptions",
	MsgTerminate:            "terminate",
	MsgInitComplete:         "initComplete",
	MsgInitError:            "initError",
	MsgFrameComplete:        "frameComplete",
	MsgFPSUpdate:            "fpsUpdate",
	MsgError:                "error",
	MsgMapDimensionsUpdated: "mapDimensionsUpdated",
	MsgMapDimensionsError:   "mapDimensionsError",
	MsgTerminateAck:         "terminateAcknowledged",
}

func (t MessageType) String() string {
	if name, ok := messageNames[t]; ok {
		return name
	}
	return "unknown"
}

// Message is the tagged union crossing the controller/worker channel.
type Message interface {
	Kind() MessageType
}

// Transform maps tile coordinates to screen pixels:
// screen = map*tileSize*zoom + offset.
type Transform struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// DrawKind selects which tool operation a DrawOp describes.
type DrawKind uint8

const (
	DrawBrush DrawKind = iota
	DrawRectangle
	DrawEllipse
	DrawFill
	DrawLine
)

func (k DrawKind) String() string {
	switch k {
	case DrawBrush:
		return "brush"
	case DrawRectangle:
		return "rectangle"
	case DrawEllipse:
		return "ellipse"
	case DrawFill:
		return "fill"
	case DrawLine:
		return "line"
	}
	return "unknown"
}

// DrawOp describes one completed or in-progress tool action. It is
// plain data, bound to no executor, so it can cross the
// controller/worker boundary as a message payload.
type DrawOp struct {
	Op        DrawKind
	Layer     int
	Start     geom.Point
	End       geom.Point
	TileIndex int32
	BrushSize int
	Erasing   bool
}

// UpdateTransform carries a new view transform to the worker.
type UpdateTransform struct {
	Transform Transform
}

func (UpdateTransform) Kind() MessageType { return MsgUpdateTransform }

// RedrawTile invalidates a single tile on one layer.
type RedrawTile struct {
	Layer int
	X, Y  int
}

func (RedrawTile) Kind() MessageType { return MsgRedrawTile }

// RedrawRegion invalidates a tile rectangle on one layer.
type RedrawRegion struct {
	Layer  int
	Region geom.Rect
}

func (RedrawRegion) Kind() MessageType { return MsgRedrawRegion }

// RedrawLayer invalidates one whole layer.
type RedrawLayer struct {
	Layer int
}

func (RedrawLayer) Kind() MessageType { return MsgRedrawLayer }

// RedrawAll invalidates every layer.
type RedrawAll struct{}

func (RedrawAll) Kind() MessageType { return MsgRedrawAll }

// Resize tells the worker the presentation surface changed size.
type Resize struct {
	Width, Height int
}

func (Resize) Kind() MessageType { return MsgResize }

// SetShowGrid toggles the grid line overlay.
type SetShowGrid struct {
	Show bool
}

func (SetShowGrid) Kind() MessageType { return MsgSetShowGrid }

// SetLayerVisibility toggles one layer's visibility.
type SetLayerVisibility struct {
	Layer   int
	Visible bool
}

func (SetLayerVisibility) Kind() MessageType { return MsgSetLayerVisibility }

// UpdateBrushPreview positions the hover preview overlay.
type UpdateBrushPreview struct {
	Area geom.Rect
	Op   DrawOp
}

func (UpdateBrushPreview) Kind() MessageType { return MsgUpdateBrushPreview }

// ClearBrushPreview removes the hover preview overlay.
type ClearBrushPreview struct{}

func (ClearBrushPreview) Kind() MessageType { return MsgClearBrushPreview }

// Draw asks the worker to apply one operation to shared memory.
type Draw struct {
	Op DrawOp
}

func (Draw) Kind() MessageType { return MsgDraw }

// SetCurrentLayer switches the highlighted layer. Layer -1 selects the
// all-layers view.
type SetCurrentLayer struct {
	Layer         int
	ShowAllLayers bool
}

func (SetCurrentLayer) Kind() MessageType { return MsgSetCurrentLayer }

// SetOptions updates the render quality knobs at runtime.
type SetOptions struct {
	Options config.Render
}

func (SetOptions) Kind() MessageType { return MsgSetOptions }

// Terminate asks the worker to release its caches and stop.
type Terminate struct{}

func (Terminate) Kind() MessageType { return MsgTerminate }

// Reply is a message from the worker back to the controller.
type Reply struct {
	Type MessageType

	// Err is set for MsgInitError, MsgError and MsgMapDimensionsError.
	Err error

	// Request is the originating request type for MsgError replies.
	Request MessageType

	// FPS is set for MsgFPSUpdate.
	FPS float64

	// Width and Height accompany MsgMapDimensionsUpdated.
	Width, Height int
}

func (r Reply) Kind() MessageType { return r.Type }
