// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/tools.go
// Summary: Tool identifiers and their draw-op mapping.

package editor

import "github.com/tilemason/tilemason/protocol"

// Tool selects the active editing tool.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
	ToolRectangle
	ToolEllipse
	ToolFill
	ToolLine
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	case ToolRectangle:
		return "rectangle"
	case ToolEllipse:
		return "ellipse"
	case ToolFill:
		return "fill"
	case ToolLine:
		return "line"
	}
	return "unknown"
}

// drawKind maps a shape tool to its wire operation.
func (t Tool) drawKind() protocol.DrawKind {
	switch t {
	case ToolRectangle:
		return protocol.DrawRectangle
	case ToolEllipse:
		return protocol.DrawEllipse
	case ToolLine:
		return protocol.DrawLine
	case ToolFill:
		return protocol.DrawFill
	default:
		return protocol.DrawBrush
	}
}

// isShape reports whether the tool commits on pointer release from a
// two-point gesture.
func (t Tool) isShape() bool {
	return t == ToolRectangle || t == ToolEllipse || t == ToolLine
}
