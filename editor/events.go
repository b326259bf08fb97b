// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/events.go
// Summary: Editor-side event bus. Widgets subscribe to state changes
// instead of polling the controller.

package editor

import "sync"

// EventType defines the type of an event.
type EventType int

const (
	// EventStateUpdate carries a full StatePayload after any editor
	// state change (tool, layer, brush, zoom, history).
	EventStateUpdate EventType = iota
	// EventMapModified fires after a gesture commits cell changes.
	EventMapModified
	// EventBrushesChanged fires when the custom brush set changes.
	EventBrushesChanged
)

// Event represents a message passed through the editor.
type Event struct {
	Type    EventType
	Payload interface{}
}

// StatePayload is the data associated with an EventStateUpdate.
type StatePayload struct {
	Tool          Tool
	Layer         int
	ShowAllLayers bool
	BrushID       int
	BrushSize     int
	Zoom          float64
	ShowGrid      bool
	CanUndo       bool
	CanRedo       bool
}

// Listener is an interface that any component can implement to receive
// events.
type Listener interface {
	OnEvent(event Event)
}

// EventDispatcher manages a list of listeners and broadcasts events to
// them.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make([]Listener, 0),
	}
}

// Subscribe adds a new listener to receive events.
func (d *EventDispatcher) Subscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, listener)
}

// Unsubscribe removes a listener.
func (d *EventDispatcher) Unsubscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if l == listener {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, l := range d.listeners {
		l.OnEvent(event)
	}
}
