package main

import "bendterm/scene"

type Buffer struct {
	canvas    *Canvas
	undoStack []Action
	redoStack []Action
	filename  string
	panX      int
	panY      int
}

type model struct {
	width              int
	height             int
	cursorX            int
	cursorY            int
	zPanMode           bool
	buffers            []Buffer
	currentBufferIndex int
	mode               Mode
	help               bool
	helpScroll         int
	selectedBox        int
	labelText          string
	connectionFrom     int
	originalMoveX      int
	originalMoveY      int
	filename           string
	fileList           []string
	selectedFileIndex  int
	fileOp             FileOperation
	fromStartup        bool
	openInNewBuffer    bool
	confirmAction      ConfirmAction
	confirmBoxID       int
	confirmConnID      scene.ConnectorID
	errorMessage       string
	successMessage     string
	config             *Config
	gesture            *gesture
}

type point struct {
	X, Y int
}

// Action is one entry of a buffer's undo history. Bend edits carry the
// bend.Operation returned by the editor as Data and have no Inverse.
type Action struct {
	Type    ActionType
	Data    interface{}
	Inverse interface{}
}

type AddBoxData struct {
	Box Box
}

type DeleteBoxData struct {
	Box        Box
	Connectors []Connector
}

type MoveBoxData struct {
	ID     int
	DeltaX int
	DeltaY int
}

type ConnectorData struct {
	Connector Connector
}

type RouterData struct {
	ID   scene.ConnectorID
	Kind scene.RouterKind
}
