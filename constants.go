package main

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeLabel
	ModeMoveBox
	ModeBend
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmDeleteBox ConfirmAction = iota
	ConfirmDeleteConnector
	ConfirmQuit
	ConfirmNewChart
	ConfirmOverwriteFile
)

type ActionType int

const (
	ActionAddBox ActionType = iota
	ActionDeleteBox
	ActionMoveBox
	ActionAddConnector
	ActionDeleteConnector
	ActionBend
	ActionRouter
)

const (
	minBoxWidth  = 8
	minBoxHeight = 3

	// pickTolerance is the distance in cells within which the cursor hits a
	// bend point or a connector segment.
	pickTolerance = 0.5
)
