package main

import (
	"log"

	"bendterm/bend"
)

func (m *model) undo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.undoStack) == 0 {
		return
	}

	lastIndex := len(buf.undoStack) - 1
	action := buf.undoStack[lastIndex]
	buf.undoStack = buf.undoStack[:lastIndex]
	canvas := m.getCanvas()

	switch action.Type {
	case ActionAddBox:
		data := action.Data.(AddBoxData)
		canvas.DeleteBox(data.Box.ID)
	case ActionDeleteBox:
		data := action.Data.(DeleteBoxData)
		canvas.RestoreBox(data.Box)
		for _, conn := range data.Connectors {
			canvas.RestoreConnector(conn)
		}
	case ActionMoveBox:
		data := action.Inverse.(MoveBoxData)
		canvas.MoveBox(data.ID, data.DeltaX, data.DeltaY)
	case ActionAddConnector:
		data := action.Data.(ConnectorData)
		canvas.RemoveConnector(data.Connector.ID)
	case ActionDeleteConnector:
		data := action.Data.(ConnectorData)
		canvas.RestoreConnector(data.Connector)
	case ActionBend:
		if err := action.Data.(bend.Operation).Undo(); err != nil {
			m.errorMessage = err.Error()
			log.Printf("undo: %v", err)
		}
	case ActionRouter:
		data := action.Inverse.(RouterData)
		canvas.SetRouter(data.ID, data.Kind)
	}

	buf.redoStack = append(buf.redoStack, action)
}

func (m *model) redo() {
	buf := m.getCurrentBuffer()
	if buf == nil || len(buf.redoStack) == 0 {
		return
	}

	lastIndex := len(buf.redoStack) - 1
	action := buf.redoStack[lastIndex]
	buf.redoStack = buf.redoStack[:lastIndex]
	canvas := m.getCanvas()

	switch action.Type {
	case ActionAddBox:
		data := action.Data.(AddBoxData)
		canvas.RestoreBox(data.Box)
	case ActionDeleteBox:
		data := action.Data.(DeleteBoxData)
		canvas.DeleteBox(data.Box.ID)
	case ActionMoveBox:
		data := action.Data.(MoveBoxData)
		canvas.MoveBox(data.ID, data.DeltaX, data.DeltaY)
	case ActionAddConnector:
		data := action.Data.(ConnectorData)
		canvas.RestoreConnector(data.Connector)
	case ActionDeleteConnector:
		data := action.Data.(ConnectorData)
		canvas.RemoveConnector(data.Connector.ID)
	case ActionBend:
		if err := action.Data.(bend.Operation).Execute(); err != nil {
			m.errorMessage = err.Error()
			log.Printf("redo: %v", err)
		}
	case ActionRouter:
		data := action.Data.(RouterData)
		canvas.SetRouter(data.ID, data.Kind)
	}

	buf.undoStack = append(buf.undoStack, action)
}
