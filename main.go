package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"bendterm/scene"

	tea "github.com/charmbracelet/bubbletea"
	"seehuhn.de/go/geom/vec"
)

func main() {
	config := loadConfig()
	if config.LogFile != "" {
		f, err := tea.LogToFile(config.LogFile, "bendterm")
		if err != nil {
			fmt.Fprintln(os.Stderr, "bendterm:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(
		initialModel(config),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "bendterm:", err)
		os.Exit(1)
	}
}

const welcomeText = "Welcome to bendterm!\n\n'n' New chart\n'o' Open existing chart\n'q' Quit"

func initialModel(config *Config) model {
	m := model{
		mode:           ModeNormal,
		selectedBox:    -1,
		connectionFrom: -1,
		config:         config,
	}
	canvas := NewCanvas()
	if config.StartMenu {
		canvas.AddBox(1, 1, welcomeText)
		m.mode = ModeStartup
	}
	m.addNewBuffer(canvas, "", 0, 0)
	return m
}

// canvasTop is the screen row where the canvas starts.
func (m *model) canvasTop() int {
	if len(m.buffers) > 1 {
		return 1
	}
	return 0
}

// canvasHeight is the number of rows available to the canvas, without the
// buffer bar and the status line.
func (m *model) canvasHeight() int {
	return m.height - 1 - m.canvasTop()
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	maxY := m.canvasHeight() - 1
	if maxY < 0 {
		maxY = 0
	}
	if m.height > 0 && m.cursorY > maxY {
		m.cursorY = maxY
	}
}

func (m *model) scanTxtFiles() {
	m.fileList = []string{}
	m.selectedFileIndex = -1

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("scan %s: %v", dir, err)
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)

	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = strings.TrimSuffix(m.fileList[0], ".txt")
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "j", "down":
				m.helpScroll++
			case "k", "up":
				if m.helpScroll > 0 {
					m.helpScroll--
				}
			default:
				m.help = false
				m.helpScroll = 0
			}
			return m, nil
		}

		switch m.mode {
		case ModeStartup:
			return m.handleStartupKey(msg)
		case ModeNormal:
			return m.handleNormalKey(msg)
		case ModeLabel:
			return m.handleLabelKey(msg)
		case ModeMoveBox:
			return m.handleMoveBoxKey(msg)
		case ModeBend:
			return m.handleBendKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		}
	}
	return m, nil
}

// handleMouse drags bend points with the left button. A press on empty
// space only moves the cursor.
func (m *model) handleMouse(msg tea.MouseMsg) {
	x, y := msg.X, msg.Y-m.canvasTop()
	p := vec.Vec2{X: float64(x), Y: float64(y)}

	switch msg.Type {
	case tea.MouseLeft:
		if m.mode != ModeNormal {
			return
		}
		m.cursorX, m.cursorY = x, y
		m.ensureCursorInBounds()
		if err := m.beginGesture(p, false, true); err != nil && !errors.Is(err, errNothingToEdit) {
			m.errorMessage = err.Error()
		}
	case tea.MouseMotion:
		if m.mode != ModeBend || m.gesture == nil || !m.gesture.mouse {
			return
		}
		m.cursorX, m.cursorY = x, y
		if err := m.dragGesture(p); err != nil {
			m.errorMessage = err.Error()
			m.cancelGesture()
		}
	case tea.MouseRelease:
		if m.mode != ModeBend || m.gesture == nil || !m.gesture.mouse {
			return
		}
		if err := m.commitGesture(); err != nil {
			m.errorMessage = err.Error()
		}
	}
}

func (m model) handleStartupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.buffers[0] = Buffer{canvas: NewCanvas()}
		m.currentBufferIndex = 0
		m.mode = ModeNormal
		m.cursorX, m.cursorY = 0, 0
		m.errorMessage = ""
	case "o":
		m.mode = ModeFileInput
		m.fileOp = FileOpOpen
		m.filename = ""
		m.errorMessage = ""
		m.fromStartup = true
		m.openInNewBuffer = false
		m.scanTxtFiles()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEscape {
		m.zPanMode = false
		m.connectionFrom = -1
		m.selectedBox = -1
		m.errorMessage = ""
		m.successMessage = ""
		return m, nil
	}

	key := msg.String()
	canvas := m.getCanvas()
	wx, wy := m.worldCoords()
	p := m.cursorScene()

	switch key {
	case "ctrl+c", "q":
		if !m.config.Confirmations {
			return m, tea.Quit
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
	case "?":
		m.help = true
	case "z":
		m.zPanMode = !m.zPanMode
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))

	case "n":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmNewChart
			return m, nil
		}
		m.replaceBuffer(NewCanvas(), "", 0, 0)
	case "N":
		m.addNewBuffer(NewCanvas(), "", 0, 0)
		m.cursorX, m.cursorY = 0, 0
	case "{":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex + len(m.buffers) - 1) % len(m.buffers)
		}
	case "}":
		if len(m.buffers) > 1 {
			m.currentBufferIndex = (m.currentBufferIndex + 1) % len(m.buffers)
		}

	case "b":
		m.mode = ModeLabel
		m.labelText = ""
	case "a":
		id := canvas.GetBoxAt(wx, wy)
		if id == -1 {
			m.errorMessage = "No box under cursor"
			return m, nil
		}
		if m.connectionFrom == -1 {
			m.connectionFrom = id
			m.successMessage = fmt.Sprintf("Connecting from box %d, press 'a' on the target box", id)
			return m, nil
		}
		conn, err := canvas.AddConnector(m.connectionFrom, id, m.config.Router)
		m.connectionFrom = -1
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.recordAction(ActionAddConnector, ConnectorData{Connector: conn}, nil)
		m.successMessage = ""
		m.errorMessage = ""
	case "m":
		id := canvas.GetBoxAt(wx, wy)
		if id == -1 {
			m.errorMessage = "No box under cursor"
			return m, nil
		}
		box := canvas.Box(id)
		m.selectedBox = id
		m.originalMoveX, m.originalMoveY = box.X, box.Y
		m.mode = ModeMoveBox
	case "d":
		m.deleteAt(wx, wy, p)

	case "g", "i":
		if err := m.beginGesture(p, key == "i", false); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.errorMessage = ""
	case "x":
		m.report(m.makeExplicitAt(p), "Bend points made explicit")
	case "X":
		m.report(m.normalizeAt(p), "Connector normalized")
	case "r":
		m.report(m.toggleRouterAt(p), "Router changed")
	case "y":
		m.report(m.copyBendPoints(p), "Bend points copied")
	case "p":
		m.report(m.pasteBendPoints(p), "Bend points pasted")

	case "u":
		m.undo()
	case "U", "ctrl+r":
		m.redo()

	case "s":
		m.startFileInput(FileOpSave)
		if buf := m.getCurrentBuffer(); buf != nil && buf.filename != "" {
			m.filename = strings.TrimSuffix(buf.filename, ".txt")
		}
	case "S":
		m.startFileInput(FileOpSavePNG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	case "o", "O":
		m.startFileInput(FileOpOpen)
		m.openInNewBuffer = key == "O"
		m.scanTxtFiles()
	}
	return m, nil
}

// report sets the status line from the outcome of a one-step edit.
func (m *model) report(err error, success string) {
	if err != nil {
		m.errorMessage = err.Error()
		m.successMessage = ""
		return
	}
	m.errorMessage = ""
	m.successMessage = success
}

// deleteAt removes the box at the world cell (wx, wy), or failing that the
// connector under the cursor.
func (m *model) deleteAt(wx, wy int, p vec.Vec2) {
	if id := m.getCanvas().GetBoxAt(wx, wy); id != -1 {
		m.confirmBoxID = id
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteBox
			return
		}
		m.deleteBox(id)
		return
	}
	view, _, err := m.connectorUnder(p)
	if err != nil {
		m.errorMessage = "Nothing to delete under cursor"
		return
	}
	m.confirmConnID = view.ID
	if m.config.Confirmations {
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDeleteConnector
		return
	}
	m.deleteConnector(view.ID)
}

func (m *model) deleteBox(id int) {
	data, ok := m.getCanvas().DeleteBox(id)
	if !ok {
		return
	}
	m.recordAction(ActionDeleteBox, data, nil)
	if m.connectionFrom == id {
		m.connectionFrom = -1
	}
}

func (m *model) deleteConnector(id scene.ConnectorID) {
	conn, ok := m.getCanvas().RemoveConnector(id)
	if !ok {
		return
	}
	m.recordAction(ActionDeleteConnector, ConnectorData{Connector: conn}, nil)
}

func (m model) handleLabelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.labelText = ""
	case tea.KeyEnter:
		if strings.TrimSpace(m.labelText) == "" {
			m.errorMessage = "Box label is empty"
			return m, nil
		}
		wx, wy := m.worldCoords()
		canvas := m.getCanvas()
		id := canvas.AddBox(wx, wy, m.labelText)
		m.recordAction(ActionAddBox, AddBoxData{Box: *canvas.Box(id)}, nil)
		m.mode = ModeNormal
		m.labelText = ""
		m.errorMessage = ""
	case tea.KeyBackspace:
		if runes := []rune(m.labelText); len(runes) > 0 {
			m.labelText = string(runes[:len(runes)-1])
		}
	case tea.KeyCtrlJ:
		m.labelText += "\n"
	case tea.KeySpace:
		m.labelText += " "
	case tea.KeyRunes:
		m.labelText += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleMoveBoxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	canvas := m.getCanvas()
	box := canvas.Box(m.selectedBox)
	if box == nil {
		m.mode = ModeNormal
		m.selectedBox = -1
		return m, nil
	}

	switch key := msg.String(); key {
	case "esc":
		canvas.MoveBox(box.ID, m.originalMoveX-box.X, m.originalMoveY-box.Y)
		m.mode = ModeNormal
		m.selectedBox = -1
	case "enter":
		dx, dy := box.X-m.originalMoveX, box.Y-m.originalMoveY
		if dx != 0 || dy != 0 {
			m.recordAction(ActionMoveBox,
				MoveBoxData{ID: box.ID, DeltaX: dx, DeltaY: dy},
				MoveBoxData{ID: box.ID, DeltaX: -dx, DeltaY: -dy})
		}
		m.mode = ModeNormal
		m.selectedBox = -1
	default:
		dx, dy := direction(key)
		speed := m.getMoveSpeed(key)
		canvas.MoveBox(box.ID, dx*speed, dy*speed)
	}
	return m, nil
}

func (m model) handleBendKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		m.cancelGesture()
	case "enter", "g", "i":
		if err := m.commitGesture(); err != nil {
			m.errorMessage = err.Error()
		}
	default:
		if dx, dy := direction(key); dx != 0 || dy != 0 {
			m.handleBendMove(key, m.getMoveSpeed(key))
		}
	}
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmDeleteBox:
			m.deleteBox(m.confirmBoxID)
			m.ensureCursorInBounds()
		case ConfirmDeleteConnector:
			m.deleteConnector(m.confirmConnID)
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmNewChart:
			m.replaceBuffer(NewCanvas(), "", 0, 0)
		case ConfirmOverwriteFile:
			if err := m.saveChart(m.filename); err != nil {
				m.mode = ModeFileInput
				return m, nil
			}
		}
		m.mode = ModeNormal
		m.filename = ""
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
			m.fileOp = FileOpSave
		} else {
			m.mode = ModeNormal
		}
	}
	return m, nil
}

// replaceBuffer swaps the canvas of the current buffer and clears its
// history.
func (m *model) replaceBuffer(canvas *Canvas, filename string, panX, panY int) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		m.addNewBuffer(canvas, filename, panX, panY)
		return
	}
	canvas.SetPan(panX, panY)
	*buf = Buffer{canvas: canvas, filename: filename, panX: panX, panY: panY}
	m.cursorX, m.cursorY = 0, 0
	m.connectionFrom = -1
	m.errorMessage = ""
	m.successMessage = ""
}
