package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	modeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("213"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle    = lipgloss.NewStyle().Bold(true)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	width, height := m.width, m.canvasHeight()
	if width < 1 {
		width = 80
	}
	if height < 1 {
		height = 1
	}

	var b strings.Builder
	if len(m.buffers) > 1 {
		b.WriteString(m.renderBufferBar(width))
		b.WriteString("\n")
	}

	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		b.WriteString(m.fileListView(width, height))
	} else {
		lines := m.renderCanvas(width, height)
		b.WriteString(strings.Join(lines, "\n"))
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m *model) renderCanvas(width, height int) []string {
	canvas := m.getCanvas()
	if canvas == nil {
		return nil
	}
	opts := renderOptions{selectedBox: m.selectedBox}
	if m.connectionFrom != -1 {
		opts.selectedBox = m.connectionFrom
	}
	if g := m.gesture; g != nil {
		opts.editing = g.connID
		opts.selection = g.editor.Selection()
	}
	lines := canvas.Render(width, height, opts)

	if m.mode == ModeStartup || m.cursorY < 0 || m.cursorY >= len(lines) {
		return lines
	}
	row := []rune(lines[m.cursorY])
	if m.cursorX >= 0 && m.cursorX < len(row) {
		lines[m.cursorY] = string(row[:m.cursorX]) +
			cursorStyle.Render(string(row[m.cursorX])) +
			string(row[m.cursorX+1:])
	}
	return lines
}

func (m *model) renderBufferBar(width int) string {
	names := make([]string, len(m.buffers))
	for i, buf := range m.buffers {
		name := fmt.Sprintf("Buffer %d", i+1)
		if buf.filename != "" {
			name = strings.TrimSuffix(buf.filename, ".txt")
		}
		if i == m.currentBufferIndex {
			name = barStyle.Render("[" + name + "]")
		}
		names[i] = name
	}
	bar := "Open Charts: " + strings.Join(names, " | ")
	return lipgloss.NewStyle().MaxWidth(width).Render(bar)
}

func (m *model) fileListView(width, height int) string {
	var b strings.Builder
	b.WriteString("Select a saved chart:\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")

	rows := height - 3
	if rows < 1 {
		rows = 1
	}
	if len(m.fileList) == 0 {
		b.WriteString(dimStyle.Render("(No .txt files found in current directory)"))
		b.WriteString("\n")
		rows--
	}
	start := 0
	if m.selectedFileIndex >= rows {
		start = m.selectedFileIndex - rows + 1
	}
	for i := start; i < len(m.fileList) && i < start+rows; i++ {
		name := strings.TrimSuffix(m.fileList[i], ".txt")
		if i == m.selectedFileIndex {
			b.WriteString("> " + cursorStyle.Render(name) + "\n")
		} else {
			b.WriteString("  " + name + "\n")
		}
	}
	b.WriteString(strings.Repeat("─", width))
	return b.String()
}

func (m *model) modeString() string {
	switch m.mode {
	case ModeStartup:
		return "START"
	case ModeLabel:
		return "LABEL"
	case ModeMoveBox:
		return "MOVE"
	case ModeBend:
		return "BEND"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	}
	if m.zPanMode {
		return "PAN"
	}
	return "NORMAL"
}

func (m *model) statusLine() string {
	badge := modeStyle.Render(" " + m.modeString() + " ")

	var text string
	switch m.mode {
	case ModeStartup:
		text = "Press 'n' for a new chart, 'o' to open one, or 'q' to quit"
	case ModeLabel:
		text = "Label: " + strings.ReplaceAll(m.labelText, "\n", "⏎") + "█ | Enter=create, Ctrl+J=newline, Esc=cancel"
	case ModeMoveBox:
		text = fmt.Sprintf("Box %d | hjkl=move, Enter=finish, Esc=cancel", m.selectedBox)
	case ModeBend:
		text = "hjkl or mouse=drag, Enter=commit, Esc=cancel"
		if g := m.gesture; g != nil {
			text = fmt.Sprintf("Connector %d, points %v | %s", g.connID, g.editor.Selection(), text)
		}
	case ModeFileInput:
		text = m.filePrompt() + m.filename + "█"
	case ModeConfirm:
		text = m.confirmPrompt()
	default:
		wx, wy := m.worldCoords()
		text = fmt.Sprintf("(%d,%d) | ?=help", wx, wy)
	}

	switch {
	case m.errorMessage != "":
		text += " | " + errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		text += " | " + okStyle.Render(m.successMessage)
	}
	return badge + " " + text
}

func (m *model) filePrompt() string {
	switch m.fileOp {
	case FileOpSave:
		return "Save as: "
	case FileOpSavePNG:
		return "Export PNG as: "
	case FileOpSaveVisualTXT:
		return "Export text as: "
	}
	return "Open: "
}

func (m *model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmDeleteBox:
		return fmt.Sprintf("Delete box %d and its connectors? (y/n)", m.confirmBoxID)
	case ConfirmDeleteConnector:
		return fmt.Sprintf("Delete connector %d? (y/n)", m.confirmConnID)
	case ConfirmQuit:
		return "Quit bendterm? (y/n)"
	case ConfirmNewChart:
		return "Discard this chart and start a new one? (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("%s exists. Overwrite? (y/n)", m.filename)
	}
	return "(y/n)"
}

var helpLines = []string{
	"bendterm keys",
	"",
	"Moving around",
	"  h j k l / arrows   move cursor (shift moves faster)",
	"  z                  toggle pan mode",
	"  { }                previous / next chart",
	"",
	"Charts",
	"  b                  new box at cursor",
	"  a                  connect box under cursor (press on source, then target)",
	"  m                  move box",
	"  d                  delete box or connector",
	"  u / U              undo / redo",
	"",
	"Bend points",
	"  g                  grab bend point, elbow or segment under cursor",
	"  i                  insert a bend point on the segment under cursor",
	"  mouse drag         grab and drag with the left button",
	"  Enter / Esc        commit / cancel a drag",
	"  x                  make all routed points explicit",
	"  X                  normalize: drop redundant bend points",
	"  r                  toggle straight / orthogonal routing",
	"  y / p              copy / paste bend points",
	"",
	"Files",
	"  s                  save",
	"  S                  export PNG",
	"  T                  export as text",
	"  o / O              open / open in new chart",
	"  n / N              new chart / new chart in new buffer",
	"",
	"  q                  quit",
}

func (m model) helpView() string {
	height := m.height - 1
	if height < 1 {
		height = len(helpLines)
	}
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	end := start + height
	if end > len(helpLines) {
		end = len(helpLines)
	}
	return strings.Join(helpLines[start:end], "\n") + "\n" +
		dimStyle.Render("j/k scroll, any other key closes")
}
