package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
	m.errorMessage = ""
	m.successMessage = ""
	m.fromStartup = false
}

func (m *model) leaveFileInput() {
	if m.fromStartup {
		m.mode = ModeStartup
		m.fromStartup = false
	} else {
		m.mode = ModeNormal
	}
	m.filename = ""
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.leaveFileInput()
		m.errorMessage = ""
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		m.selectFile(msg.Type == tea.KeyDown)
		return m, nil
	case tea.KeyEnter:
		m.runFileOperation()
		return m, nil
	case tea.KeyBackspace:
		if len(m.filename) > 0 {
			m.filename = m.filename[:len(m.filename)-1]
			m.selectedFileIndex = -1
		}
		return m, nil
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
		m.selectedFileIndex = -1
	}
	return m, nil
}

// selectFile steps through the file list while the user has not typed a
// name of their own.
func (m *model) selectFile(down bool) {
	if m.fileOp != FileOpOpen || len(m.fileList) == 0 {
		return
	}
	if m.filename != "" && (m.selectedFileIndex < 0 || m.filename != strings.TrimSuffix(m.fileList[m.selectedFileIndex], ".txt")) {
		return
	}
	n := len(m.fileList)
	switch {
	case m.selectedFileIndex < 0 && down:
		m.selectedFileIndex = 0
	case m.selectedFileIndex < 0:
		m.selectedFileIndex = n - 1
	case down:
		m.selectedFileIndex = (m.selectedFileIndex + 1) % n
	default:
		m.selectedFileIndex = (m.selectedFileIndex + n - 1) % n
	}
	m.filename = strings.TrimSuffix(m.fileList[m.selectedFileIndex], ".txt")
}

func withExtension(filename, ext string) string {
	if strings.HasSuffix(strings.ToLower(filename), ext) {
		return filename
	}
	return filename + ext
}

func (m *model) runFileOperation() {
	if strings.TrimSpace(m.filename) == "" {
		m.errorMessage = "Please enter a filename"
		return
	}

	switch m.fileOp {
	case FileOpSave:
		filename := m.config.GetSavePath(withExtension(m.filename, ".txt"))
		if _, err := os.Stat(filename); err == nil && m.config.Confirmations {
			if buf := m.getCurrentBuffer(); buf == nil || buf.filename != filename {
				m.mode = ModeConfirm
				m.confirmAction = ConfirmOverwriteFile
				m.filename = filename
				return
			}
		}
		if err := m.saveChart(filename); err != nil {
			return
		}
	case FileOpSavePNG:
		filename := m.config.GetSavePath(withExtension(m.filename, ".png"))
		if err := m.getCanvas().ExportToPNG(filename); err != nil {
			m.fileError("exporting PNG", filename, err)
			return
		}
		m.fileSuccess("Exported to", filename)
	case FileOpSaveVisualTXT:
		filename := m.config.GetSavePath(withExtension(m.filename, ".txt"))
		if err := m.exportVisualTXT(filename); err != nil {
			m.fileError("exporting text", filename, err)
			return
		}
		m.fileSuccess("Exported to", filename)
	case FileOpOpen:
		if err := m.openChart(withExtension(m.filename, ".txt")); err != nil {
			return
		}
	}
	m.mode = ModeNormal
	m.fromStartup = false
	m.filename = ""
}

func (m *model) saveChart(filename string) error {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return fmt.Errorf("no buffer")
	}
	if err := buf.canvas.SaveToFile(filename, buf.panX, buf.panY); err != nil {
		m.fileError("saving file", filename, err)
		return err
	}
	buf.filename = filename
	m.fileSuccess("Saved to", filename)
	return nil
}

func (m *model) openChart(filename string) error {
	canvas := NewCanvas()
	panX, panY, err := canvas.LoadFromFile(filename)
	if err != nil {
		m.fileError("opening file", filename, err)
		return err
	}
	switch {
	case m.fromStartup:
		m.currentBufferIndex = 0
		m.replaceBuffer(canvas, filename, panX, panY)
	case m.openInNewBuffer:
		m.addNewBuffer(canvas, filename, panX, panY)
		m.cursorX, m.cursorY = 0, 0
	default:
		m.replaceBuffer(canvas, filename, panX, panY)
	}
	m.openInNewBuffer = false
	log.Printf("opened %s", filename)
	return nil
}

func (m *model) fileError(what, filename string, err error) {
	log.Printf("%s %s: %v", what, filename, err)
	m.errorMessage = fmt.Sprintf("Error %s: %s", what, err)
	m.successMessage = ""
}

func (m *model) fileSuccess(what, filename string) {
	if abs, err := filepath.Abs(filename); err == nil {
		filename = abs
	}
	m.successMessage = fmt.Sprintf("%s %s", what, filename)
	m.errorMessage = ""
}
