package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func (m *model) exportVisualTXT(filename string) error {
	if m.surface.Store().Len() == 0 {
		return fmt.Errorf("nothing to export")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	// Use the current viewport so the file matches what is on screen.
	width := m.canvasWidth()
	if width < 1 {
		width = 80
	}
	height := m.canvasHeight()
	if height < 1 {
		height = 24
	}

	for _, line := range m.canvas.Render(width, height, nil).plain() {
		fmt.Fprintln(file, strings.TrimRight(line, " "))
	}
	return nil
}

func exportFilename(op FileOperation, now time.Time) string {
	ext := ".png"
	if op == FileOpSaveVisualTXT {
		ext = ".txt"
	}
	return "elemerge-" + now.Format("20060102-150405") + ext
}

// export writes the board and reports the outcome on the status line.
func (m *model) export(op FileOperation) {
	path := m.config.GetSavePath(exportFilename(op, time.Now()))

	var err error
	if op == FileOpSaveVisualTXT {
		err = m.exportVisualTXT(path)
	} else {
		err = m.canvas.ExportToPNG(path)
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		m.successMessage = ""
		return
	}
	m.errorMessage = ""
	m.successMessage = "Saved " + path
}
