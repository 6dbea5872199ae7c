package method

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// TakeScreenshot captures the viewport as PNG and writes it to filename.
// Capture failures are returned; failures writing the file are only logged.
func (m *Method) TakeScreenshot(filename string) error {
	log.Infof("Taking screenshot: %s", filename)
	var buf []byte
	if err := m.runLookup(chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("error capturing screenshot: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Errorf("Error creating screenshot directory %s: %v", dir, err)
			return nil
		}
	}
	if err := os.WriteFile(filename, buf, 0644); err != nil {
		log.Errorf("Error writing screenshot to file %s: %v", filename, err)
	}
	return nil
}
