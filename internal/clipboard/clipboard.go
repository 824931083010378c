// Package clipboard connects copy payloads to a clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/patrickward/notelens"
)

// ErrUnsupported is returned when the platform has no clipboard utility.
var ErrUnsupported = errors.New("clipboard: not supported on this system")

// System writes to the operating system clipboard. Only the plain slot is
// carried; the system clipboard utilities have no rich text flavor.
type System struct{}

// Write places the plain slot of p on the system clipboard.
func (System) Write(p notelens.CopyPayload) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(p.Plain); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Read returns the current clipboard text.
func (System) Read() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return text, nil
}

// Memory keeps the last written payload in memory. It is used by the HTTP
// host, which hands the payload back to the browser, and by tests.
type Memory struct {
	mu      sync.Mutex
	payload notelens.CopyPayload
	writes  int
}

func (m *Memory) Write(p notelens.CopyPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = p
	m.writes++
	return nil
}

// Last returns the most recently written payload and whether anything was
// written.
func (m *Memory) Last() (notelens.CopyPayload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payload, m.writes > 0
}

// Read returns the plain slot of the last payload.
func (m *Memory) Read() (string, error) {
	p, _ := m.Last()
	return p.Plain, nil
}
