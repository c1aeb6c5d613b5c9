package tui

import "github.com/atotto/clipboard"

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the OS clipboard
type SystemClipboard struct{}

// WriteAll copies text to the OS clipboard
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
