package editor

import "github.com/atotto/clipboard"

// This file bridges the selection/paste model to the system clipboard,
// using the smart-merge import spec.md §6 describes: before a paste, if
// the external clipboard content differs from what this process last
// wrote, treat that external content as the new clipboard rather than
// whatever was last copied internally.

// Copy writes the current selection to the system clipboard and records
// it as the last-synced content.
func (e *Editor) Copy() error {
	text := e.GetSelectedText()
	if text == "" {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		return err
	}
	e.lastClipboardSync = text
	return nil
}

// Paste imports the system clipboard (smart-merging external changes)
// and splices it in at the cursor via PasteText.
func (e *Editor) Paste() error {
	text, err := clipboard.ReadAll()
	if err != nil {
		return err
	}
	e.lastClipboardSync = text
	e.PasteText(text)
	return nil
}
