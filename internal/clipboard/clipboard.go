// Package clipboard copies words and lyric lines to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Write copies text to the system clipboard.
func Write(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility found")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Available reports whether a clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}
