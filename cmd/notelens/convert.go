package main

import (
	"fmt"
	"io"

	"github.com/patrickward/notelens"
	"github.com/patrickward/notelens/internal/clipboard"
	"github.com/patrickward/notelens/internal/convert"
)

// clipboardReadWriter is the clipboard as -convert uses it.
type clipboardReadWriter interface {
	notelens.Clipboard
	Read() (string, error)
}

// runConvert converts one HTML fragment to Markdown. With useClipboard the
// fragment is read from the system clipboard and the Markdown written back
// to it; otherwise stdin and stdout are used.
func runConvert(in io.Reader, out io.Writer, useClipboard bool) error {
	if useClipboard {
		return convertClipboard(clipboard.System{})
	}

	fragment, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	_, err = fmt.Fprintln(out, convert.Convert(string(fragment)))
	return err
}

func convertClipboard(cb clipboardReadWriter) error {
	fragment, err := cb.Read()
	if err != nil {
		return err
	}

	return cb.Write(notelens.CopyPayload{
		Plain: convert.Convert(fragment),
		HTML:  fragment,
	})
}
