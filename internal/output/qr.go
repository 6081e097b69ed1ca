package output

import (
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
)

// RenderQR writes content as a QR code drawn with Unicode half blocks, two
// modules per character cell.
func RenderQR(w io.Writer, content string) error {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return fmt.Errorf("failed to encode QR code: %w", err)
	}
	_, err = io.WriteString(w, q.ToSmallString(false))
	return err
}
