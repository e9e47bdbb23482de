package app

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// JoinQRPNG renders a signed join token into a QR PNG for the game master's
// screen. size is the side length in pixels.
func JoinQRPNG(token string, size int) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(token, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode join QR: %w", err)
	}
	return png, nil
}
