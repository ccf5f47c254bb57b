// Package qrcode строит ссылки t.me на бота с выбранной группой и QR-коды для них.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"regexp"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DefaultSize сторона QR-кода в пикселях
const DefaultSize = 256

var (
	ErrNoBotName      = errors.New("bot name is not configured")
	ErrInvalidPayload = errors.New("group id cannot be used as start payload")
)

// Telegram допускает в start-параметре до 64 символов A-Z, a-z, 0-9, _ и -
var payloadRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// DeepLink ссылка, открывающая бота с командой /start <groupID>
func DeepLink(botName, groupID string) (string, error) {
	if botName == "" {
		return "", ErrNoBotName
	}
	if !payloadRegex.MatchString(groupID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPayload, groupID)
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", botName, groupID), nil
}

// GenerateQRCode генерирует QR-код в виде PNG-изображения
func GenerateQRCode(content string, size int) ([]byte, error) {
	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	qrCode, err = barcode.Scale(qrCode, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// GroupQRCode QR-код ссылки на бота для группы
func GroupQRCode(botName, groupID string) ([]byte, error) {
	link, err := DeepLink(botName, groupID)
	if err != nil {
		return nil, err
	}
	return GenerateQRCode(link, DefaultSize)
}
