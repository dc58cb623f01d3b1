package lib

import (
	"bytes"

	"github.com/yeqown/go-qrcode"
)

// RenderQrPNG encodes payload as a PNG QR code.
func RenderQrPNG(payload string) ([]byte, error) {
	qrc, err := qrcode.New(payload,
		qrcode.WithBuiltinImageEncoder(qrcode.PNG_FORMAT),
		qrcode.WithQRWidth(8),
	)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
