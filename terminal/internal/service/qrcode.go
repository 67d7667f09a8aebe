package service

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// TableQRGenerator encodes the self-service link printed on a table card.
type TableQRGenerator struct {
	BaseURL string
}

func (g TableQRGenerator) Generate(tableID string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/mesa.html?mesaId=%s", g.BaseURL, url.QueryEscape(tableID))
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
