package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/mcoot/rpsarena/internal/api/response"
)

// Side length of the invite QR code in pixels
const inviteQRSize = 320

// InviteHandler serves a QR code that points phones at the arena
type InviteHandler struct {
	publicURL string
}

// NewInviteHandler creates a new invite handler.
// An empty publicURL falls back to the request's host.
func NewInviteHandler(publicURL string) *InviteHandler {
	return &InviteHandler{
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// QRCode handles GET /api/v1/invite.png
func (h *InviteHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.InviteURL(r), qrcode.Medium, inviteQRSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.PNG(w, png)
}

// InviteURL returns the WebSocket URL a new participant should connect to
func (h *InviteHandler) InviteURL(r *http.Request) string {
	base := h.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}

	u, err := url.Parse(base)
	if err != nil {
		return base + "/ws"
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}
