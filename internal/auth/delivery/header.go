package delivery

import (
	"net/http"
	"strings"
)

// Header — доставка через Authorization: Bearer для мобильных клиентов.
// Сервер токены обратно не проталкивает: клиент хранит и сбрасывает их сам,
// поэтому Deliver/Clear — no-op.
type Header struct{}

var _ Strategy = (*Header)(nil)

func (Header) Extract(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (Header) Deliver(http.ResponseWriter, string, string) {}

func (Header) Clear(http.ResponseWriter) {}
