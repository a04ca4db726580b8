package delivery

import (
	"net/http"
	"time"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// Cookie — доставка через httpOnly-куки для браузера.
// Refresh-кука ограничена путём эндпоинта ротации: за его пределами
// браузер её не отправляет, что сужает поверхность утечки.
type Cookie struct {
	// Secure-флаг кук (true в production)
	Secure bool
	// Путь эндпоинта ротации, например "/auth/token/refresh"
	RefreshPath string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

var _ Strategy = (*Cookie)(nil)

func (c *Cookie) Extract(r *http.Request) string {
	ck, err := r.Cookie(AccessCookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (c *Cookie) Deliver(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(c.AccessTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refreshToken,
		Path:     c.RefreshPath,
		MaxAge:   int(c.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear сбрасывает обе куки. Атрибуты обязаны зеркалить Deliver:
// при несовпадении Path/флагов браузер молча оставит куку жить.
func (c *Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     c.RefreshPath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
