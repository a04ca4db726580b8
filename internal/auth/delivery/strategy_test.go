package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testCookie() *Cookie {
	return &Cookie{
		Secure:      true,
		RefreshPath: "/auth/token/refresh",
		AccessTTL:   10 * time.Minute,
		RefreshTTL:  720 * time.Hour,
	}
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestCookieDeliverAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	testCookie().Deliver(rec, "acc-token", "ref-token")

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("want 2 cookies, got %d", len(cookies))
	}

	access := cookieByName(t, cookies, AccessCookieName)
	if access.Value != "acc-token" || access.Path != "/" || access.MaxAge != 600 {
		t.Errorf("access cookie: %+v", access)
	}
	if !access.HttpOnly || !access.Secure || access.SameSite != http.SameSiteStrictMode {
		t.Errorf("access cookie flags: %+v", access)
	}

	refresh := cookieByName(t, cookies, RefreshCookieName)
	if refresh.Value != "ref-token" || refresh.Path != "/auth/token/refresh" || refresh.MaxAge != 2592000 {
		t.Errorf("refresh cookie: %+v", refresh)
	}
	if !refresh.HttpOnly || !refresh.Secure || refresh.SameSite != http.SameSiteStrictMode {
		t.Errorf("refresh cookie flags: %+v", refresh)
	}
}

func TestCookieClearMirrorsDeliver(t *testing.T) {
	rec := httptest.NewRecorder()
	testCookie().Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("want 2 cookies, got %d", len(cookies))
	}

	access := cookieByName(t, cookies, AccessCookieName)
	if access.Value != "" || access.Path != "/" || access.MaxAge != -1 {
		t.Errorf("access cookie not expired: %+v", access)
	}
	refresh := cookieByName(t, cookies, RefreshCookieName)
	// Path обязан совпадать с Deliver, иначе браузер не затрёт куку
	if refresh.Value != "" || refresh.Path != "/auth/token/refresh" || refresh.MaxAge != -1 {
		t.Errorf("refresh cookie not expired: %+v", refresh)
	}
}

func TestCookieExtract(t *testing.T) {
	c := testCookie()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := c.Extract(r); got != "" {
		t.Fatalf("no cookie: got %q", got)
	}

	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "acc-token"})
	if got := c.Extract(r); got != "acc-token" {
		t.Fatalf("extract: got %q", got)
	}
}

func TestHeaderExtract(t *testing.T) {
	h := Header{}

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"no header", "", ""},
		{"bearer", "Bearer acc-token", "acc-token"},
		{"lowercase scheme", "bearer acc-token", "acc-token"},
		{"wrong scheme", "Basic acc-token", ""},
		{"bare token", "acc-token", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.value != "" {
				r.Header.Set("Authorization", tc.value)
			}
			if got := h.Extract(r); got != tc.want {
				t.Errorf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	cookie := testCookie()
	header := Header{}

	if got := Select(true, cookie, header); got != header {
		t.Error("mobile must select header strategy")
	}
	if got := Select(false, cookie, header); got != cookie {
		t.Error("browser must select cookie strategy")
	}
}

func TestIsMobileRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	if IsMobileRequest(r) {
		t.Error("no Authorization header: not mobile")
	}
	r.Header.Set("Authorization", "Bearer acc-token")
	if !IsMobileRequest(r) {
		t.Error("Authorization header present: mobile")
	}
}
