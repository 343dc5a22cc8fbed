package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"/customer/":         "/customer/",
		"/admin/order/3":     "/admin/order/3",
		"https://evil.test/": "",
		"//evil.test":        "",
		"/\\evil.test":       "",
		"/ok\r\nSet-Cookie:": "",
		"relative/path":      "",
	}
	for in, want := range cases {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[string]int{
		"invalid_credentials":      http.StatusUnauthorized,
		"login_required":           http.StatusUnauthorized,
		"email_already_registered": http.StatusConflict,
		"order_not_found":          http.StatusNotFound,
		"cannot_demote_self":       http.StatusBadRequest,
		"something_new":            http.StatusBadRequest,
	}
	for code, want := range cases {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%q) = %d, want %d", code, got, want)
		}
	}

	if got := messageFor("something_new"); got != "something new" {
		t.Errorf("fallback message = %q", got)
	}
}

func TestFlexInt(t *testing.T) {
	var req struct {
		Guests flexInt `json:"guests"`
	}

	for raw, want := range map[string]int{
		`{"guests": 12}`:   12,
		`{"guests": "12"}`: 12,
		`{"guests": ""}`:   0,
		`{"guests": null}`: 0,
		`{"guests": 8.0}`:  8,
		`{}`:               0,
	} {
		req.Guests = 0
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if int(req.Guests) != want {
			t.Errorf("%s: guests = %d, want %d", raw, req.Guests, want)
		}
	}

	for _, raw := range []string{`{"guests": "many"}`, `{"guests": 2.5}`} {
		if err := json.Unmarshal([]byte(raw), &req); err == nil {
			t.Errorf("%s: expected error", raw)
		}
	}
}
