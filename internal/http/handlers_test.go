package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const jsonCT = "application/json"
const formCT = "application/x-www-form-urlencoded"

func Test_Register_Verify_Login_Me(t *testing.T) {
	env := newTestEnv(t)

	// 1) REGISTER
	w := env.do("POST", "/auth/register", jsonCT,
		`{"email":"a@x.com","password":"password1","full_name":"A"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register code=%d body=%s", w.Code, w.Body.String())
	}

	// 2) VERIFY with a wrong code first
	otp := env.Mailer.lastOTP(t)
	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}
	w = env.do("POST", "/auth/verify-email", jsonCT,
		`{"email":"a@x.com","otp":"`+wrong+`"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("verify wrong otp code=%d body=%s", w.Code, w.Body.String())
	}

	// 3) VERIFY with the mailed code
	w = env.do("POST", "/auth/verify-email", jsonCT,
		`{"email":"a@x.com","otp":"`+otp+`"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify code=%d body=%s", w.Code, w.Body.String())
	}

	// 4) LOGIN (form-encoded)
	w = env.do("POST", "/auth/login", formCT, "username=a@x.com&password=password1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	var lr struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil || lr.AccessToken == "" {
		t.Fatalf("login resp parse: %v; body=%s", err, w.Body.String())
	}
	if lr.TokenType != "bearer" {
		t.Fatalf("token_type=%q", lr.TokenType)
	}

	// 5) ME
	w = env.do("GET", "/auth/me", "", "", map[string]string{"Authorization": "Bearer " + lr.AccessToken})
	if w.Code != http.StatusOK {
		t.Fatalf("me code=%d body=%s", w.Code, w.Body.String())
	}
	var profile map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &profile)
	if profile["email"] != "a@x.com" {
		t.Fatalf("me profile=%s", w.Body.String())
	}
	if _, leaked := profile["hashed_password"]; leaked {
		t.Fatalf("profile leaks password hash: %s", w.Body.String())
	}
}

func Test_Register_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/auth/register", jsonCT, `{"email":"a@x.com","password":"password1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	// second attempt, different password, account still unverified
	w = env.do("POST", "/auth/register", jsonCT, `{"email":"a@x.com","password":"password2"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate expected 400, got %d %s", w.Code, w.Body.String())
	}
}

func Test_Register_Invalid(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"email":"not-an-email","password":"password1"}`,
		`{"email":"a@x.com","password":"short"}`,
		`not json`,
	} {
		w := env.do("POST", "/auth/register", jsonCT, body, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q expected 400, got %d", body, w.Code)
		}
	}
}

func Test_Login_Failures(t *testing.T) {
	env := newTestEnv(t)

	_ = env.do("POST", "/auth/register", jsonCT, `{"email":"a@x.com","password":"password1"}`, nil)

	// unverified login is refused
	w := env.do("POST", "/auth/login", formCT, "username=a@x.com&password=password1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unverified login expected 400, got %d %s", w.Code, w.Body.String())
	}

	otp := env.Mailer.lastOTP(t)
	_ = env.do("POST", "/auth/verify-email", jsonCT, `{"email":"a@x.com","otp":"`+otp+`"}`, nil)

	// wrong password and unknown email answer identically
	w1 := env.do("POST", "/auth/login", formCT, "username=a@x.com&password=wrong-password", nil)
	w2 := env.do("POST", "/auth/login", formCT, "username=ghost@x.com&password=password1", nil)
	if w1.Code != http.StatusUnauthorized || w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", w1.Code, w2.Code)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %s vs %s", w1.Body.String(), w2.Body.String())
	}
}

func Test_Forgot_Reset_Password(t *testing.T) {
	env := newTestEnv(t)

	_ = env.do("POST", "/auth/register", jsonCT, `{"email":"a@x.com","password":"password1"}`, nil)
	_ = env.do("POST", "/auth/verify-email", jsonCT, `{"email":"a@x.com","otp":"`+env.Mailer.lastOTP(t)+`"}`, nil)

	// unknown account → 404
	w := env.do("POST", "/auth/forgot-password", jsonCT, `{"email":"ghost@x.com"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("forgot unknown expected 404, got %d %s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/auth/forgot-password", jsonCT, `{"email":"a@x.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("forgot: %d %s", w.Code, w.Body.String())
	}
	otp := env.Mailer.lastOTP(t)

	w = env.do("POST", "/auth/reset-password", jsonCT,
		`{"email":"a@x.com","otp":"`+otp+`","new_password":"newpassword1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", w.Code, w.Body.String())
	}

	// old password refused, new one accepted
	w = env.do("POST", "/auth/login", formCT, "username=a@x.com&password=password1", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password expected 401, got %d", w.Code)
	}
	w = env.do("POST", "/auth/login", formCT, "username=a@x.com&password=newpassword1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new password login: %d %s", w.Code, w.Body.String())
	}
}

func Test_Me_TokenFailures(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/auth/me", "", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token expected 401, got %d", w.Code)
	}
	w = env.do("GET", "/auth/me", "", "", map[string]string{"Authorization": "Bearer garbage"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token expected 401, got %d", w.Code)
	}
}

func Test_Google_Unconfigured(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/auth/google", "", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func Test_RegisterEvent_OutlivesRequest(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("POST", "/auth/register",
		strings.NewReader(`{"email":"a@x.com","password":"password1"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", jsonCT)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	// the server cancels a request context as soon as the response is written
	cancel()

	select {
	case ev := <-env.Events.published:
		if ev.key != "account.registered" {
			t.Fatalf("event key=%q", ev.key)
		}
		if err := ev.ctx.Err(); err != nil {
			t.Fatalf("publish context did not outlive the request: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}

func Test_Healthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/healthz", "", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: %d %s", w.Code, w.Body.String())
	}
}
