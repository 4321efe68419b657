package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"recipehub/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)

	resp, err := app.Test(postJSON(t, "/signup", map[string]any{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "sup3rsecret",
	}, ""))
	if err != nil {
		t.Fatalf("app.Test signup: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}

	var signupData struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &signupData); err != nil {
		t.Fatalf("decode signup body: %v", err)
	}
	if signupData.Token == "" {
		t.Fatal("expected signup to return a token")
	}

	// Stored password must be a bcrypt hash, not the plaintext.
	var stored models.User
	if err := db.Where("username = ?", "carol").First(&stored).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("sup3rsecret")); err != nil {
		t.Fatalf("stored password does not verify: %v", err)
	}

	loginResp, err := app.Test(postJSON(t, "/login", map[string]any{
		"username": "carol",
		"password": "sup3rsecret",
	}, ""))
	if err != nil {
		t.Fatalf("app.Test login: %v", err)
	}
	defer func() { _ = loginResp.Body.Close() }()
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", loginResp.StatusCode)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	app := newTestApp(s)

	resp, err := app.Test(postJSON(t, "/signup", map[string]any{
		"username": "dave",
		"email":    "dave@example.com",
		"password": "short",
	}, ""))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)
	createTestUser(t, db, "erin")

	resp, err := app.Test(postJSON(t, "/signup", map[string]any{
		"username": "erin",
		"email":    "other@example.com",
		"password": "sup3rsecret",
	}, ""))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)
	createTestUser(t, db, "frank")

	resp, err := app.Test(postJSON(t, "/login", map[string]any{
		"username": "frank",
		"password": "not-the-password",
	}, ""))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	app := newTestApp(s)
	user := createTestUser(t, db, "grace")

	token := bearerToken(t, s, user)

	// Flip the tail of the signature.
	req := postJSON(t, "/logout", map[string]any{}, token[:len(token)-2]+"xx")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
