package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eoauman/sylman/internal/syllabus"
)

// ErrStaleID marks an update rejected because the server no longer knows the
// id, typically after a concurrent delete. The engine clears its cached id on
// this error so the next save creates a fresh document.
var ErrStaleID = errors.New("syllabus id is no longer known to the server")

// Gateway is the HTTP client side of the syllabus REST contract. All document
// traffic between the engine and the server goes through it; the engine never
// builds requests itself.
type Gateway struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken attaches a bearer token to subsequent requests. Only the admin
// listing requires one.
func (g *Gateway) SetToken(token string) { g.token = token }

type saveEnvelope struct {
	UserID       string             `json:"userId,omitempty"`
	SyllabusData *syllabus.Document `json:"syllabusData"`
	Autosave     bool               `json:"autosave"`
	LastEdited   string             `json:"lastEdited,omitempty"`
}

// Create stores a draft and returns the assigned id.
func (g *Gateway) Create(ctx context.Context, userID string, doc *syllabus.Document, autosave bool) (string, error) {
	body := saveEnvelope{UserID: userID, SyllabusData: doc, Autosave: autosave, LastEdited: doc.LastEdited}
	var out struct {
		SyllabusID string `json:"syllabusId"`
	}
	if err := g.do(ctx, http.MethodPost, "/syllabus", body, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.SyllabusID, nil
}

// Update replaces the stored document for id. A 404 comes back as ErrStaleID.
func (g *Gateway) Update(ctx context.Context, id string, doc *syllabus.Document, autosave bool) error {
	body := saveEnvelope{SyllabusData: doc, Autosave: autosave, LastEdited: doc.LastEdited}
	err := g.do(ctx, http.MethodPut, "/syllabus/update/"+id, body, http.StatusOK, nil)
	var serr *statusError
	if errors.As(err, &serr) && serr.code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrStaleID, id)
	}
	return err
}

// UpdateProgram applies the narrow program-only partial update.
func (g *Gateway) UpdateProgram(ctx context.Context, id, program string) error {
	body := map[string]string{"programSelect": program}
	err := g.do(ctx, http.MethodPut, "/syllabus/update/"+id, body, http.StatusOK, nil)
	var serr *statusError
	if errors.As(err, &serr) && serr.code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrStaleID, id)
	}
	return err
}

// FetchByID loads one document payload (the editor's startup fetch).
func (g *Gateway) FetchByID(ctx context.Context, id string) (*syllabus.Document, error) {
	var out struct {
		SyllabusData *syllabus.Document `json:"syllabusData"`
	}
	if err := g.do(ctx, http.MethodGet, "/syllabus/view/"+id+"?format=json", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	if out.SyllabusData == nil {
		return nil, fmt.Errorf("empty syllabusData for %s", id)
	}
	out.SyllabusData.Normalize()
	return out.SyllabusData, nil
}

// FetchAllForUser lists a user's syllabi.
func (g *Gateway) FetchAllForUser(ctx context.Context, userID string) ([]syllabus.Record, error) {
	var out []syllabus.Record
	if err := g.do(ctx, http.MethodGet, "/syllabus/"+userID, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAll lists every syllabus (admin only; requires a token).
func (g *Gateway) FetchAll(ctx context.Context) ([]syllabus.Record, error) {
	var out []syllabus.Record
	if err := g.do(ctx, http.MethodGet, "/syllabus/", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a document.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodDelete, "/syllabus/"+id, nil, http.StatusNoContent, nil)
}

// Copy clones a document server-side and returns the clone's id.
func (g *Gateway) Copy(ctx context.Context, id string) (string, error) {
	var out struct {
		NewID string `json:"newId"`
	}
	body := map[string]string{"syllabusId": id}
	if err := g.do(ctx, http.MethodPost, "/syllabus/copy", body, http.StatusOK, &out); err != nil {
		return "", err
	}
	return out.NewID, nil
}

// Credentials is the identity payload signup and login answer with.
type Credentials struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	SessionToken string `json:"sessionToken"`
}

// Signup registers a user.
func (g *Gateway) Signup(ctx context.Context, username, email, password string) (*Credentials, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var out Credentials
	if err := g.do(ctx, http.MethodPost, "/signup", body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns the user's id and role.
func (g *Gateway) Login(ctx context.Context, username, password string) (*Credentials, error) {
	body := map[string]string{"username": username, "password": password}
	var out Credentials
	if err := g.do(ctx, http.MethodPost, "/login", body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout deletes the server-side login session issued at login.
func (g *Gateway) Logout(ctx context.Context, sessionToken string) error {
	body := map[string]string{"sessionToken": sessionToken}
	return g.do(ctx, http.MethodPost, "/logout", body, http.StatusOK, nil)
}

// FindUser checks whether a username exists (password-reset flow, step one).
func (g *Gateway) FindUser(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return g.do(ctx, http.MethodPost, "/user/finduser", body, http.StatusOK, nil)
}

// ResetPassword replaces a user's password (password-reset flow, step two).
func (g *Gateway) ResetPassword(ctx context.Context, username, newPassword string) error {
	body := map[string]string{"username": username, "newPassword": newPassword}
	return g.do(ctx, http.MethodPost, "/user/resetpwd", body, http.StatusOK, nil)
}

// statusError carries the HTTP status and the server's error message.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.code, e.message)
}

func (g *Gateway) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return &statusError{code: resp.StatusCode, message: serverMessage(resp)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// serverMessage extracts the handler's {"error": ...} field, falling back to
// the status text.
func serverMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(resp.StatusCode)
}
