package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/mkelsey/devportal/internal/model"
)

// errBackendFault marks conditions that disqualify the remote answer:
// network failure, a 5xx, or a response that doesn't match the
// expected envelope. The resilient wrapper converts it into a
// fallback, never into a caller-visible error.
var errBackendFault = errors.New("backend fault")

// remote issues the real HTTP calls against the identity service
type remote struct {
	baseURL    string
	httpClient *http.Client
}

func newRemote(baseURL string, timeout time.Duration) *remote {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &remote{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type authPayload struct {
	User  *model.Identity `json:"user"`
	Token string          `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role,omitempty"`
}

func (r *remote) login(ctx context.Context, email, password string) (AuthResult, error) {
	var payload authPayload
	rejection, err := r.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &payload)
	if err != nil {
		return AuthResult{}, err
	}
	if rejection != "" {
		return AuthResult{Success: false, Message: rejection, Source: SourceRemote}, nil
	}
	if payload.User == nil || payload.Token == "" {
		return AuthResult{}, fmt.Errorf("%w: login payload missing user or token", errBackendFault)
	}
	return AuthResult{Success: true, Identity: payload.User, Token: payload.Token, Source: SourceRemote}, nil
}

func (r *remote) register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	var payload authPayload
	req := registerRequest{
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
		Role:     params.Role,
	}
	rejection, err := r.do(ctx, http.MethodPost, "/auth/register", "", req, &payload)
	if err != nil {
		return AuthResult{}, err
	}
	if rejection != "" {
		return AuthResult{Success: false, Message: rejection, Source: SourceRemote}, nil
	}
	if payload.User == nil || payload.Token == "" {
		return AuthResult{}, fmt.Errorf("%w: register payload missing user or token", errBackendFault)
	}
	return AuthResult{Success: true, Identity: payload.User, Token: payload.Token, Source: SourceRemote}, nil
}

func (r *remote) logout(ctx context.Context, token string) (Result, error) {
	rejection, err := r.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
	if err != nil {
		return Result{}, err
	}
	if rejection != "" {
		return Result{Success: false, Message: rejection, Source: SourceRemote}, nil
	}
	return Result{Success: true, Source: SourceRemote}, nil
}

func (r *remote) fetchProfile(ctx context.Context, token string) (ProfileResult, error) {
	var identity model.Identity
	rejection, err := r.do(ctx, http.MethodGet, "/auth/me", token, nil, &identity)
	if err != nil {
		return ProfileResult{}, err
	}
	if rejection != "" {
		return ProfileResult{Success: false, Message: rejection, Source: SourceRemote}, nil
	}
	if identity.ID == "" {
		return ProfileResult{}, fmt.Errorf("%w: profile payload missing identity", errBackendFault)
	}
	return ProfileResult{Success: true, Identity: &identity, Source: SourceRemote}, nil
}

func (r *remote) updateProfile(ctx context.Context, token string, update model.ProfileUpdate) (ProfileResult, error) {
	var identity model.Identity
	rejection, err := r.do(ctx, http.MethodPut, "/auth/profile", token, update, &identity)
	if err != nil {
		return ProfileResult{}, err
	}
	if rejection != "" {
		return ProfileResult{Success: false, Message: rejection, Source: SourceRemote}, nil
	}
	if identity.ID == "" {
		return ProfileResult{}, fmt.Errorf("%w: profile payload missing identity", errBackendFault)
	}
	return ProfileResult{Success: true, Identity: &identity, Source: SourceRemote}, nil
}

// do performs one request and validates the response envelope.
//
// On a 2xx it decodes {"data": ...} into result and returns ("", nil).
// On a 4xx carrying a well-formed {"message": ...} envelope it returns
// the rejection message: that's a legitimate answer from the backend,
// not a fault. Anything else wraps errBackendFault.
func (r *remote) do(ctx context.Context, method, path, token string, body, result any) (rejection string, err error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("%w: marshal request: %v", errBackendFault, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, bodyReader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBackendFault, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBackendFault, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", errBackendFault, err)
	}

	if !jsonContentType(resp.Header.Get("Content-Type")) && len(respBody) > 0 {
		return "", fmt.Errorf("%w: unexpected content type %q", errBackendFault, resp.Header.Get("Content-Type"))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if result == nil {
			return "", nil
		}
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(respBody, &envelope); err != nil || envelope.Data == nil {
			return "", fmt.Errorf("%w: response missing data envelope", errBackendFault)
		}
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return "", fmt.Errorf("%w: decode payload: %v", errBackendFault, err)
		}
		return "", nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Message != "" {
			return envelope.Message, nil
		}
	}

	return "", fmt.Errorf("%w: HTTP %d", errBackendFault, resp.StatusCode)
}

func jsonContentType(value string) bool {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
