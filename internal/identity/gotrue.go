package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// GoTrueProvider delegates credentials to a hosted GoTrue (Supabase Auth) service.
type GoTrueProvider struct {
	anon  gotrue.Client
	admin gotrue.Client
}

// NewGoTrueProvider takes the project URL; the /auth/v1 prefix is added here.
// The library calls take no context, so the http client carries the timeout.
func NewGoTrueProvider(baseURL, anonKey, serviceKey string, client *http.Client) *GoTrueProvider {
	hc := http.Client{Timeout: 15 * time.Second}
	if client != nil {
		hc = *client
		if hc.Timeout == 0 {
			hc.Timeout = 15 * time.Second
		}
	}
	anon := gotrue.New("", anonKey).
		WithCustomGoTrueURL(strings.TrimRight(baseURL, "/") + "/auth/v1").
		WithClient(hc)
	return &GoTrueProvider{anon: anon, admin: anon.WithToken(serviceKey)}
}

func (p *GoTrueProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := p.anon.Signup(types.SignupRequest{Email: NormalizeEmail(email), Password: password})
	if err != nil {
		return "", classify(err)
	}
	if resp.ID == uuid.Nil {
		return "", &ProviderError{Status: http.StatusBadGateway, Message: "signup response without user id"}
	}
	return resp.ID.String(), nil
}

func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := p.passwordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: s.User.ID.String(), Email: s.User.Email}, nil
}

func (p *GoTrueProvider) DeleteIdentity(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	if err := p.admin.AdminDeleteUser(types.AdminDeleteUserRequest{UserID: uid}); err != nil {
		return classify(err)
	}
	return nil
}

func (p *GoTrueProvider) UpdatePassword(ctx context.Context, email, current, next string) error {
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	s, err := p.passwordGrant(ctx, email, current)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.anon.WithToken(s.AccessToken).UpdateUser(types.UpdateUserRequest{Password: &next}); err != nil {
		return classify(err)
	}
	return nil
}

func (p *GoTrueProvider) passwordGrant(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := p.anon.SignInWithEmailPassword(NormalizeEmail(email), password)
	if err != nil {
		if errors.Is(err, types.ErrInvalidTokenRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, classify(err)
	}
	if s.User.ID == uuid.Nil || s.AccessToken == "" {
		return nil, &ProviderError{Status: http.StatusBadGateway, Message: "token response without session"}
	}
	return s, nil
}

type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

// statusError matches the errors the client library builds from non-2xx answers.
var statusError = regexp.MustCompile(`(?s)^response status code (\d+)(?:: (.*))?$`)

func classify(err error) error {
	m := statusError.FindStringSubmatch(err.Error())
	if m == nil {
		return fmt.Errorf("identity provider: %w", err)
	}
	status, _ := strconv.Atoi(m[1])
	var ge gotrueError
	_ = json.Unmarshal([]byte(m[2]), &ge)
	msg := ge.text()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "already registered") || strings.Contains(lower, "already exists") || ge.ErrorCode == "user_already_exists":
		return ErrEmailTaken
	case strings.Contains(lower, "invalid login credentials") || ge.ErrorCode == "invalid_credentials" || ge.ErrorCode == "invalid_grant":
		return ErrInvalidCredentials
	case strings.Contains(lower, "password should be") || ge.ErrorCode == "weak_password":
		return ErrWeakPassword
	case status == http.StatusNotFound:
		return ErrNotFound
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ProviderError{Status: status, Message: msg}
}
