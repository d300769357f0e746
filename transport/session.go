package transport

import (
	"context"
	"strings"

	"github.com/raywall/bitable-toolkit/bitable"
)

// TokenSource supplies a valid access token for a credential pair. The token
// package's Cache satisfies it.
type TokenSource interface {
	Token(ctx context.Context, appID, appSecret string) (string, error)
}

// Session binds a Client to one Bitable app: the credential pair used to
// sign calls and the app token identifying the base. Every service facade
// operates through a Session.
type Session struct {
	Client    *Client
	Tokens    TokenSource
	AppID     string
	AppSecret string
	AppToken  string
}

// NewSession assembles a Session. Validation is deferred to first use so
// partially configured sessions can be built up by config layers.
func NewSession(client *Client, tokens TokenSource, appID, appSecret, appToken string) *Session {
	return &Session{
		Client:    client,
		Tokens:    tokens,
		AppID:     appID,
		AppSecret: appSecret,
		AppToken:  appToken,
	}
}

// Token returns an access token for this session's credentials.
func (s *Session) Token(ctx context.Context) (string, error) {
	if strings.TrimSpace(s.AppID) == "" || strings.TrimSpace(s.AppSecret) == "" {
		return "", bitable.NewError(bitable.CodeCredentialsMissing, "session has no app credentials")
	}
	if s.Tokens == nil {
		return "", bitable.NewError(bitable.CodeClientNotRegistered, "session has no token source")
	}
	return s.Tokens.Token(ctx, s.AppID, s.AppSecret)
}

// Validate checks that the session can address its base.
func (s *Session) Validate() error {
	if s.Client == nil {
		return bitable.NewError(bitable.CodeClientNotRegistered, "session has no transport client")
	}
	if strings.TrimSpace(s.AppToken) == "" {
		return bitable.NewError(bitable.CodeAppTokenMissing, "session has no app token")
	}
	return nil
}
