package state

import (
	"context"
	"log"

	"go-salepoint/internal/apiclient"
	"go-salepoint/internal/model"
	"go-salepoint/pkg/kvstore"
)

// Phase is the session state machine: Anonymous -> Authenticating ->
// Authenticated, and back to Anonymous on logout or a failed restore.
type Phase int

const (
	Anonymous Phase = iota
	Authenticating
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

const tokenKey = "salepoint.token"

// Session holds the current user identity and the stored credential.
// At most one current user exists at a time.
type Session struct {
	api   API
	store kvstore.Store
	phase Phase
	user  *model.User
}

func NewSession(api API, store kvstore.Store) *Session {
	return &Session{api: api, store: store}
}

func (s *Session) Login(ctx context.Context, email, password string) (*model.User, error) {
	s.phase = Authenticating
	creds, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.phase = Anonymous
		return nil, err
	}
	return s.establish(creds), nil
}

func (s *Session) LoginWithGoogle(ctx context.Context, idToken string) (*model.User, error) {
	s.phase = Authenticating
	creds, err := s.api.GoogleLogin(ctx, idToken)
	if err != nil {
		s.phase = Anonymous
		return nil, err
	}
	return s.establish(creds), nil
}

// Restore resolves a previously stored token to a user profile. Any failure
// (invalid, expired, network) clears the stored token and leaves the session
// anonymous; it is never surfaced beyond returning no user.
func (s *Session) Restore(ctx context.Context) *model.User {
	token, ok := s.store.Get(tokenKey)
	if !ok {
		return nil
	}

	s.phase = Authenticating
	s.api.SetToken(token)

	user, err := s.api.Profile(ctx)
	if err != nil {
		log.Printf("session: discarding stored token: %v", err)
		if rmErr := s.store.Remove(tokenKey); rmErr != nil {
			log.Printf("session: failed to remove stored token: %v", rmErr)
		}
		s.api.SetToken("")
		s.phase = Anonymous
		return nil
	}

	s.user = user
	s.phase = Authenticated
	return user
}

// Logout clears the stored token and current user unconditionally.
func (s *Session) Logout() {
	if err := s.store.Remove(tokenKey); err != nil {
		log.Printf("session: failed to remove stored token: %v", err)
	}
	s.api.SetToken("")
	s.user = nil
	s.phase = Anonymous
}

func (s *Session) CurrentUser() *model.User {
	return s.user
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) establish(creds *apiclient.Credentials) *model.User {
	if err := s.store.Set(tokenKey, creds.Token); err != nil {
		// Session still works in memory; it just won't survive a restart.
		log.Printf("session: failed to persist token: %v", err)
	}
	s.api.SetToken(creds.Token)
	user := creds.User
	s.user = &user
	s.phase = Authenticated
	return s.user
}
