package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/dinostories/internal/client/api"
	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/client/store"
	"github.com/dmitrijs2005/dinostories/internal/logging"
)

// Durable session keys in the preferences table. Names are fixed so a
// restarted client can restore the previous session.
const (
	prefSessionToken = "story_app_token"
	prefSessionUser  = "story_app_user"
	prefOnlineUser   = "onlineUser"
)

// AuthService resolves login and registration against the server first and
// the local account store second, and owns the canonical Session. It is the
// token source for the API gateway, so auth context is injected rather than
// looked up ambiently.
type AuthService interface {
	api.TokenSource

	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) (*api.RegisterResult, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) models.Session
	Session() models.Session
	IsLoggedIn() bool
}

type authService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger

	mu      sync.RWMutex
	session models.Session
}

// NewAuthService constructs an AuthService bound to the given gateway and
// local store. The returned service starts anonymous; call Restore to pick
// up a persisted session.
func NewAuthService(client api.Client, st *store.Store, log logging.Logger) AuthService {
	return &authService{client: client, store: st, log: log, session: models.AnonymousSession()}
}

// Token implements api.TokenSource.
func (a *authService) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.Token
}

func (a *authService) Session() models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *authService) IsLoggedIn() bool {
	return a.Session().LoggedIn()
}

// Login attempts an online login and falls back to the local account store
// on any failure, matching the coordinator's network-then-local shape. When
// both paths fail the caller gets ErrAuthenticationFailed with the causes
// attached for logging only.
func (a *authService) Login(ctx context.Context, email, password string) (models.Session, error) {
	result, err := a.client.Login(ctx, email, password)
	if err == nil {
		user := models.User{UserID: result.UserID, Name: result.Name, Email: email}
		session := models.OnlineSession(result.Token, user)
		a.setSession(ctx, session)

		// mirror the user for offline reference; best effort
		if raw, marshalErr := json.Marshal(user); marshalErr == nil {
			if prefErr := a.store.SetPreference(ctx, prefOnlineUser, raw); prefErr != nil {
				a.log.Warn(ctx, "failed to mirror online user", "error", prefErr)
			}
		}
		return session, nil
	}

	a.log.Info(ctx, "online login failed, trying offline login", "error", err)

	account, localErr := a.store.Authenticate(ctx, email, password)
	if localErr != nil {
		return models.AnonymousSession(),
			fmt.Errorf("%w: online: %w; offline: %w", ErrAuthenticationFailed, err, localErr)
	}

	session := models.OfflineSession(account.User())
	a.setSession(ctx, session)
	return session, nil
}

// Register attempts an online registration and mirrors the new account
// locally so the user can log in offline later; the mirror is best effort.
// When the server is unreachable the account is registered locally only.
// A reachable server's rejection (validation, taken email) propagates.
func (a *authService) Register(ctx context.Context, name, email, password string) (*api.RegisterResult, error) {
	result, err := a.client.Register(ctx, name, email, password)
	if err == nil {
		if _, mirrorErr := a.store.RegisterAccount(ctx, name, email, password); mirrorErr != nil {
			a.log.Warn(ctx, "failed to mirror account locally", "error", mirrorErr)
		}
		return result, nil
	}
	if !api.IsUnavailable(err) {
		return nil, err
	}

	a.log.Info(ctx, "online registration failed, registering offline", "error", err)

	account, localErr := a.store.RegisterAccount(ctx, name, email, password)
	if localErr != nil {
		return nil, localErr
	}
	return &api.RegisterResult{
		UserID:  account.UserID,
		Message: "Registered in offline mode. You can use the app offline.",
	}, nil
}

// Logout drops the session and wipes all local data: cache, bookmarks,
// pending stories and offline accounts. There is exactly one offline
// identity slot at a time, so logout clears everything, not just the token.
func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.session = models.AnonymousSession()
	a.mu.Unlock()

	if err := a.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clearing local data on logout: %w", err)
	}
	return nil
}

// Restore loads the persisted session from the preferences table. A token
// restores an online session, a user without token an offline one; anything
// else stays anonymous. Storage failures degrade to anonymous.
func (a *authService) Restore(ctx context.Context) models.Session {
	token, err := a.store.Preference(ctx, prefSessionToken)
	if err != nil {
		a.log.Warn(ctx, "failed to restore session", "error", err)
		return a.Session()
	}
	rawUser, err := a.store.Preference(ctx, prefSessionUser)
	if err != nil {
		a.log.Warn(ctx, "failed to restore session", "error", err)
		return a.Session()
	}

	var user models.User
	if len(rawUser) > 0 {
		if err := json.Unmarshal(rawUser, &user); err != nil {
			a.log.Warn(ctx, "corrupt persisted user, ignoring", "error", err)
		}
	}

	var session models.Session
	switch {
	case len(token) > 0:
		session = models.OnlineSession(string(token), user)
	case user != (models.User{}):
		session = models.OfflineSession(user)
	default:
		return a.Session()
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
	return session
}

// setSession updates the canonical copy and mirrors it into durable storage.
// Persistence failures are logged, not surfaced: a session that lives only
// until the process exits is still a working session.
func (a *authService) setSession(ctx context.Context, session models.Session) {
	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	if err := a.store.SetPreference(ctx, prefSessionToken, []byte(session.Token)); err != nil {
		a.log.Warn(ctx, "failed to persist session token", "error", err)
		return
	}
	raw, err := json.Marshal(session.User)
	if err != nil {
		a.log.Warn(ctx, "failed to marshal session user", "error", err)
		return
	}
	if err := a.store.SetPreference(ctx, prefSessionUser, raw); err != nil {
		a.log.Warn(ctx, "failed to persist session user", "error", err)
	}
}
