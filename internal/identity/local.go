package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	internalauth "github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	pkgauth "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/auth"
	"github.com/google/uuid"
)

// LocalProvider is an in-memory identity provider for development and
// tests. It hashes passwords with bcrypt and mints HS256 sessions through
// the shared TokenManager, matching the hosted provider's token shape.
type LocalProvider struct {
	tm         *internalauth.TokenManager
	sessionTTL time.Duration

	mu      sync.RWMutex
	users   map[string]localUser // keyed by lowercased email
	issued  []string
	revoked map[string]bool
}

type localUser struct {
	id           string
	email        string
	passwordHash string
}

// NewLocalProvider creates an empty local provider.
func NewLocalProvider(tm *internalauth.TokenManager, sessionTTL time.Duration) *LocalProvider {
	return &LocalProvider{
		tm:         tm,
		sessionTTL: sessionTTL,
		users:      make(map[string]localUser),
		revoked:    make(map[string]bool),
	}
}

// PasswordGrant checks the credentials and issues a session.
func (p *LocalProvider) PasswordGrant(ctx context.Context, email, password string) (*models.Session, error) {
	p.mu.RLock()
	user, ok := p.users[strings.ToLower(email)]
	p.mu.RUnlock()

	if !ok {
		// Burn a comparison anyway so present and absent accounts cost
		// the same.
		_ = pkgauth.ComparePassword("$2a$14$invalidinvalidinvalidinvali", password)
		return nil, models.ErrInvalidCredentials
	}

	if err := pkgauth.ComparePassword(user.passwordHash, password); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, err := p.tm.Generate(user.id, user.email, p.sessionTTL)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.issued = append(p.issued, token)
	p.mu.Unlock()

	return &models.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(p.sessionTTL.Seconds()),
	}, nil
}

// RevokeSession marks the token revoked. The local provider does not
// enforce revocation on later requests; it exists so the orchestrator's
// discard step has a real effect to assert on in tests.
func (p *LocalProvider) RevokeSession(ctx context.Context, accessToken string) error {
	p.mu.Lock()
	p.revoked[accessToken] = true
	p.mu.Unlock()
	return nil
}

// IssuedTokens returns every access token handed out so far, in order.
func (p *LocalProvider) IssuedTokens() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.issued))
	copy(out, p.issued)
	return out
}

// IsRevoked reports whether RevokeSession was called for the token.
func (p *LocalProvider) IsRevoked(accessToken string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.revoked[accessToken]
}

// CreateAccount registers a new user and returns its id.
func (p *LocalProvider) CreateAccount(ctx context.Context, account NewAccount) (string, error) {
	email := strings.ToLower(account.Email)

	if err := pkgauth.ValidatePassword(account.Password); err != nil {
		return "", models.ErrBadRequest
	}

	hash, err := pkgauth.HashPassword(account.Password)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[email]; exists {
		return "", models.ErrConflict
	}

	id := uuid.New().String()
	p.users[email] = localUser{id: id, email: email, passwordHash: hash}
	return id, nil
}
