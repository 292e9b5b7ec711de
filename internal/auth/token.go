package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrStateMismatch = errors.New("oauth state mismatch")
)

const (
	SessionCookie = "katch_session"
	StateCookie   = "katch_state"

	issuer   = "katch"
	stateTTL = 10 * time.Minute
)

// Claims represents the session token claims. Subject is the identity
// provider's user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// StateClaims travel in the short-lived login state cookie. ID holds the
// state value sent to the provider.
type StateClaims struct {
	Return string `json:"ret,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager signs and reads session and login-state cookies.
type SessionManager struct {
	sessionKey []byte
	stateKey   []byte
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

// NewSessionManager derives independent signing keys from secret. An empty
// secret gets a random one, which invalidates sessions on every restart.
func NewSessionManager(secret string, ttl time.Duration, secureCookies bool) (*SessionManager, error) {
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = base64.StdEncoding.EncodeToString(b)
	}

	sessionKey, err := deriveKey(secret, "katch session v1")
	if err != nil {
		return nil, err
	}
	stateKey, err := deriveKey(secret, "katch oauth state v1")
	if err != nil {
		return nil, err
	}

	return &SessionManager{
		sessionKey: sessionKey,
		stateKey:   stateKey,
		ttl:        ttl,
		secure:     secureCookies,
		now:        time.Now,
	}, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Issue creates a session token for a user.
func (m *SessionManager) Issue(subject, name string) (string, error) {
	now := m.now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.sessionKey)
}

// Parse validates a session token and returns its claims.
func (m *SessionManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims, m.sessionKey); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueState creates the signed login state. It returns the state value for
// the provider and the cookie token.
func (m *SessionManager) IssueState(returnTo string) (state, token string, err error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}
	state = base64.RawURLEncoding.EncodeToString(b)

	now := m.now()
	claims := StateClaims{
		Return: returnTo,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        state,
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.stateKey)
	if err != nil {
		return "", "", err
	}
	return state, token, nil
}

// CheckState validates the state cookie against the state echoed by the
// provider and returns the path to go back to.
func (m *SessionManager) CheckState(cookieToken, state string) (string, error) {
	claims := &StateClaims{}
	if err := m.parse(cookieToken, claims, m.stateKey); err != nil {
		return "", err
	}
	if state == "" || claims.ID != state {
		return "", ErrStateMismatch
	}
	return claims.Return, nil
}

func (m *SessionManager) parse(tokenString string, claims jwt.Claims, key []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	return nil
}

// SetSession writes the session cookie.
func (m *SessionManager) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func (m *SessionManager) ClearSession(w http.ResponseWriter) {
	m.clear(w, SessionCookie)
}

// SetState writes the login state cookie.
func (m *SessionManager) SetState(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    token,
		Path:     "/auth",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearState expires the login state cookie.
func (m *SessionManager) ClearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
	})
}

func (m *SessionManager) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
	})
}
