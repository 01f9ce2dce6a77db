// Package csrf issues and checks signed form tokens for the HTML pages.
//
// A token is an HS256 JWT bound to a per-browser nonce kept in a cookie.
// A forged cross-site form cannot read the cookie, so it cannot present a
// token carrying the matching nonce.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName holds the per-browser nonce.
const CookieName = "popis_csrf"

// FieldName is the form field carrying the token.
const FieldName = "csrf_token"

// HeaderName may carry the token instead of the form field.
const HeaderName = "X-CSRF-Token"

// TokenExpiry is how long a rendered form stays submittable.
const TokenExpiry = 12 * time.Hour

// ErrInvalidToken is returned for missing, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid csrf token")

// Claims binds a token to the browser nonce.
type Claims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// Protector issues and checks tokens with one secret.
type Protector struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// New creates a Protector. secure marks the nonce cookie Secure.
func New(secret string, secure bool) *Protector {
	return &Protector{secret: []byte(secret), secure: secure, now: time.Now}
}

// Issue signs a token for nonce.
func (p *Protector) Issue(nonce string) (string, error) {
	now := p.now()
	claims := Claims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("signing csrf token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, the expiry and the nonce of a token.
func (p *Protector) Verify(token, nonce string) error {
	if token == "" || nonce == "" {
		return ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(claims.Nonce), []byte(nonce)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

type ctxKey struct{}

// Token returns the token issued for the current request, for templates.
func Token(ctx context.Context) string {
	tok, _ := ctx.Value(ctxKey{}).(string)
	return tok
}

// Middleware makes sure every browser has a nonce cookie, exposes a fresh
// token through Token, and rejects unsafe requests whose token does not
// match. onFail renders the rejection.
func (p *Protector) Middleware(onFail http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := ""
			if c, err := r.Cookie(CookieName); err == nil {
				nonce = c.Value
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
			default:
				token := r.Header.Get(HeaderName)
				if token == "" {
					token = r.PostFormValue(FieldName)
				}
				if err := p.Verify(token, nonce); err != nil {
					onFail(w, r)
					return
				}
			}

			if nonce == "" {
				var err error
				if nonce, err = newNonce(); err != nil {
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    nonce,
					Path:     "/",
					HttpOnly: true,
					Secure:   p.secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			token, err := p.Issue(nonce)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, token)))
		})
	}
}

func newNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
