package auth

import (
	"errors"
	"strings"
)

// Visibility is the access level resolved once per request.
type Visibility int

const (
	// Public means no token was presented.
	Public Visibility = iota
	// Limited means a token was presented but could not be verified.
	Limited
	// FullyAuthenticated means the token verified and Identity is set.
	FullyAuthenticated
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Limited:
		return "limited"
	case FullyAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

var ErrMissingToken = errors.New("missing token")

// Access is the outcome of resolving a request's Authorization header.
type Access struct {
	Visibility Visibility
	Identity   Identity
	// Err explains why the request is not fully authenticated.
	Err error
}

// Authenticated reports whether the request carried a valid admin token.
func (a Access) Authenticated() bool {
	return a.Visibility == FullyAuthenticated
}

// Verifier verifies a raw token.
type Verifier interface {
	Verify(raw string) (Identity, error)
}

// Gate turns Authorization headers into Access values.
type Gate struct {
	verifier Verifier
}

// NewGate creates a gate backed by verifier.
func NewGate(verifier Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// Resolve inspects an Authorization header value. An empty header yields Public;
// a header that is not "Bearer <token>" or whose token fails verification yields Limited.
func (g *Gate) Resolve(header string) Access {
	header = strings.TrimSpace(header)
	if header == "" {
		return Access{Visibility: Public, Err: ErrMissingToken}
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return Access{Visibility: Limited, Err: ErrTokenInvalid}
	}

	identity, err := g.verifier.Verify(token)
	if err != nil {
		return Access{Visibility: Limited, Err: err}
	}
	return Access{Visibility: FullyAuthenticated, Identity: identity}
}
