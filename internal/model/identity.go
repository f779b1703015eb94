package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ConnectClaims struct {
	jwt.RegisteredClaims
}

// Identity is the result of token resolution. Resolution never fails:
// anything the resolver cannot verify comes back anonymous, and callers
// decide what anonymous means for them.
type Identity struct {
	UserID    uuid.UUID
	Anonymous bool
}

func AnonymousIdentity() Identity {
	return Identity{Anonymous: true}
}
