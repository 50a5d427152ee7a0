package service

import (
	"context"

	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/token"
)

// TokenGate verifies inbound bearer tokens.
//
// Access tokens are checked cryptographically only. Refresh tokens are
// additionally checked against the ledger, and anything short of a
// confirmed ledger row is rejected.
type TokenGate struct {
	codec  *token.Codec
	ledger *RefreshLedger
}

func NewTokenGate(codec *token.Codec, ledger *RefreshLedger) *TokenGate {
	return &TokenGate{codec: codec, ledger: ledger}
}

func (g *TokenGate) Access(tokenStr string) (*model.AuthUser, error) {
	claims, err := g.codec.VerifyAccess(tokenStr)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized
	}
	return &model.AuthUser{
		ID:       userID,
		Role:     claims.Role,
		TenantID: claims.TenantID(),
	}, nil
}

func (g *TokenGate) Refresh(ctx context.Context, tokenStr string) (*token.Claims, error) {
	claims, err := g.codec.VerifyRefresh(tokenStr)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized
	}
	recordID, err := claims.RecordID()
	if err != nil {
		return nil, ErrUnauthorized
	}
	if g.ledger.IsRevoked(ctx, recordID, userID) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
