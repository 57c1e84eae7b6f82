package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/ledger-engine/internal/auth"
)

func ownerFromContext(r *http.Request) (uuid.UUID, *AppError) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}
	return ownerID, nil
}
