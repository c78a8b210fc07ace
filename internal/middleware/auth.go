package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"questionbank/internal/models"
	"questionbank/internal/repositories"
	"questionbank/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const notAuthorized = "Not authorized to access this route"

// IdentityHandlerFunc is a handler that requires an authenticated caller.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, id models.Identity)

// UserLookup resolves the user named by a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Authenticator struct {
	users  UserLookup
	secret string
	logger *zap.Logger
}

func NewAuthenticator(users UserLookup, secret string, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{users: users, secret: secret, logger: logger}
}

// Protect verifies the token, loads the user it names and calls next with
// the resulting identity. The role is read from the stored user, not the
// token, so role changes apply immediately.
func (a *Authenticator) Protect(next IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.VerifyToken(r, a.secret)
		if err != nil {
			utils.JSONError(w, http.StatusUnauthorized, notAuthorized)
			return
		}
		rawID, err := utils.GetUserIDFromClaims(claims)
		if err != nil {
			utils.JSONError(w, http.StatusUnauthorized, notAuthorized)
			return
		}
		userID, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			utils.JSONError(w, http.StatusUnauthorized, notAuthorized)
			return
		}

		user, err := a.users.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				utils.JSONError(w, http.StatusUnauthorized, notAuthorized)
				return
			}
			a.logger.Error("load user for token", zap.String("user", rawID), zap.Error(err))
			utils.Fail(w, err)
			return
		}

		next(w, r, models.Identity{ID: user.ID, Role: user.Role})
	}
}

// AdminOnly rejects non-admin callers with 403.
func AdminOnly(next IdentityHandlerFunc) IdentityHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, id models.Identity) {
		if !id.IsAdmin() {
			utils.JSONError(w, http.StatusForbidden, fmt.Sprintf("User role %s is not authorized to access this route", id.Role))
			return
		}
		next(w, r, id)
	}
}
