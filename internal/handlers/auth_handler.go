package handlers

import (
	"errors"
	"net/http"
	"time"

	"questionbank/internal/models"
	"questionbank/internal/repositories"
	"questionbank/internal/utils"

	"go.uber.org/zap"
)

// AuthConfig carries the token settings used by AuthHandler.
type AuthConfig struct {
	Secret           string
	Expire           time.Duration
	CookieExpireDays int
	// SecureCookie is set in production only.
	SecureCookie bool
}

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	users  UserRepository
	mailer utils.Mailer
	cfg    AuthConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthHandler(users UserRepository, mailer utils.Mailer, cfg AuthConfig, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{users: users, mailer: mailer, cfg: cfg, logger: logger, now: time.Now}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	user := &models.User{Email: req.Email, PasswordHash: hash, Role: models.RoleStudent}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			err = utils.Duplicate("Email already exists")
		}
		fail(h.logger, w, r, err)
		return
	}

	h.logger.Info("user registered", zap.String("user", user.ID.Hex()))
	h.sendTokenResponse(w, r, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(h.logger, w, r, utils.Validation("Please provide an email and password"))
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = utils.Unauthorized("Invalid credentials")
		}
		fail(h.logger, w, r, err)
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		fail(h.logger, w, r, utils.Unauthorized("Invalid credentials"))
		return
	}

	h.sendTokenResponse(w, r, user)
}

// ForgotPasswordHandler replaces the password with a temporary one and mails
// it to the user.
func (h *AuthHandler) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	ctx := r.Context()
	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = utils.NotFound("No user with that email")
		}
		fail(h.logger, w, r, err)
		return
	}

	temp := utils.TempPassword()
	hash, err := utils.HashPassword(temp)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	if err := h.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	body := "Your new password is: " + temp + "\n\nHope to see you."
	if err := h.mailer.Send(user.Email, "Your Temporary Password", body); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.MessageResponse{Success: true, Message: "Temporary password sent to your email"})
}

// MeHandler returns the authenticated user.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request, id models.Identity) {
	user, err := h.users.GetUserByID(r.Context(), id.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = utils.NotFound("User not found")
		}
		fail(h.logger, w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.DataResponse{Success: true, Data: user})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, utils.ClearTokenCookie(h.now()))
	utils.JSON(w, http.StatusOK, models.DataResponse{Success: true, Data: emptyObject()})
}

func (h *AuthHandler) sendTokenResponse(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := utils.SignToken(h.cfg.Secret, user.ID.Hex(), string(user.Role), h.cfg.Expire)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	http.SetCookie(w, utils.TokenCookie(token, h.cfg.CookieExpireDays, h.cfg.SecureCookie, h.now()))
	utils.JSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   token,
		UserID:  user.ID.Hex(),
		Role:    user.Role,
	})
}
