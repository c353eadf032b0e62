package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tavernarpg/storefront/internal/domain"
	"github.com/tavernarpg/storefront/internal/repository"
	"github.com/tavernarpg/storefront/internal/service"
)

// AuthAPI is what the auth handlers need from the service layer.
type AuthAPI interface {
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type AuthHandler struct {
	auth AuthAPI
}

func NewAuthHandler(auth AuthAPI) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponseDTO struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "Nome e e-mail são obrigatórios.")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "weak_password", "A senha deve ter pelo menos 6 caracteres.")
		return
	}

	token, user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email_taken", "Este e-mail já está em uso.")
			return
		}
		respondError(w, http.StatusInternalServerError, "register_failed", "Erro ao criar a conta")
		return
	}
	respondJSON(w, http.StatusCreated, authResponseDTO{Token: token, User: user})
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "E-mail e senha são obrigatórios.")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		respondError(w, http.StatusInternalServerError, "login_failed", "Erro ao entrar")
		return
	}
	respondJSON(w, http.StatusOK, authResponseDTO{Token: token, User: user})
}
