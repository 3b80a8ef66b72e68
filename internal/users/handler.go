package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/userdesk/userdesk/internal/platform/httpx"
)

// UserService defines the business contract the handler depends on.
type UserService interface {
	List(ctx context.Context) ([]Profile, error)
	Get(ctx context.Context, id int64) (*Profile, error)
	SearchByName(ctx context.Context, name string) ([]Profile, error)
	Create(ctx context.Context, name, email, password string) (int64, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (bool, error)
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, email, password string) (int64, error)
}

// Handler wires HTTP endpoints for user management.
type Handler struct {
	logger    *slog.Logger
	service   UserService
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service UserService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers user routes on the provided router. The {id} pattern
// only admits digits, so non-numeric segments fall through to the router's
// not-found response.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/users", h.handleList)
	r.Post("/users", h.handleCreate)
	r.Get("/user/{id:[0-9]+}", h.handleGet)
	r.Put("/user/{id:[0-9]+}", h.handleUpdate)
	r.Delete("/user/{id:[0-9]+}", h.handleDelete)
	r.Get("/search", h.handleSearch)
	r.Post("/login", h.handleLogin)
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Database Error", "Failed to retrieve users.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": profiles})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	profile, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get user", slog.Int64("id", id), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Database Error", "Failed to retrieve user.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": profile})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing Data", "Name, email, and password are required.")
		return
	}
	if !ValidateEmail(req.Email) {
		httpx.Error(w, http.StatusBadRequest, "Invalid Email", "Please provide a valid email address.")
		return
	}
	if ok, reason := ValidatePasswordStrength(req.Password); !ok {
		httpx.Error(w, http.StatusBadRequest, "Weak Password", reason)
		return
	}

	id, err := h.service.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			h.logger.Warn("create user conflict", slog.String("email", req.Email))
			httpx.Error(w, http.StatusConflict, "Conflict", "User with this email already exists.")
			return
		}
		h.logger.Error("create user", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Database Error", "Failed to create user.")
		return
	}
	h.logger.Info("user created", slog.Int64("id", id), slog.String("email", req.Email))
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "User created successfully!", "id": id})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON.")
		return
	}

	// Empty strings count as absent, matching the creation-side required rule.
	var fields UpdateFields
	if req.Name != nil && *req.Name != "" {
		fields.Name = req.Name
	}
	if req.Email != nil && *req.Email != "" {
		fields.Email = req.Email
	}
	if fields.IsEmpty() {
		httpx.Error(w, http.StatusBadRequest, "No Data", "At least 'name' or 'email' must be provided for update.")
		return
	}
	if fields.Email != nil && !ValidateEmail(*fields.Email) {
		httpx.Error(w, http.StatusBadRequest, "Invalid Email", "Please provide a valid email address.")
		return
	}

	changed, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Message(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrDuplicateEmail):
			h.logger.Warn("update user conflict", slog.Int64("id", id))
			httpx.Error(w, http.StatusConflict, "Conflict", "Email already in use by another user.")
		default:
			h.logger.Error("update user", slog.Int64("id", id), slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Database Error", "Failed to update user.")
		}
		return
	}
	if !changed {
		h.logger.Info("user update applied no changes", slog.Int64("id", id))
		httpx.JSON(w, http.StatusOK, map[string]string{"message": "User found, but no changes were applied."})
		return
	}
	h.logger.Info("user updated", slog.Int64("id", id))
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "User updated successfully!"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("delete user", slog.Int64("id", id), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Database Error", "Failed to delete user.")
		return
	}
	h.logger.Info("user deleted", slog.Int64("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httpx.Error(w, http.StatusBadRequest, "Missing Parameter", "Please provide a 'name' query parameter to search.")
		return
	}
	profiles, err := h.service.SearchByName(r.Context(), name)
	if err != nil {
		h.logger.Error("search users", slog.String("name", name), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Database Error", "Failed to search users.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": profiles})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing Credentials", "Email and password are required.")
		return
	}

	id, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Warn("failed login attempt", slog.String("email", req.Email))
			httpx.JSON(w, http.StatusUnauthorized, map[string]string{
				"status":  "failed",
				"message": "Invalid email or password.",
			})
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal Server Error", "An error occurred during login.")
		return
	}
	h.logger.Info("login successful", slog.Int64("user_id", id))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Login successful!",
		"user_id": id,
	})
}

// pathID parses the {id} route parameter. The route pattern restricts it to
// digits; only values overflowing int64 fail, and those ids cannot exist.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "User not found")
		return 0, false
	}
	return id, true
}
