package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/CoFoundry/api-collaboration/internal/agreement"
	"github.com/CoFoundry/api-collaboration/internal/auth"
	"github.com/CoFoundry/api-collaboration/internal/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// request DTOs
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Headline string `json:"headline"`
	Photo    string `json:"photo"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Handler bundles DB and repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

// Login issues a JWT for valid credentials.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(u.ID, u.IsAdmin)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Create registers a new user (no authentication required).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to process password", http.StatusInternalServerError)
		return
	}

	u := User{
		Name:               req.Name,
		Surname:            req.Surname,
		Email:              req.Email,
		Headline:           req.Headline,
		Photo:              req.Photo,
		Password:           hash,
		NeedsPasswordReset: false,
		IsAdmin:            req.IsAdmin,
	}

	if err := h.Repository.Save(h.DB, &u); err != nil {
		http.Error(w, "failed to save user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

// List returns every user for admins, or just the caller's own record.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin := r.Context().Value(auth.CtxIsAdmin).(bool)

	if isAdmin {
		users, err := h.Repository.ListAll(h.DB)
		if err != nil {
			http.Error(w, "failed to list users", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(users)
		return
	}

	obj, err := h.Repository.FindByID(h.DB, userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode([]User{*obj})
}

// GetByID returns one user by ID.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin := r.Context().Value(auth.CtxIsAdmin).(bool)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if !isAdmin && uint(id) != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	obj, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(obj)
}

// Update changes an existing user's profile.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin := r.Context().Value(auth.CtxIsAdmin).(bool)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if !isAdmin && uint(id) != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	var data User
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Update(h.DB, uint(id), &data); err != nil {
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("user updated"))
}

// Delete removes a user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin := r.Context().Value(auth.CtxIsAdmin).(bool)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if !isAdmin && uint(id) != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("user deleted"))
}

// Summary builds the negotiation-activity DTO for the caller, or for any user
// when the caller is an admin.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin := r.Context().Value(auth.CtxIsAdmin).(bool)

	idParam := userID
	if isAdmin {
		if idStr := mux.Vars(r)["id"]; idStr != "" {
			if i, err := strconv.Atoi(idStr); err == nil {
				idParam = uint(i)
			}
		}
	}

	obj, err := h.Repository.FindByID(h.DB, idParam)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	agreements, _ := agreement.NewRepository().ListByUser(h.DB, obj.ID)
	dto := BuildUserSummaryDTO(*obj, agreements)

	json.NewEncoder(w).Encode(dto)
}

// Me returns the logged-in user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.CtxUserID).(uint)

	var u User
	if err := h.DB.First(&u, userID).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// ResetPassword generates a temporary password for the user and flags the
// account for a reset on next login.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	temp, err := utils.GenerateTemporaryPassword()
	if err != nil {
		http.Error(w, "failed to generate password", http.StatusInternalServerError)
		return
	}
	hash, err := utils.HashPassword(temp)
	if err != nil {
		http.Error(w, "failed to process password", http.StatusInternalServerError)
		return
	}

	u.Password = hash
	u.NeedsPasswordReset = true
	if err := h.Repository.Save(h.DB, u); err != nil {
		http.Error(w, "failed to save user", http.StatusInternalServerError)
		return
	}

	// Delivery of the temporary password (email/SMS) is handled outside
	// this service.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"temporaryPassword": temp})
}
