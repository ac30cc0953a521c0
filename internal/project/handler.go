package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CoFoundry/api-collaboration/internal/auth"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stage       string `json:"stage"`
}

type createMilestoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"` // "YYYY-MM-DD", optional
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

// Create handles POST /projects. The caller becomes the owner.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.CtxUserID).(uint)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "the 'name' field is required", http.StatusBadRequest)
		return
	}

	p := Project{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Stage:       req.Stage,
	}
	if err := h.Repository.Save(h.DB, &p); err != nil {
		http.Error(w, "failed to save project", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// List handles GET /projects, returning the caller's projects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.CtxUserID).(uint)

	list, err := h.Repository.ListByOwner(h.DB, userID)
	if err != nil {
		http.Error(w, "failed to list projects", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GetByID handles GET /projects/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	p, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// Update handles PUT /projects/{id} (owner or admin).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Stage = req.Stage
	if err := h.Repository.Save(h.DB, p); err != nil {
		http.Error(w, "failed to update project", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// Delete handles DELETE /projects/{id} (owner or admin). Agreements cascade.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if err := h.Repository.Delete(h.DB, p.ID); err != nil {
		http.Error(w, "failed to delete project", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateMilestone handles POST /projects/{id}/milestones (owner or admin).
func (h *Handler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req createMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "the 'title' field is required", http.StatusBadRequest)
		return
	}

	m := Milestone{
		ProjectID:   p.ID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			http.Error(w, "invalid dueDate", http.StatusBadRequest)
			return
		}
		m.DueDate = &due
	}

	if err := h.Repository.SaveMilestone(h.DB, &m); err != nil {
		http.Error(w, "failed to save milestone", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(m)
}

// ListMilestones handles GET /projects/{id}/milestones.
func (h *Handler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	list, err := h.Repository.ListMilestones(h.DB, uint(id))
	if err != nil {
		http.Error(w, "failed to list milestones", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// CompleteMilestone handles PATCH /milestones/{id}/complete (owner or admin).
func (h *Handler) CompleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	m, err := h.Repository.FindMilestone(h.DB, uint(id))
	if err != nil {
		http.Error(w, "milestone not found", http.StatusNotFound)
		return
	}

	userID, _ := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	p, err := h.Repository.FindByID(h.DB, m.ProjectID)
	if err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if !isAdmin && p.OwnerID != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	now := time.Now()
	m.CompletedAt = &now
	if err := h.Repository.SaveMilestone(h.DB, m); err != nil {
		http.Error(w, "failed to update milestone", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

// loadOwned fetches the routed project and enforces owner-or-admin access.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*Project, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return nil, false
	}

	p, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		return nil, false
	}

	userID, _ := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)
	if !isAdmin && p.OwnerID != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return nil, false
	}
	return p, true
}
