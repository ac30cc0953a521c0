package agreement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/CoFoundry/api-collaboration/internal/auth"
	"github.com/CoFoundry/api-collaboration/internal/models"
	"github.com/CoFoundry/api-collaboration/internal/notification"
	"github.com/CoFoundry/api-collaboration/internal/participant"
	"github.com/CoFoundry/api-collaboration/internal/project"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler wires the negotiation core to the HTTP layer.
type Handler struct {
	DB           *gorm.DB
	Repository   Repository
	Participants participant.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:           db,
		Repository:   NewRepository(),
		Participants: participant.NewRepository(),
	}
}

// writeBusinessError maps the core's error taxonomy onto HTTP statuses:
// validation 422, precondition 409, turn/ownership 403, missing records 404.
func writeBusinessError(w http.ResponseWriter, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": verrs})
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "agreement not found", http.StatusNotFound)
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrNotAccepted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotYourTurn), errors.Is(err, ErrNotParticipant):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Create handles POST /agreements. The caller becomes the initiator; roles
// follow the creation-time policy against the project owner.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.CtxUserID).(uint)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var dto agreementDraftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if dto.OtherUserID == 0 {
		http.Error(w, "the 'otherUserId' field is required", http.StatusBadRequest)
		return
	}

	draft, parseErrs := dto.toModel()
	if parseErrs != nil {
		writeBusinessError(w, parseErrs)
		return
	}

	var proj project.Project
	if err := h.DB.First(&proj, dto.ProjectID).Error; err != nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if proj.OwnerID != userID && proj.OwnerID != dto.OtherUserID {
		http.Error(w, "one of the parties must own the project", http.StatusForbidden)
		return
	}

	// Role assignment needs the final type, so apply the creation defaults
	// up front. Create normalizes again, which is a no-op by then.
	Normalize(draft)
	initiator := PartySpec{UserID: userID, Role: RoleFor(proj.OwnerID == userID, draft.AgreementType)}
	other := PartySpec{UserID: dto.OtherUserID, Role: RoleFor(proj.OwnerID == dto.OtherUserID, draft.AgreementType)}

	if err := Create(h.DB, draft, initiator, other); err != nil {
		writeBusinessError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, draft)
}

// List handles GET /agreements. With ?projectId= it lists a project's
// agreements (owner or admin only); otherwise the caller's own.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)

	if raw := r.URL.Query().Get("projectId"); raw != "" {
		projectID, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid projectId", http.StatusBadRequest)
			return
		}
		var proj project.Project
		if err := h.DB.First(&proj, projectID).Error; err != nil {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		if !isAdmin && proj.OwnerID != userID {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}
		list, err := h.Repository.ListByProject(h.DB, uint(projectID))
		if err != nil {
			http.Error(w, "failed to list agreements", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	list, err := h.Repository.ListByUser(h.DB, userID)
	if err != nil {
		http.Error(w, "failed to list agreements", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetByID handles GET /agreements/{id}. Full details are visible to the
// agreement's participants and admins only.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForViewer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// loadForViewer fetches the agreement from the route and enforces the
// participant-or-admin read guard. It writes the response on failure.
func (h *Handler) loadForViewer(w http.ResponseWriter, r *http.Request) (*models.Agreement, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return nil, false
	}
	userID, _ := r.Context().Value(auth.CtxUserID).(uint)
	isAdmin, _ := r.Context().Value(auth.CtxIsAdmin).(bool)

	a, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "agreement not found", http.StatusNotFound)
		} else {
			http.Error(w, "failed to load agreement", http.StatusInternalServerError)
		}
		return nil, false
	}

	if !isAdmin {
		canView, err := participant.CanViewFullProjectDetails(h.DB, a.ID, userID)
		if err != nil {
			http.Error(w, "failed to load agreement", http.StatusInternalServerError)
			return nil, false
		}
		if !canView {
			http.Error(w, "access denied", http.StatusForbidden)
			return nil, false
		}
	}
	return a, true
}

// callerParticipant resolves the caller's participant row on the agreement.
func (h *Handler) callerParticipant(r *http.Request, agreementID uint) (*models.Participant, error) {
	userID, ok := r.Context().Value(auth.CtxUserID).(uint)
	if !ok {
		return nil, ErrNotParticipant
	}
	p, err := h.Participants.FindByAgreementAndUser(h.DB, agreementID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}
	return p, nil
}

// Accept handles POST /agreements/{id}/accept. Only the turn holder of a
// pending agreement may accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.actOnTurn(w, r, Accept)
}

// Reject handles POST /agreements/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.actOnTurn(w, r, Reject)
}

func (h *Handler) actOnTurn(w http.ResponseWriter, r *http.Request, op func(*gorm.DB, uint) error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	a, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	p, err := h.callerParticipant(r, a.ID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	if !participant.IsTurnToAct(p) {
		writeBusinessError(w, ErrNotYourTurn)
		return
	}
	if err := op(h.DB, a.ID); err != nil {
		writeBusinessError(w, err)
		return
	}

	updated, err := h.Repository.FindByID(h.DB, a.ID)
	if err != nil {
		http.Error(w, "failed to load agreement", http.StatusInternalServerError)
		return
	}
	if updated.Status == models.StatusAccepted {
		go notification.SendAgreementAlert(notification.EventAccepted, updated.ID, updated.ProjectID)
	}
	writeJSON(w, http.StatusOK, updated)
}

// Complete handles POST /agreements/{id}/complete. Either participant of an
// accepted agreement may mark it completed.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.actAsParticipant(w, r, Complete)
}

// Cancel handles POST /agreements/{id}/cancel. Either participant of a
// pending agreement may withdraw it.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.actAsParticipant(w, r, Cancel)
}

func (h *Handler) actAsParticipant(w http.ResponseWriter, r *http.Request, op func(*gorm.DB, uint) error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	if _, err := h.callerParticipant(r, uint(id)); err != nil {
		writeBusinessError(w, err)
		return
	}
	if err := op(h.DB, uint(id)); err != nil {
		writeBusinessError(w, err)
		return
	}
	updated, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "failed to load agreement", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Counter handles POST /agreements/{id}/counter. The turn holder of a pending
// agreement proposes new terms; a fresh agreement is created against the
// original.
func (h *Handler) Counter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	original, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	p, err := h.callerParticipant(r, original.ID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	if !participant.CanAcceptOrCounter(p, original) {
		if original.Status != models.StatusPending {
			writeBusinessError(w, ErrNotPending)
		} else {
			writeBusinessError(w, ErrNotYourTurn)
		}
		return
	}

	var dto agreementDraftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	draft, parseErrs := dto.toModel()
	if parseErrs != nil {
		writeBusinessError(w, parseErrs)
		return
	}

	if err := CreateCounterOffer(h.DB, original, p.UserID, draft); err != nil {
		writeBusinessError(w, err)
		return
	}

	go notification.SendAgreementAlert(notification.EventCountered, original.ID, original.ProjectID)
	writeJSON(w, http.StatusCreated, draft)
}

// PassTurn handles POST /agreements/{id}/pass-turn.
func (h *Handler) PassTurn(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	if _, err := h.callerParticipant(r, uint(id)); err != nil {
		writeBusinessError(w, err)
		return
	}

	var req passTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "the 'userId' field is required", http.StatusBadRequest)
		return
	}
	// Only a participant of the agreement may be handed the turn.
	if _, err := h.Participants.FindByAgreementAndUser(h.DB, uint(id), req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "target user is not a participant", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to pass turn", http.StatusInternalServerError)
		return
	}

	if err := participant.PassTurnTo(h.DB, uint(id), req.UserID); err != nil {
		// A failed batch update leaves no partial state behind; surface it
		// as a hard failure so the caller retries.
		http.Error(w, "failed to pass turn", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, turnDTO{UserID: req.UserID})
}

// ListParticipants handles GET /agreements/{id}/participants.
func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForViewer(w, r)
	if !ok {
		return
	}
	list, err := h.Participants.ListByAgreement(h.DB, a.ID)
	if err != nil {
		http.Error(w, "failed to list participants", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// WhoseTurn handles GET /agreements/{id}/turn.
func (h *Handler) WhoseTurn(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForViewer(w, r)
	if !ok {
		return
	}
	userID, err := participant.WhoseTurn(h.DB, a.ID)
	if err != nil {
		http.Error(w, "failed to resolve turn", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, turnDTO{UserID: userID})
}

// CounterOffersList handles GET /agreements/{id}/counter-offers.
func (h *Handler) CounterOffersList(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForViewer(w, r)
	if !ok {
		return
	}
	list, err := CounterOffers(h.DB, a.ID)
	if err != nil {
		http.Error(w, "failed to list counter offers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// LatestCounterOffer handles GET /agreements/{id}/counter-offers/latest.
func (h *Handler) LatestCounterOffer(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForViewer(w, r)
	if !ok {
		return
	}
	latest, err := MostRecentCounterOffer(h.DB, a.ID)
	if err != nil {
		http.Error(w, "failed to resolve latest counter offer", http.StatusInternalServerError)
		return
	}
	if latest == nil {
		http.Error(w, "no counter offers", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

// Cost handles GET /agreements/{id}/cost.
func (h *Handler) Cost(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForViewer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, costDTO{
		DurationInWeeks: DurationInWeeks(a),
		TotalCost:       TotalCost(a),
	})
}
