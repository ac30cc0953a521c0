package agreement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CoFoundry/api-collaboration/internal/auth"
	"github.com/CoFoundry/api-collaboration/internal/models"
	"github.com/CoFoundry/api-collaboration/internal/project"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestRouter serves the agreement routes with a fixed authenticated user.
func newTestRouter(h *Handler, userID uint) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/agreements", h.Create).Methods("POST")
	r.HandleFunc("/agreements/{id}", h.GetByID).Methods("GET")
	r.HandleFunc("/agreements/{id}/accept", h.Accept).Methods("POST")
	r.HandleFunc("/agreements/{id}/reject", h.Reject).Methods("POST")
	r.HandleFunc("/agreements/{id}/counter", h.Counter).Methods("POST")
	r.HandleFunc("/agreements/{id}/pass-turn", h.PassTurn).Methods("POST")
	r.HandleFunc("/agreements/{id}/turn", h.WhoseTurn).Methods("GET")
	r.HandleFunc("/agreements/{id}/cost", h.Cost).Methods("GET")

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := context.WithValue(req.Context(), auth.CtxUserID, userID)
		ctx = context.WithValue(ctx, auth.CtxIsAdmin, false)
		r.ServeHTTP(w, req.WithContext(ctx))
	})
}

func seedProject(t *testing.T, db *gorm.DB) *project.Project {
	t.Helper()
	p := &project.Project{OwnerID: ownerID, Name: "Solar fleet tracker"}
	require.NoError(t, db.Create(p).Error)
	return p
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAgreementEndpoint(t *testing.T) {
	db := setupDB(t)
	p := seedProject(t, db)
	h := NewHandler(db)
	asOwner := newTestRouter(h, ownerID)

	rec := do(t, asOwner, "POST", "/agreements", map[string]any{
		"projectId":    p.ID,
		"paymentType":  models.PaymentHourly,
		"hourlyRate":   50,
		"weeklyHours":  10,
		"milestoneIds": []uint{1},
		"startDate":    "2025-01-01",
		"endDate":      "2025-01-29",
		"tasks":        "Weekly mentoring sessions",
		"otherUserId":  mentorID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Agreement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.TypeMentorship, created.AgreementType)
	require.Len(t, created.Participants, 2)
	for _, part := range created.Participants {
		assert.Equal(t, mentorID, part.AcceptOrCounterTurnID)
	}
}

func TestCreateAgreementEndpointValidation(t *testing.T) {
	db := setupDB(t)
	p := seedProject(t, db)
	h := NewHandler(db)
	asOwner := newTestRouter(h, ownerID)

	rec := do(t, asOwner, "POST", "/agreements", map[string]any{
		"projectId":   p.ID,
		"paymentType": models.PaymentHourly,
		"startDate":   "2025-01-01",
		"endDate":     "2025-01-29",
		"tasks":       "Weekly mentoring sessions",
		"otherUserId": mentorID,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors []FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Errors)
	assert.Equal(t, "hourlyRate", body.Errors[0].Field)
}

// A participant who does not hold the turn cannot accept; the agreement stays
// pending.
func TestAcceptOutOfTurn(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	// Turn is with the mentor; the owner tries anyway.
	asOwner := newTestRouter(h, ownerID)
	rec := do(t, asOwner, "POST", fmt.Sprintf("/agreements/%d/accept", a.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.StatusPending, statusOf(t, db, a.ID))
}

func TestAcceptInTurn(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	asMentor := newTestRouter(h, mentorID)
	rec := do(t, asMentor, "POST", fmt.Sprintf("/agreements/%d/accept", a.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.StatusAccepted, statusOf(t, db, a.ID))

	// Accepting again is a precondition violation, not a crash.
	rec = do(t, asMentor, "POST", fmt.Sprintf("/agreements/%d/accept", a.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAcceptByOutsider(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	asStranger := newTestRouter(h, 99)
	rec := do(t, asStranger, "POST", fmt.Sprintf("/agreements/%d/accept", a.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCounterEndpoint(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	asMentor := newTestRouter(h, mentorID)
	rec := do(t, asMentor, "POST", fmt.Sprintf("/agreements/%d/counter", a.ID), map[string]any{
		"paymentType":  models.PaymentHourly,
		"hourlyRate":   80,
		"weeklyHours":  8,
		"milestoneIds": []uint{1},
		"startDate":    "2025-01-01",
		"endDate":      "2025-01-29",
		"tasks":        "Fewer hours at a higher rate",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var counter models.Agreement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counter))

	back, err := CounterTo(db, counter.ID)
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.Equal(t, a.ID, back.ID)
	assert.Equal(t, models.StatusCountered, statusOf(t, db, a.ID))

	// The original can no longer be countered either.
	rec = do(t, asMentor, "POST", fmt.Sprintf("/agreements/%d/counter", a.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCounterOutOfTurn(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	asOwner := newTestRouter(h, ownerID)
	rec := do(t, asOwner, "POST", fmt.Sprintf("/agreements/%d/counter", a.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPassTurnEndpoint(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	asMentor := newTestRouter(h, mentorID)
	rec := do(t, asMentor, "POST", fmt.Sprintf("/agreements/%d/pass-turn", a.ID), map[string]any{
		"userId": ownerID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Every participant row agrees on the new holder.
	var parts []models.Participant
	require.NoError(t, db.Where("agreement_id = ?", a.ID).Find(&parts).Error)
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.Equal(t, ownerID, p.AcceptOrCounterTurnID)
	}

	// Handing the turn to a non-participant is refused.
	rec = do(t, asMentor, "POST", fmt.Sprintf("/agreements/%d/pass-turn", a.ID), map[string]any{
		"userId": 77,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCostEndpoint(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	asMentor := newTestRouter(h, mentorID)
	rec := do(t, asMentor, "GET", fmt.Sprintf("/agreements/%d/cost", a.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cost costDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cost))
	assert.Equal(t, 4, cost.DurationInWeeks)
	assert.InDelta(t, 2000.0, cost.TotalCost, 0.001)
}

func TestWhoseTurnEndpoint(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db)
	a := createAgreement(t, db, mentorshipDraft())

	asOwner := newTestRouter(h, ownerID)
	rec := do(t, asOwner, "GET", fmt.Sprintf("/agreements/%d/turn", a.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var turn turnDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	assert.Equal(t, mentorID, turn.UserID)
}
