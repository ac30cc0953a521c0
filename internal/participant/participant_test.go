package participant

import (
	"testing"

	"github.com/CoFoundry/api-collaboration/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Agreement{}, &models.Participant{}))
	return db
}

// seedPair creates an agreement with two participant rows, turn with the
// second user.
func seedPair(t *testing.T, db *gorm.DB, status string) (*models.Agreement, *models.Participant, *models.Participant) {
	t.Helper()
	a := &models.Agreement{
		ProjectID:     1,
		AgreementType: models.TypeMentorship,
		Status:        status,
		PaymentType:   models.PaymentHourly,
	}
	require.NoError(t, db.Create(a).Error)

	initiator := &models.Participant{
		AgreementID:           a.ID,
		UserID:                1,
		ProjectID:             a.ProjectID,
		UserRole:              models.RoleEntrepreneur,
		IsInitiator:           true,
		AcceptOrCounterTurnID: 2,
	}
	other := &models.Participant{
		AgreementID:           a.ID,
		UserID:                2,
		ProjectID:             a.ProjectID,
		UserRole:              models.RoleMentor,
		AcceptOrCounterTurnID: 2,
	}
	require.NoError(t, db.Create(initiator).Error)
	require.NoError(t, db.Create(other).Error)
	return a, initiator, other
}

func TestPassTurnToUpdatesEveryRow(t *testing.T) {
	db := setupDB(t)
	a, _, _ := seedPair(t, db, models.StatusPending)

	require.NoError(t, PassTurnTo(db, a.ID, 1))

	var rows []models.Participant
	require.NoError(t, db.Where("agreement_id = ?", a.ID).Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, p := range rows {
		assert.Equal(t, uint(1), p.AcceptOrCounterTurnID)
	}

	turn, err := WhoseTurn(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), turn)
}

func TestPassTurnToLeavesOtherAgreementsAlone(t *testing.T) {
	db := setupDB(t)
	a, _, _ := seedPair(t, db, models.StatusPending)
	b, _, _ := seedPair(t, db, models.StatusPending)

	require.NoError(t, PassTurnTo(db, a.ID, 1))

	turn, err := WhoseTurn(db, b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), turn)
}

func TestPassTurnToMissingAgreement(t *testing.T) {
	db := setupDB(t)
	err := PassTurnTo(db, 42, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWhoseTurnMissingAgreement(t *testing.T) {
	db := setupDB(t)
	_, err := WhoseTurn(db, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIsTurnToAct(t *testing.T) {
	_, initiator, other := seedPair(t, setupDB(t), models.StatusPending)
	assert.False(t, IsTurnToAct(initiator))
	assert.True(t, IsTurnToAct(other))
}

func TestCanAcceptOrCounter(t *testing.T) {
	db := setupDB(t)

	pending, _, holder := seedPair(t, db, models.StatusPending)
	assert.True(t, CanAcceptOrCounter(holder, pending))

	// Holding the turn is not enough once the agreement left Pending.
	for _, status := range []string{
		models.StatusAccepted,
		models.StatusRejected,
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusCountered,
	} {
		a, _, p := seedPair(t, db, status)
		assert.False(t, CanAcceptOrCounter(p, a), "status %s", status)
	}

	// Pending but out of turn.
	a, initiator, _ := seedPair(t, db, models.StatusPending)
	assert.False(t, CanAcceptOrCounter(initiator, a))
}

func TestFindInitiator(t *testing.T) {
	db := setupDB(t)
	a, initiator, _ := seedPair(t, db, models.StatusPending)

	found, err := FindInitiator(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, initiator.UserID, found.UserID)
	assert.True(t, found.IsInitiator)
}

func TestFindOtherParty(t *testing.T) {
	db := setupDB(t)
	a, initiator, other := seedPair(t, db, models.StatusPending)

	found, err := FindOtherParty(db, a.ID, initiator.UserID)
	require.NoError(t, err)
	assert.Equal(t, other.UserID, found.UserID)

	found, err = FindOtherParty(db, a.ID, other.UserID)
	require.NoError(t, err)
	assert.Equal(t, initiator.UserID, found.UserID)
}

func TestOtherParticipants(t *testing.T) {
	db := setupDB(t)
	_, initiator, other := seedPair(t, db, models.StatusPending)

	list, err := OtherParticipants(db, initiator)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.UserID, list[0].UserID)
}

func TestCanViewFullProjectDetails(t *testing.T) {
	db := setupDB(t)
	a, _, _ := seedPair(t, db, models.StatusPending)

	canView, err := CanViewFullProjectDetails(db, a.ID, 1)
	require.NoError(t, err)
	assert.True(t, canView)

	canView, err = CanViewFullProjectDetails(db, a.ID, 99)
	require.NoError(t, err)
	assert.False(t, canView)
}

func TestRepositoryLookups(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository()
	a, _, other := seedPair(t, db, models.StatusPending)

	list, err := repo.ListByAgreement(db, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	mine, err := repo.ListByUser(db, other.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].AgreementID)

	p, err := repo.FindByAgreementAndUser(db, a.ID, other.UserID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, p.ID)

	_, err = repo.FindByAgreementAndUser(db, a.ID, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
