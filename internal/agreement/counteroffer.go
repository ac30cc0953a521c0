package agreement

import (
	"errors"

	"github.com/CoFoundry/api-collaboration/internal/models"
	"gorm.io/gorm"
)

// ErrNotParticipant is returned when the acting user has no participant row on
// the agreement in question.
var ErrNotParticipant = errors.New("user is not a participant of this agreement")

// Create validates a brand-new draft and persists the agreement together with
// its two participant rows in one transaction. The first turn goes to the
// non-initiating party.
func Create(db *gorm.DB, draft *models.Agreement, initiator, other PartySpec) error {
	Normalize(draft)
	if errs := Validate(draft); errs != nil {
		return errs
	}
	if errs := ValidateParties(initiator, other); errs != nil {
		return errs
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(draft).Error; err != nil {
			return err
		}
		parties := []models.Participant{
			{
				AgreementID:           draft.ID,
				UserID:                initiator.UserID,
				ProjectID:             draft.ProjectID,
				UserRole:              initiator.Role,
				IsInitiator:           true,
				AcceptOrCounterTurnID: other.UserID,
			},
			{
				AgreementID:           draft.ID,
				UserID:                other.UserID,
				ProjectID:             draft.ProjectID,
				UserRole:              other.Role,
				IsInitiator:           false,
				AcceptOrCounterTurnID: other.UserID,
			},
		}
		if err := tx.Create(&parties).Error; err != nil {
			return err
		}
		draft.Participants = parties
		return nil
	})
}

// CreateCounterOffer builds a new, independently validated agreement that
// counters an existing one. The proposer's row carries the back-reference and
// the initiator flag; the turn goes to the other party. The original, if still
// Pending, is moved to Countered in the same transaction.
func CreateCounterOffer(db *gorm.DB, original *models.Agreement, proposerID uint, draft *models.Agreement) error {
	var originalParties []models.Participant
	if err := db.Where("agreement_id = ?", original.ID).Find(&originalParties).Error; err != nil {
		return err
	}

	var proposer, other *models.Participant
	for i := range originalParties {
		if originalParties[i].UserID == proposerID {
			proposer = &originalParties[i]
		} else {
			other = &originalParties[i]
		}
	}
	if proposer == nil || other == nil {
		return ErrNotParticipant
	}

	draft.ProjectID = original.ProjectID
	Normalize(draft)
	if errs := Validate(draft); errs != nil {
		return errs
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(draft).Error; err != nil {
			return err
		}
		counterID := original.ID
		parties := []models.Participant{
			{
				AgreementID:           draft.ID,
				UserID:                proposer.UserID,
				ProjectID:             draft.ProjectID,
				UserRole:              proposer.UserRole,
				IsInitiator:           true,
				CounterAgreementID:    &counterID,
				AcceptOrCounterTurnID: other.UserID,
			},
			{
				AgreementID:           draft.ID,
				UserID:                other.UserID,
				ProjectID:             draft.ProjectID,
				UserRole:              other.UserRole,
				IsInitiator:           false,
				AcceptOrCounterTurnID: other.UserID,
			},
		}
		if err := tx.Create(&parties).Error; err != nil {
			return err
		}
		draft.Participants = parties

		// A Pending original becomes Countered; one already countered by a
		// sibling proposal stays as it is.
		res := tx.Model(&models.Agreement{}).
			Where("id = ? AND status = ?", original.ID, models.StatusPending).
			Update("status", models.StatusCountered)
		return res.Error
	})
}

// IsCounterOffer reports whether any participant row of the agreement carries
// a counter back-reference.
func IsCounterOffer(db *gorm.DB, agreementID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Participant{}).
		Where("agreement_id = ? AND counter_agreement_id IS NOT NULL", agreementID).
		Count(&count).Error
	return count > 0, err
}

// CounterTo returns the original agreement this one counters, or nil when it
// is an original proposal itself.
func CounterTo(db *gorm.DB, agreementID uint) (*models.Agreement, error) {
	var p models.Participant
	err := db.Where("agreement_id = ? AND counter_agreement_id IS NOT NULL", agreementID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var original models.Agreement
	if err := db.Preload("Participants").First(&original, *p.CounterAgreementID).Error; err != nil {
		return nil, err
	}
	return &original, nil
}

// CounterOffers lists every agreement countering the given one, oldest first.
func CounterOffers(db *gorm.DB, originalID uint) ([]models.Agreement, error) {
	var list []models.Agreement
	err := db.
		Joins("JOIN participants ON participants.agreement_id = agreements.id").
		Where("participants.counter_agreement_id = ? AND participants.deleted_at IS NULL", originalID).
		Order("agreements.created_at, agreements.id").
		Preload("Participants").
		Find(&list).Error
	return list, err
}

// HasCounterOffers reports whether at least one counter-offer exists against
// the given agreement.
func HasCounterOffers(db *gorm.DB, originalID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Participant{}).
		Where("counter_agreement_id = ?", originalID).
		Count(&count).Error
	return count > 0, err
}

// MostRecentCounterOffer returns the latest direct counter of the agreement by
// creation time, highest ID breaking ties. Nil when none exist.
func MostRecentCounterOffer(db *gorm.DB, originalID uint) (*models.Agreement, error) {
	var a models.Agreement
	err := db.
		Joins("JOIN participants ON participants.agreement_id = agreements.id").
		Where("participants.counter_agreement_id = ? AND participants.deleted_at IS NULL", originalID).
		Order("agreements.created_at DESC, agreements.id DESC").
		Preload("Participants").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
