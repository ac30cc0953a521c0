package participant

import (
	"errors"

	"github.com/CoFoundry/api-collaboration/internal/models"
	"gorm.io/gorm"
)

// FindInitiator returns the participant row flagged as the initiator of the
// agreement.
func FindInitiator(db *gorm.DB, agreementID uint) (*models.Participant, error) {
	var p models.Participant
	err := db.Where("agreement_id = ? AND is_initiator = ?", agreementID, true).First(&p).Error
	return &p, err
}

// FindOtherParty returns the participant of the agreement that is not the
// given user.
func FindOtherParty(db *gorm.DB, agreementID, userID uint) (*models.Participant, error) {
	var p models.Participant
	err := db.Where("agreement_id = ? AND user_id <> ?", agreementID, userID).First(&p).Error
	return &p, err
}

// OtherParticipants lists every participant row of the same agreement except
// the given one.
func OtherParticipants(db *gorm.DB, p *models.Participant) ([]models.Participant, error) {
	var list []models.Participant
	err := db.Where("agreement_id = ? AND id <> ?", p.AgreementID, p.ID).Find(&list).Error
	return list, err
}

// CanViewFullProjectDetails reports whether the user is one of the
// agreement's participants.
func CanViewFullProjectDetails(db *gorm.DB, agreementID, userID uint) (bool, error) {
	var p models.Participant
	err := db.Where("agreement_id = ? AND user_id = ?", agreementID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
