package participant

import (
	"github.com/CoFoundry/api-collaboration/internal/models"
	"gorm.io/gorm"
)

// PassTurnTo points every participant row of the agreement at the given user
// in one batch update. Either all rows see the new turn holder or none do; a
// half-applied turn would let both parties believe it is their turn.
func PassTurnTo(db *gorm.DB, agreementID, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Participant{}).
			Where("agreement_id = ?", agreementID).
			Update("accept_or_counter_turn_id", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// WhoseTurn returns the user currently allowed to act on the agreement. Any
// row can answer because the pointer is identical across all of them.
func WhoseTurn(db *gorm.DB, agreementID uint) (uint, error) {
	var p models.Participant
	if err := db.Where("agreement_id = ?", agreementID).First(&p).Error; err != nil {
		return 0, err
	}
	return p.AcceptOrCounterTurnID, nil
}

// IsTurnToAct reports whether it is this participant's turn.
func IsTurnToAct(p *models.Participant) bool {
	return p.AcceptOrCounterTurnID == p.UserID
}

// CanAcceptOrCounter reports whether this participant may accept, reject or
// counter the agreement right now: it must hold the turn and the agreement
// must still be pending.
func CanAcceptOrCounter(p *models.Participant, a *models.Agreement) bool {
	return IsTurnToAct(p) && a.Status == models.StatusPending
}
