package agreement

import (
	"errors"

	"github.com/CoFoundry/api-collaboration/internal/models"
	"gorm.io/gorm"
)

// Business-rule failures of the status machine. State is left unchanged when
// any of these is returned.
var (
	ErrNotPending  = errors.New("agreement is not pending")
	ErrNotAccepted = errors.New("agreement is not accepted")
	ErrNotYourTurn = errors.New("it is not this participant's turn to act")
)

// Accept moves a Pending agreement to Accepted.
func Accept(db *gorm.DB, agreementID uint) error {
	return transition(db, agreementID, models.StatusPending, models.StatusAccepted, ErrNotPending)
}

// Reject moves a Pending agreement to Rejected.
func Reject(db *gorm.DB, agreementID uint) error {
	return transition(db, agreementID, models.StatusPending, models.StatusRejected, ErrNotPending)
}

// Complete moves an Accepted agreement to Completed.
func Complete(db *gorm.DB, agreementID uint) error {
	return transition(db, agreementID, models.StatusAccepted, models.StatusCompleted, ErrNotAccepted)
}

// Cancel moves a Pending agreement to Cancelled.
func Cancel(db *gorm.DB, agreementID uint) error {
	return transition(db, agreementID, models.StatusPending, models.StatusCancelled, ErrNotPending)
}

// transition performs a compare-and-set on the status column. Zero affected
// rows means either a wrong current status (precondition failure) or a missing
// agreement; the two are kept distinct for the caller.
func transition(db *gorm.DB, agreementID uint, from, to string, precondition error) error {
	res := db.Model(&models.Agreement{}).
		Where("id = ? AND status = ?", agreementID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var a models.Agreement
		if err := db.Select("id").First(&a, agreementID).Error; err != nil {
			return err // gorm.ErrRecordNotFound for a missing agreement
		}
		return precondition
	}
	return nil
}
