// models/participant.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles assigned by the creation-time policy
const (
	RoleEntrepreneur = "entrepreneur"
	RoleMentor       = "mentor"
	RoleCoFounder    = "co_founder"
)

// Participant is one party's membership row within an Agreement. A user appears
// at most once per agreement. AcceptOrCounterTurnID is denormalized across all
// rows of the same agreement and must only be written through
// participant.PassTurnTo, never row by row.
type Participant struct {
	ID        uint           `gorm:"primaryKey" json:"participantId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	AgreementID uint `gorm:"not null;uniqueIndex:idx_participant_agreement_user" json:"agreementId"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_participant_agreement_user;index" json:"userId"`
	ProjectID   uint `gorm:"index" json:"projectId"` // denormalized from Agreement for query convenience

	UserRole    string `gorm:"size:50;not null" json:"userRole"` // "entrepreneur" | "mentor" | "co_founder"
	IsInitiator bool   `gorm:"not null" json:"isInitiator"`

	// Back-reference to the agreement this participant's agreement counters.
	// Set only on the counter-proposer's row of a counter-offer; nil otherwise.
	CounterAgreementID *uint `gorm:"index" json:"counterAgreementId"`

	// User whose turn it currently is to accept or counter.
	AcceptOrCounterTurnID uint `gorm:"index" json:"acceptOrCounterTurnId"`
}
