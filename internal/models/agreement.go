// models/agreement.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Agreement types
const (
	TypeMentorship = "Mentorship"
	TypeCoFounder  = "CoFounder"
)

// Agreement lifecycle statuses
const (
	StatusPending   = "Pending"
	StatusAccepted  = "Accepted"
	StatusRejected  = "Rejected"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
	StatusCountered = "Countered"
)

// Payment structures
const (
	PaymentHourly = "Hourly"
	PaymentEquity = "Equity"
	PaymentHybrid = "Hybrid"
)

// Agreement is a collaboration proposal between two parties of a project.
type Agreement struct {
	ID        uint           `gorm:"primaryKey" json:"agreementId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	ProjectID uint `gorm:"not null;index" json:"projectId"`

	AgreementType string `gorm:"size:50" json:"agreementType"` // "Mentorship" | "CoFounder"
	Status        string `gorm:"size:50;index" json:"status"`  // "Pending", "Accepted", ...
	PaymentType   string `gorm:"size:50" json:"paymentType"`   // "Hourly" | "Equity" | "Hybrid"

	HourlyRate       *float64 `json:"hourlyRate"`       // required for Hourly/Hybrid
	EquityPercentage *float64 `json:"equityPercentage"` // required for Equity/Hybrid, 0-100
	WeeklyHours      *int     `json:"weeklyHours"`      // required for Mentorship, 1-40

	// Milestone references covered by a mentorship, stored as JSONB
	MilestoneIDs []uint `gorm:"type:jsonb;serializer:json" json:"milestoneIds"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Tasks string `gorm:"type:text" json:"tasks"`
	Terms string `gorm:"type:text" json:"terms"`

	Participants []Participant `gorm:"foreignKey:AgreementID;constraint:OnDelete:CASCADE" json:"participants"`
}
