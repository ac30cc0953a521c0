package agreement

import (
	"time"

	"github.com/CoFoundry/api-collaboration/internal/models"
)

const dateLayout = "2006-01-02"

// agreementDraftDTO is the payload for creating an agreement or a
// counter-offer. Dates travel as "YYYY-MM-DD".
type agreementDraftDTO struct {
	ProjectID        uint     `json:"projectId"`
	AgreementType    string   `json:"agreementType"`
	Status           string   `json:"status"`
	PaymentType      string   `json:"paymentType"`
	HourlyRate       *float64 `json:"hourlyRate"`
	EquityPercentage *float64 `json:"equityPercentage"`
	WeeklyHours      *int     `json:"weeklyHours"`
	MilestoneIDs     []uint   `json:"milestoneIds"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Tasks            string   `json:"tasks"`
	Terms            string   `json:"terms"`

	// Only meaningful on POST /agreements: the party being proposed to.
	OtherUserID uint `json:"otherUserId"`
}

// toModel maps the DTO onto a draft. Unparseable dates are reported as field
// errors and left zero so validation can flag them alongside everything else.
func (dto *agreementDraftDTO) toModel() (*models.Agreement, ValidationErrors) {
	var errs ValidationErrors
	a := &models.Agreement{
		ProjectID:        dto.ProjectID,
		AgreementType:    dto.AgreementType,
		Status:           dto.Status,
		PaymentType:      dto.PaymentType,
		HourlyRate:       dto.HourlyRate,
		EquityPercentage: dto.EquityPercentage,
		WeeklyHours:      dto.WeeklyHours,
		MilestoneIDs:     dto.MilestoneIDs,
		Tasks:            dto.Tasks,
		Terms:            dto.Terms,
	}
	if dto.StartDate != "" {
		t, err := time.Parse(dateLayout, dto.StartDate)
		if err != nil {
			errs = append(errs, FieldError{Field: "startDate", Message: "must be a date in YYYY-MM-DD format"})
		} else {
			a.StartDate = t
		}
	}
	if dto.EndDate != "" {
		t, err := time.Parse(dateLayout, dto.EndDate)
		if err != nil {
			errs = append(errs, FieldError{Field: "endDate", Message: "must be a date in YYYY-MM-DD format"})
		} else {
			a.EndDate = t
		}
	}
	return a, errs
}

type passTurnRequest struct {
	UserID uint `json:"userId"`
}

type costDTO struct {
	DurationInWeeks int     `json:"durationInWeeks"`
	TotalCost       float64 `json:"totalCost"`
}

type turnDTO struct {
	UserID uint `json:"userId"`
}
