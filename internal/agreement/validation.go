package agreement

import (
	"fmt"
	"strings"

	"github.com/CoFoundry/api-collaboration/internal/models"
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed rule of a draft so the caller can
// render them all at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// PartySpec identifies one party of a new agreement and the role the
// creation-time policy assigned to it.
type PartySpec struct {
	UserID uint
	Role   string
}

// RoleFor applies the creation-time role policy: the project owner is the
// entrepreneur, the other party is named after the agreement type.
func RoleFor(isProjectOwner bool, agreementType string) string {
	if isProjectOwner {
		return models.RoleEntrepreneur
	}
	if agreementType == models.TypeCoFounder {
		return models.RoleCoFounder
	}
	return models.RoleMentor
}

// Normalize applies the creation-time defaults to a brand-new draft: a blank
// status becomes Pending and a blank type is inferred from the presence of
// weekly hours. It never overrides an explicitly supplied value and must not
// be called on updates.
func Normalize(a *models.Agreement) {
	if strings.TrimSpace(a.Status) == "" {
		a.Status = models.StatusPending
	}
	if strings.TrimSpace(a.AgreementType) == "" {
		if a.WeeklyHours != nil {
			a.AgreementType = models.TypeMentorship
		} else {
			a.AgreementType = models.TypeCoFounder
		}
	}
}

var validStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusAccepted:  true,
	models.StatusRejected:  true,
	models.StatusCompleted: true,
	models.StatusCancelled: true,
	models.StatusCountered: true,
}

// Validate checks an agreement draft against the type- and payment-conditional
// rules. It returns nil when the draft is acceptable.
func Validate(a *models.Agreement) ValidationErrors {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if a.AgreementType != models.TypeMentorship && a.AgreementType != models.TypeCoFounder {
		add("agreementType", fmt.Sprintf("must be %q or %q", models.TypeMentorship, models.TypeCoFounder))
	}
	if !validStatuses[a.Status] {
		add("status", "is not a valid status")
	}

	switch a.PaymentType {
	case models.PaymentHourly:
		if a.HourlyRate == nil {
			add("hourlyRate", "is required for hourly payment")
		} else if *a.HourlyRate < 0 {
			add("hourlyRate", "must be greater than or equal to 0")
		}
	case models.PaymentEquity:
		if a.EquityPercentage == nil {
			add("equityPercentage", "is required for equity payment")
		} else if *a.EquityPercentage < 0 || *a.EquityPercentage > 100 {
			add("equityPercentage", "must be between 0 and 100")
		}
	case models.PaymentHybrid:
		if a.HourlyRate == nil {
			add("hourlyRate", "is required for hybrid payment")
		} else if *a.HourlyRate < 0 {
			add("hourlyRate", "must be greater than or equal to 0")
		}
		if a.EquityPercentage == nil {
			add("equityPercentage", "is required for hybrid payment")
		} else if *a.EquityPercentage < 0 || *a.EquityPercentage > 100 {
			add("equityPercentage", "must be between 0 and 100")
		}
	case "":
		add("paymentType", "is required")
	default:
		add("paymentType", fmt.Sprintf("must be %q, %q or %q", models.PaymentHourly, models.PaymentEquity, models.PaymentHybrid))
	}

	if a.AgreementType == models.TypeMentorship {
		if a.WeeklyHours == nil {
			add("weeklyHours", "is required for mentorship agreements")
		} else if *a.WeeklyHours <= 0 || *a.WeeklyHours > 40 {
			add("weeklyHours", "must be between 1 and 40")
		}
		if len(a.MilestoneIDs) == 0 {
			add("milestoneIds", "at least one milestone is required for mentorship agreements")
		}
	}

	if a.StartDate.IsZero() {
		add("startDate", "is required")
	}
	if a.EndDate.IsZero() {
		add("endDate", "is required")
	}
	if !a.StartDate.IsZero() && !a.EndDate.IsZero() && a.EndDate.Before(a.StartDate) {
		add("endDate", "must be on or after the start date")
	}

	if strings.TrimSpace(a.Tasks) == "" {
		add("tasks", "is required")
	}

	return errs
}

// ValidateParties checks the participant pair of a new agreement: exactly two
// distinct users, each with a role, exactly one initiator.
func ValidateParties(initiator, other PartySpec) ValidationErrors {
	var errs ValidationErrors
	if initiator.UserID == 0 {
		errs = append(errs, FieldError{Field: "initiator.userId", Message: "is required"})
	}
	if other.UserID == 0 {
		errs = append(errs, FieldError{Field: "other.userId", Message: "is required"})
	}
	if initiator.UserID != 0 && initiator.UserID == other.UserID {
		errs = append(errs, FieldError{Field: "other.userId", Message: "both parties must be distinct users"})
	}
	if strings.TrimSpace(initiator.Role) == "" {
		errs = append(errs, FieldError{Field: "initiator.userRole", Message: "is required"})
	}
	if strings.TrimSpace(other.Role) == "" {
		errs = append(errs, FieldError{Field: "other.userRole", Message: "is required"})
	}
	return errs
}
