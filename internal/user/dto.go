package user

import (
	"github.com/CoFoundry/api-collaboration/internal/agreement"
	"github.com/CoFoundry/api-collaboration/internal/models"
)

type UserSummaryDTO struct {
	ID                  uint    `json:"id"`
	Name                string  `json:"name"`
	Surname             string  `json:"surname"`
	Email               string  `json:"email"`
	Headline            string  `json:"headline"`
	Photo               string  `json:"photo"`
	ActiveAgreements    int     `json:"activeAgreements"`
	PendingProposals    int     `json:"pendingProposals"`
	CompletedAgreements int     `json:"completedAgreements"`
	ContractedValue     float64 `json:"contractedValue"` // hourly value of accepted agreements
}

// BuildUserSummaryDTO aggregates a user's negotiation activity.
func BuildUserSummaryDTO(u User, agreements []models.Agreement) UserSummaryDTO {
	var active, pending, completed int
	var value float64

	for i := range agreements {
		a := &agreements[i]
		switch a.Status {
		case models.StatusAccepted:
			active++
			value += agreement.TotalCost(a)
		case models.StatusPending:
			pending++
		case models.StatusCompleted:
			completed++
			value += agreement.TotalCost(a)
		}
	}

	return UserSummaryDTO{
		ID:                  u.ID,
		Name:                u.Name,
		Surname:             u.Surname,
		Email:               u.Email,
		Headline:            u.Headline,
		Photo:               u.Photo,
		ActiveAgreements:    active,
		PendingProposals:    pending,
		CompletedAgreements: completed,
		ContractedValue:     value,
	}
}
