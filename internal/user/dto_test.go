package user

import (
	"testing"
	"time"

	"github.com/CoFoundry/api-collaboration/internal/models"
	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildUserSummaryDTO(t *testing.T) {
	u := User{Name: "Dana", Surname: "Reyes", Email: "dana@example.org"}
	u.ID = 7

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	hourly := func(status string) models.Agreement {
		return models.Agreement{
			Status:      status,
			PaymentType: models.PaymentHourly,
			HourlyRate:  floatPtr(100),
			WeeklyHours: intPtr(5),
			StartDate:   start,
			EndDate:     start.AddDate(0, 0, 14), // 2 weeks
		}
	}

	agreements := []models.Agreement{
		hourly(models.StatusAccepted),  // 2 * 5 * 100 = 1000
		hourly(models.StatusCompleted), // another 1000
		hourly(models.StatusPending),   // counted, not valued
		hourly(models.StatusRejected),  // ignored
		{Status: models.StatusAccepted, PaymentType: models.PaymentEquity, EquityPercentage: floatPtr(10)},
	}

	dto := BuildUserSummaryDTO(u, agreements)

	assert.Equal(t, uint(7), dto.ID)
	assert.Equal(t, "Dana", dto.Name)
	assert.Equal(t, 2, dto.ActiveAgreements)
	assert.Equal(t, 1, dto.PendingProposals)
	assert.Equal(t, 1, dto.CompletedAgreements)
	assert.InDelta(t, 2000.0, dto.ContractedValue, 0.001)
}
