package agreement

import (
	"testing"
	"time"

	"github.com/CoFoundry/api-collaboration/internal/models"
	"github.com/CoFoundry/api-collaboration/internal/project"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&project.Project{},
		&project.Milestone{},
		&models.Agreement{},
		&models.Participant{},
	))
	return db
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// mentorshipDraft is a valid hourly mentorship proposal.
func mentorshipDraft() *models.Agreement {
	return &models.Agreement{
		ProjectID:    1,
		PaymentType:  models.PaymentHourly,
		HourlyRate:   floatPtr(50),
		WeeklyHours:  intPtr(10),
		MilestoneIDs: []uint{1},
		StartDate:    date(2025, 1, 1),
		EndDate:      date(2025, 1, 29),
		Tasks:        "Weekly mentoring sessions and code review",
	}
}

// cofounderDraft is a valid equity co-founder proposal.
func cofounderDraft() *models.Agreement {
	return &models.Agreement{
		ProjectID:        1,
		AgreementType:    models.TypeCoFounder,
		PaymentType:      models.PaymentEquity,
		EquityPercentage: floatPtr(15),
		StartDate:        date(2025, 2, 1),
		EndDate:          date(2026, 2, 1),
		Tasks:            "Lead product and fundraising",
	}
}

const (
	ownerID  = uint(1)
	mentorID = uint(2)
)

// createAgreement persists a fresh agreement between the owner (initiator)
// and the mentor, turn with the mentor.
func createAgreement(t *testing.T, db *gorm.DB, draft *models.Agreement) *models.Agreement {
	t.Helper()
	err := Create(db, draft,
		PartySpec{UserID: ownerID, Role: models.RoleEntrepreneur},
		PartySpec{UserID: mentorID, Role: models.RoleMentor},
	)
	require.NoError(t, err)
	return draft
}

func fieldsOf(errs ValidationErrors) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}
