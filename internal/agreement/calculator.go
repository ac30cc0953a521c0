package agreement

import "github.com/CoFoundry/api-collaboration/internal/models"

// DurationInWeeks returns the whole weeks spanned by the agreement's date
// range, any started week counting as one. Invalid ranges yield 0.
func DurationInWeeks(a *models.Agreement) int {
	if a.StartDate.IsZero() || a.EndDate.IsZero() || a.EndDate.Before(a.StartDate) {
		return 0
	}
	days := int(a.EndDate.Sub(a.StartDate).Hours() / 24)
	return (days + 6) / 7
}

// TotalCost is the hourly cost over the agreement's duration. Pure equity
// agreements carry no hourly component and cost 0 here.
func TotalCost(a *models.Agreement) float64 {
	if a.PaymentType == models.PaymentEquity {
		return 0
	}
	if a.HourlyRate == nil || a.WeeklyHours == nil {
		return 0
	}
	return float64(DurationInWeeks(a)) * float64(*a.WeeklyHours) * *a.HourlyRate
}
