// Package models contains the domain models for the rental service.
package models

import (
	"time"
)

// RentalApplication is the durable record of one accepted rental request.
// Applications are immutable once created; there is no update or delete.
type RentalApplication struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	Email              *string   `json:"email,omitempty"`
	StartDate          Date      `json:"startDate"`
	EndDate            Date      `json:"endDate"`
	RentalPeriod       string    `json:"rentalPeriod"`
	AdditionalRequests *string   `json:"additionalRequests,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// StartsOn reports whether the rental begins on the given day.
func (a *RentalApplication) StartsOn(day Date) bool {
	return a.StartDate.Equal(day)
}

// RentalDays returns every reserved day of the application's range.
func (a *RentalApplication) RentalDays() []Date {
	return ExpandRange(a.StartDate, a.EndDate)
}

// ReservedDate marks a single calendar day as taken, attributed to the
// application that claimed it. At most one entry exists per date.
type ReservedDate struct {
	Date          Date   `json:"date"`
	ApplicationID string `json:"applicationId"`
}
