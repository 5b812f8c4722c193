// Package reservation implements the rental reservation engine: it
// validates submissions, decides whether a requested date range is
// free and commits accepted ranges atomically.
package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/camping-heater-rental/backend/internal/storage"
	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// SubmitApplicationInput carries the fields of one rental request.
type SubmitApplicationInput struct {
	Name               string `json:"name" validate:"required"`
	Phone              string `json:"phone" validate:"required"`
	Email              string `json:"email" validate:"omitempty,email"`
	StartDate          string `json:"startDate" validate:"required"`
	EndDate            string `json:"endDate" validate:"required"`
	RentalPeriod       string `json:"rentalPeriod" validate:"required"`
	AdditionalRequests string `json:"additionalRequests"`
}

// Service orchestrates submission validation, availability checks and
// the atomic range commit against the configured store.
type Service struct {
	store    storage.Store
	validate *validator.Validate
}

// NewService creates a reservation service on top of the given store.
func NewService(store storage.Store) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
	}
}

// SubmitApplication validates the request and, if its range is free,
// creates the application together with its reserved dates as one
// atomic unit. Returns *ValidationError for bad input and
// storage.ErrDateConflict when the range intersects an existing
// reservation; in both cases nothing was written.
func (s *Service) SubmitApplication(ctx context.Context, input SubmitApplicationInput) (*models.RentalApplication, error) {
	app, err := s.buildApplication(input)
	if err != nil {
		return nil, err
	}

	// Fast-path check. Not authoritative under concurrency: the
	// commit below decides contested dates via the store's own
	// atomicity, this just avoids a doomed insert.
	available, err := s.store.IsRangeAvailable(ctx, app.StartDate, app.EndDate)
	if err != nil {
		return nil, fmt.Errorf("checking availability: %w", err)
	}
	if !available {
		return nil, storage.ErrDateConflict
	}

	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// buildApplication validates the input and converts it into a rental
// application ready to persist.
func (s *Service) buildApplication(input SubmitApplicationInput) (*models.RentalApplication, error) {
	verr := &ValidationError{}

	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required":
				verr.add(fieldName(fe), "is required")
			case "email":
				verr.add(fieldName(fe), "must be a valid email address")
			default:
				verr.add(fieldName(fe), "is invalid")
			}
		}
	}

	start, startErr := models.ParseDate(input.StartDate)
	if input.StartDate != "" && startErr != nil {
		verr.add("startDate", "must be a YYYY-MM-DD date")
	}
	end, endErr := models.ParseDate(input.EndDate)
	if input.EndDate != "" && endErr != nil {
		verr.add("endDate", "must be a YYYY-MM-DD date")
	}
	if startErr == nil && endErr == nil && start.After(end) {
		verr.add("endDate", "must not be before startDate")
	}

	if len(verr.Issues) > 0 {
		return nil, verr
	}

	app := &models.RentalApplication{
		ID:           storage.GenerateID(),
		Name:         input.Name,
		Phone:        input.Phone,
		StartDate:    start,
		EndDate:      end,
		RentalPeriod: input.RentalPeriod,
	}
	if input.Email != "" {
		app.Email = &input.Email
	}
	if input.AdditionalRequests != "" {
		app.AdditionalRequests = &input.AdditionalRequests
	}

	return app, nil
}

// fieldName maps a validator error to the JSON field name.
func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "name"
	case "Phone":
		return "phone"
	case "Email":
		return "email"
	case "StartDate":
		return "startDate"
	case "EndDate":
		return "endDate"
	case "RentalPeriod":
		return "rentalPeriod"
	default:
		return fe.Field()
	}
}

// Applications lists every accepted application.
func (s *Service) Applications(ctx context.Context) ([]models.RentalApplication, error) {
	return s.store.Applications(ctx)
}

// Application fetches one application by id, or (nil, nil) when absent.
func (s *Service) Application(ctx context.Context, id string) (*models.RentalApplication, error) {
	return s.store.Application(ctx, id)
}

// ReservedDates lists reserved days ascending, optionally bounded.
func (s *Service) ReservedDates(ctx context.Context, from, to models.Date) ([]models.ReservedDate, error) {
	return s.store.ReservedDates(ctx, from, to)
}

// IsRangeAvailable reports whether every day of [start, end] is free.
func (s *Service) IsRangeAvailable(ctx context.Context, start, end models.Date) (bool, error) {
	if start.After(end) {
		return false, fmt.Errorf("invalid range: start %s after end %s", start, end)
	}
	return s.store.IsRangeAvailable(ctx, start, end)
}

// ApplicationsStartingOn lists applications whose rental begins on the
// given day. Used by the daily digest.
func (s *Service) ApplicationsStartingOn(ctx context.Context, day models.Date) ([]models.RentalApplication, error) {
	apps, err := s.store.Applications(ctx)
	if err != nil {
		return nil, err
	}

	var starting []models.RentalApplication
	for _, app := range apps {
		if app.StartsOn(day) {
			starting = append(starting, app)
		}
	}

	return starting, nil
}
