package forms

import (
	"tripdesk.io/internal/agency"
)

// BookingForm is the flat editing shape for a booking.
type BookingForm struct {
	ID          string
	CustomerID  string
	Destination string
	TravelDate  string
	ReturnDate  string
	Travelers   int
	Amount      float64
	Status      string
	Notes       string
}

// BookingFormFrom flattens a booking record for editing. Legacy field
// handling happens at decode time, so by the time a record reaches the
// form the trip fields are already in tripDetails.
func BookingFormFrom(b agency.Booking) BookingForm {
	return BookingForm{
		ID:          b.ID,
		CustomerID:  b.Customer.ID,
		Destination: b.TripDetails.Destination,
		TravelDate:  b.TripDetails.TravelDate,
		ReturnDate:  b.TripDetails.ReturnDate,
		Travelers:   b.TripDetails.Travelers,
		Amount:      b.Amount,
		Status:      b.Status,
		Notes:       b.Notes,
	}
}

// Validate checks required presence: a booking needs a destination and a
// travel date.
func (f BookingForm) Validate() error {
	return requireAll(map[string]string{
		"destination": f.Destination,
		"travel date": f.TravelDate,
	})
}

// Document re-nests the flat form into the backend's expected shape: the
// flat destination/travel date fields become the tripDetails object.
func (f BookingForm) Document() agency.Booking {
	return agency.Booking{
		ID:       f.ID,
		Customer: agency.Ref{ID: f.CustomerID},
		TripDetails: agency.TripDetails{
			Destination: f.Destination,
			TravelDate:  f.TravelDate,
			ReturnDate:  f.ReturnDate,
			Travelers:   f.Travelers,
		},
		Status: f.Status,
		Amount: f.Amount,
		Notes:  f.Notes,
	}
}
