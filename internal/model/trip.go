package model

import "time"

// TripPreference captures what a traveler is shopping for before any
// agent has proposed an itinerary.
type TripPreference struct {
	ID             int64     `json:"id"`
	TravelerID     int64     `json:"travelerId"`
	Destination    string    `json:"destination"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	Budget         string    `json:"budget"`
	TravelStyles   []string  `json:"travelStyles"`
	AdditionalInfo string    `json:"additionalInfo"`
	CreatedAt      time.Time `json:"createdAt"`
}
