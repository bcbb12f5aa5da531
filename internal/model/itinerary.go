package model

import (
	"encoding/json"
	"time"
)

// Itinerary lifecycle states
const (
	ItineraryDraft     = "draft"
	ItineraryProposed  = "proposed"
	ItineraryConfirmed = "confirmed"
	ItineraryCompleted = "completed"
	ItineraryCancelled = "cancelled"
)

// Itinerary is an agent-authored travel plan for one trip preference.
// Details is the day-by-day activity breakdown, stored as-is.
type Itinerary struct {
	ID               int64           `json:"id"`
	TravelerID       int64           `json:"travelerId"`
	AgentID          int64           `json:"agentId"`
	TripPreferenceID int64           `json:"tripPreferenceId"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	TotalPrice       int             `json:"totalPrice"`
	Status           string          `json:"status"`
	Details          json.RawMessage `json:"details"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ValidStatus reports whether s is a known itinerary state.
func ValidStatus(s string) bool {
	switch s {
	case ItineraryDraft, ItineraryProposed, ItineraryConfirmed, ItineraryCompleted, ItineraryCancelled:
		return true
	}
	return false
}
