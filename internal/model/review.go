package model

import "time"

// Review is a traveler's rating of an agent after a completed itinerary.
type Review struct {
	ID          int64     `json:"id"`
	TravelerID  int64     `json:"travelerId"`
	AgentID     int64     `json:"agentId"`
	ItineraryID int64     `json:"itineraryId"`
	Rating      int       `json:"rating"` // 1..5
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewWithTraveler decorates a review with the author's public
// profile for the agent review listing.
type ReviewWithTraveler struct {
	Review
	Traveler PublicProfile `json:"traveler"`
}
