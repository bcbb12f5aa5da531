package model

import "time"

// PlaceDetails is one attraction returned by the places lookup.
type PlaceDetails struct {
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	Categories  []string `json:"categories" bson:"categories"`
	Rating      *float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Image       string   `json:"image,omitempty" bson:"image,omitempty"`
}

// CityInfo is the places-lookup result for one city.
type CityInfo struct {
	Name            string         `json:"name" bson:"name"`
	Description     string         `json:"description" bson:"description"`
	BestTimeToVisit string         `json:"bestTimeToVisit" bson:"best_time_to_visit"`
	Places          []PlaceDetails `json:"places" bson:"places"`
}

// PlaceCacheEntry is the cached lookup document. City is the
// normalized (lowercased, trimmed) query string.
type PlaceCacheEntry struct {
	City      string    `json:"city" bson:"city"`
	Info      CityInfo  `json:"info" bson:"info"`
	FetchedAt time.Time `json:"fetchedAt" bson:"fetched_at"`
}
