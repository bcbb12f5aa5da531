package model

// AgentProfile holds the marketplace-facing details of an agent user.
type AgentProfile struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"userId"`
	Specialization string   `json:"specialization"`
	Languages      []string `json:"languages"`
	Experience     int      `json:"experience"` // years
	Regions        []string `json:"regions"`
	TravelStyles   []string `json:"travelStyles"`
	Rating         *int     `json:"rating"` // nil until the first review lands
	ReviewCount    int      `json:"reviewCount"`
	IsVerified     bool     `json:"isVerified"`
}

// Agent is an agent profile joined with its user identity, the shape
// the agent listing and detail endpoints return.
type Agent struct {
	AgentProfile
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
	Bio            string `json:"bio"`
}
