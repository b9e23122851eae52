package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the envelope for mutations that return no record.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---
//
// Update requests use pointer fields: nil means "leave untouched", so a
// client can zero a score without the field being mistaken for absent.
// Unrecognized fields are dropped by the JSON decoder, matching the
// contract that unknown patch fields are ignored.

type createTeamRequest struct {
	Name string `json:"name" validate:"required"`
}

type updateTeamRequest struct {
	Name  *string `json:"name"`
	Score *int    `json:"score"`
}

type createUserRequest struct {
	Name   string `json:"name"    validate:"required"`
	TeamID string `json:"team_id" validate:"required"`
	Score  int    `json:"score"`
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Score  *int    `json:"score"`
	TeamID *string `json:"team_id"`
}

// --- Response types ---
//
// Team and user records serialize straight from the domain types: ids
// are already hex strings and timestamps encode as RFC 3339.

type leaderboardResponse struct {
	Type        string `json:"type"`
	TeamID      string `json:"team_id,omitempty"`
	Leaderboard any    `json:"leaderboard"`
}

type recalculateResponse struct {
	Message      string `json:"message"`
	TeamsUpdated int    `json:"teams_updated"`
}
