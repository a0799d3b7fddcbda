// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

// LoginRequest is the expected body for a POST /auth/login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the Supabase session tokens back to the client.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
}

// CreateEntityRequest is the expected body for a POST /entities request.
// Mirrors the manual add form: entity, mi_key and ticker are required,
// everything else is optional descriptive data.
type CreateEntityRequest struct {
	Entity        string `json:"entity" validate:"required"`
	MiKey         int64  `json:"miKey" validate:"required"`
	Ticker        string `json:"ticker" validate:"required"`
	Website       string `json:"website,omitempty"`
	Description   string `json:"description,omitempty"`
	Country       string `json:"country,omitempty"`
	City          string `json:"city,omitempty"`
	Industry      string `json:"industry,omitempty"`
	AllIndustries string `json:"allIndustries,omitempty"`
}

// UpdateIntelRequest is the expected body for a PUT /entities/{entityID}/intel request.
type UpdateIntelRequest struct {
	Intel string `json:"intel" validate:"required"`
	// Date is the calendar date of the note, YYYY-MM-DD. Defaults to today.
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SyncRequest is the full desired state for one sync tick: every visible
// entity's tag list, keyed by entity id. Tag values may arrive as a JSON
// list, a comma-delimited string, or a bracketed list string; the handler
// normalizes them before the sync core sees the data. An empty map is
// valid; a first tick with nothing visible still commits its snapshot.
type SyncRequest struct {
	Entities map[string]any `json:"entities"`
}

// SyncResponse reports the outcome of one sync tick. A non-empty Errors
// list with Synced > 0 means partial success, which the client must
// render differently from total failure.
type SyncResponse struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors,omitempty"`
}

// ImportResponse summarizes a bulk import run.
type ImportResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// EntityResponse is the API representation of one tagged entity row.
type EntityResponse struct {
	ID          int64    `json:"id"`
	Entity      string   `json:"entity"`
	Ticker      string   `json:"ticker"`
	Website     string   `json:"website,omitempty"`
	Description string   `json:"description,omitempty"`
	Country     string   `json:"country,omitempty"`
	City        string   `json:"city,omitempty"`
	Macros      []string `json:"macros"`
	Micros      []string `json:"micros"`
	Industry    []string `json:"ciqIndustry,omitempty"`
	Industries  []string `json:"ciqIndustryCategory,omitempty"`
	Intel       string   `json:"intel,omitempty"`
	IntelDate   string   `json:"intelDate,omitempty"`
}

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
