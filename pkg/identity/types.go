package identity

import "encoding/json"

// Credentials are the sign-in input. They are sent once and never stored or logged.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up input.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Email     string `json:"email"`
}

// Tokens is the bearer token bundle issued by the identity service.
// JSON keys follow the service's casing; decoding is case-insensitive,
// so camelCase variants are accepted as well.
type Tokens struct {
	IDToken      string `json:"IdToken"`
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken,omitempty"`
}

// Result is the outcome of a successful two-step sign-in.
type Result struct {
	Tokens Tokens
	// User is the profile payload returned by the getuser endpoint, kept verbatim.
	User json.RawMessage
}

type accessTokenRequest struct {
	AccessToken string `json:"accessToken"`
}

type errorResponse struct {
	Error string `json:"error"`
}
