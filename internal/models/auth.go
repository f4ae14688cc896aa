package models

// M2MTokenResponse is the token endpoint response for the client-credentials
// grant used when the service calls the identity provider's admin API.
type M2MTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
