package models

// GotramInput carries the three descriptive fields required when a new
// lineage record is created inline from the profile form.
type GotramInput struct {
	Gotranamalu string `json:"gotranamalu"`
	Nakshtram   string `json:"nakshtram"`
	Rasi        string `json:"rasi"`
}

// ProfileRequest is the profile form body. Either GotramID selects an
// existing lineage or NewGotram creates one; NewGotram wins when both are
// present.
type ProfileRequest struct {
	Username    string       `json:"username"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phone_number"`
	GotramID    string       `json:"gotram_id"`
	NewGotram   *GotramInput `json:"new_gotram,omitempty"`
}

// ProfileState is what the profile form needs on load: the user joined with
// its gotram plus the full list of gotram options.
type ProfileState struct {
	User    *User    `json:"user"`
	Gotrams []Gotram `json:"gotrams"`
}
