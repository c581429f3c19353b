package models

// UserProfile is the projection of the external user store this layer
// consumes: the fields needed to render a like/request card. The store is
// owned elsewhere; nothing here writes to it.
type UserProfile struct {
	UserID     string `dynamodbav:"userId" json:"userId"`
	Name       string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Age        int    `dynamodbav:"age,omitempty" json:"age,omitempty"`
	City       string `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Height     int    `dynamodbav:"height,omitempty" json:"height,omitempty"`
	Profession string `dynamodbav:"profession,omitempty" json:"profession,omitempty"`
	Image      string `dynamodbav:"image,omitempty" json:"image,omitempty"`
	Type       string `dynamodbav:"type,omitempty" json:"type,omitempty"`
	BadgeColor string `dynamodbav:"badgeColor,omitempty" json:"badgeColor,omitempty"`
}

const UserProfilesTable = "UserProfiles"
