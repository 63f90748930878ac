package domain

// User represents an application profile able to authenticate and act as a
// principal. PasswordHash never leaves the persistence/service layer.
type User struct {
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatarURL,omitempty"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	AuditFields
}
