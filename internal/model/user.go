package model

// User is a backend account as listed on the role administration screen.
type User struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PositionName string `json:"position_name,omitempty"`
}

// Role is an assignable role; users reference it by slug.
type Role struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}
