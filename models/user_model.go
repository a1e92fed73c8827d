package models

import "encoding/json"

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"isActive"`
}

type userAlias User

func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		userAlias
		MongoID  string `json:"_id"`
		FullName string `json:"fullName"`
		IsActive *bool  `json:"isActive"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.userAlias)
	u.ID = firstNonEmpty(raw.MongoID, raw.ID)
	u.Name = firstNonEmpty(raw.Name, raw.FullName)
	u.IsActive = raw.IsActive == nil || *raw.IsActive
	return nil
}

type Coach struct {
	ID             string   `json:"id"`
	User           *Ref     `json:"user,omitempty"`
	Name           string   `json:"name"`
	Specialization []string `json:"specialization,omitempty"`
	Experience     int      `json:"experience,omitempty"`
	HourlyRate     float64  `json:"hourlyRate"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	Bio            string   `json:"bio,omitempty"`
	IsApproved     bool     `json:"isApproved"`
}

type coachAlias Coach

func (c *Coach) UnmarshalJSON(data []byte) error {
	var raw struct {
		coachAlias
		MongoID        string          `json:"_id"`
		Specialization json.RawMessage `json:"specialization"`
		HourlyRate     json.RawMessage `json:"hourlyRate"`
		Rating         json.RawMessage `json:"rating"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Coach(raw.coachAlias)
	c.ID = firstNonEmpty(raw.MongoID, raw.ID)
	c.HourlyRate = decodeAmount(raw.HourlyRate)
	c.Rating = decodeAmount(raw.Rating)
	if c.Name == "" && c.User != nil {
		c.Name = c.User.Name
	}
	if len(raw.Specialization) > 0 {
		var list []string
		if err := json.Unmarshal(raw.Specialization, &list); err == nil {
			c.Specialization = list
		} else {
			var single string
			if err := json.Unmarshal(raw.Specialization, &single); err == nil && single != "" {
				c.Specialization = []string{single}
			}
		}
	}
	return nil
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=client coach"`
	Phone    string `json:"phone,omitempty"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ProfileUpdate struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2"`
	Phone string `json:"phone,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}
