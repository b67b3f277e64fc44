package models

import "time"

type Staff struct {
	ID           string    `json:"id_staff"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"` // staff | admin
	Office       string    `json:"office"`
	CreatedAt    time.Time `json:"created_at"`
}
