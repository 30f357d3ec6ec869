package models

import "time"

type User struct {
	ID        string
	Email     string
	Name      string
	Image     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
