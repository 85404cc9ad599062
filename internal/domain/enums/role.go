package enums

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)
