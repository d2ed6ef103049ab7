package models

const RoleAdmin = "admin"

// UserModel is a site administrator. Users are managed by the seed command
// only and never listed through the API.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Email    string `json:"email"    gorm:"size:191"`
	Password string `json:"-"        gorm:"size:255;not null"`
	Role     string `json:"role"     gorm:"size:20;not null;default:admin"`
}

func (UserModel) TableName() string { return "users" }
