package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeOwner  UserType = "owner"
	UserTypeRenter UserType = "renter"
)

type User struct {
	gorm.Model
	Name         string   `json:"name" gorm:"column:name;not null"`
	Email        string   `json:"email" gorm:"column:email;unique;not null"`
	Password     string   `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string   `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string   `json:"phoneNumber" gorm:"column:phone_number"`
	UserType     UserType `json:"userType" gorm:"column:user_type;not null"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
