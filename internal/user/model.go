package user

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name               string `json:"name"`
	Surname            string `json:"surname"`
	Email              string `json:"email" gorm:"unique"`
	Headline           string `json:"headline"`
	Photo              string `json:"photo"`
	Password           string `json:"-"`
	NeedsPasswordReset bool   `json:"-"`
	IsAdmin            bool   `json:"isAdmin" gorm:"default:false"`
}
