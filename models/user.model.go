package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FullName    string                      `json:"full_name" gorm:"default:''"`
	Email       string                      `json:"email" gorm:"unique;not null"`
	Password    string                      `json:"-" gorm:"not null"`
	Role        Role                        `json:"role" gorm:"type:varchar(30);default:'student';index"`
	Bio         string                      `json:"bio" gorm:"type:text"`
	IsActive    bool                        `json:"is_active" gorm:"default:true"`
	Credits     int                         `json:"credits" gorm:"default:0"`
	Badges      datatypes.JSONSlice[string] `json:"badges"`
	ProfileData datatypes.JSONMap           `json:"profile_data"`
}
