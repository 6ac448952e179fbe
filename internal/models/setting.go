package models

import "time"

// SettingAPIKey holds the Diffbot token.
const SettingAPIKey = "apikey"

type Setting struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"column:setting_key;size:255;not null;uniqueIndex"`
	Value     string    `json:"value" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
