package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB is a generic type for PostgreSQL JSONB columns.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported type for JSONB: %T", value)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return json.RawMessage(j).MarshalJSON()
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = JSONB(data)
	return nil
}

// --- Models ---

type User struct {
	ID            string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	AccountStatus string  `gorm:"type:text;not null;default:'active'" json:"account_status"`
	DisplayName   *string `gorm:"type:text" json:"display_name,omitempty"`
	Email         *string `gorm:"type:text" json:"email,omitempty"`
	Settings      JSONB   `gorm:"type:jsonb;default:'{}'" json:"settings"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (User) TableName() string { return "mondaymcp.users" }

// UserCredential holds a user's monday.com API token, encrypted at rest.
// The Token field is populated in memory only after decryption.
type UserCredential struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Token          string    `gorm:"-" json:"-"`
	EncryptedToken *string   `gorm:"type:text" json:"encrypted_token,omitempty"`
	KeyVersion     int       `gorm:"not null;default:1" json:"key_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (UserCredential) TableName() string { return "mondaymcp.user_credentials" }
