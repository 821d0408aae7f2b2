package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetCredential returns the monday.com credential for a user, with the
// stored token opened into the in-memory Token field.
func GetCredential(db *gorm.DB, userID string) (*UserCredential, error) {
	var cred UserCredential
	if err := db.Where("user_id = ?", userID).First(&cred).Error; err != nil {
		return nil, fmt.Errorf("credential not found for user %s: %w", userID, err)
	}
	if cred.EncryptedToken == nil || *cred.EncryptedToken == "" {
		return nil, fmt.Errorf("no encrypted token for user %s", userID)
	}
	token, err := openToken(*cred.EncryptedToken, cred.KeyVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to open token for user %s: %w", userID, err)
	}
	cred.Token = token
	return &cred, nil
}

// UpsertCredential creates or updates a user's monday.com token,
// sealed with the current key version.
func UpsertCredential(db *gorm.DB, userID, token string) error {
	enc, version, err := sealToken(token)
	if err != nil {
		return fmt.Errorf("failed to seal token: %w", err)
	}

	cred := UserCredential{
		UserID:         userID,
		EncryptedToken: &enc,
		KeyVersion:     version,
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"encrypted_token", "key_version", "updated_at"}),
	}).Create(&cred).Error
}

// DeleteCredential removes a user's monday.com token.
func DeleteCredential(db *gorm.DB, userID string) error {
	result := db.Where("user_id = ?", userID).Delete(&UserCredential{})
	if result.RowsAffected == 0 {
		return fmt.Errorf("credential not found for user %s", userID)
	}
	return result.Error
}

// EnsureUser creates the user row for a gateway identity on first use.
// Existing rows are left untouched.
func EnsureUser(db *gorm.DB, userID string) error {
	user := User{ID: userID, Settings: JSONB(`{}`)}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error
}

// CredentialStore is the write surface behind the credential management
// endpoint.
type CredentialStore struct {
	db *gorm.DB
}

// NewCredentialStore wraps a database handle for credential writes.
func NewCredentialStore(database *gorm.DB) *CredentialStore {
	return &CredentialStore{db: database}
}

// Upsert stores the user's monday.com token, creating the user row first.
func (s *CredentialStore) Upsert(userID, token string) error {
	if err := EnsureUser(s.db, userID); err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", userID, err)
	}
	return UpsertCredential(s.db, userID, token)
}

// Delete removes the user's stored token.
func (s *CredentialStore) Delete(userID string) error {
	return DeleteCredential(s.db, userID)
}
