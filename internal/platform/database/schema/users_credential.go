// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserCredentialTable represents the 'users.credential' table
type UserCredentialTable struct {
	Table        string
	UserID       string
	PasswordHash string
	UpdatedAt    string
}

// UserCredential is the schema definition for users.credential
var UserCredential = UserCredentialTable{
	Table:        "users.credential",
	UserID:       "userid",
	PasswordHash: "passwordhash",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserCredentialTable) Columns() []string {
	return []string{t.UserID, t.PasswordHash, t.UpdatedAt}
}
