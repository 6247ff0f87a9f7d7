// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema holds the table and column identifiers of every relational store.

Queries are assembled with these constants so that a column rename is a
compile-time change rather than a grep across SQL strings.

Each service owns one Postgres schema:

  - users: accounts and credentials.
  - friendship: the user read model, requests, friendships and messages.
  - content: the user and friendship read models and posts.
*/
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	Email     string
	Username  string
	IsAdmin   string
	IsBlocked string
	CreatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	Email:     "email",
	Username:  "username",
	IsAdmin:   "isadmin",
	IsBlocked: "isblocked",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.Email, t.Username, t.IsAdmin, t.IsBlocked, t.CreatedAt}
}
