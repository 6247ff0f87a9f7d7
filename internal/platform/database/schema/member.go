// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MemberTable represents a read-model table of known users.
//
// The friendship and content services each keep their own copy, fed by
// user-created events.
type MemberTable struct {
	Table    string
	Email    string
	Username string
}

// FriendshipMember is the schema definition for friendship.member
var FriendshipMember = MemberTable{
	Table:    "friendship.member",
	Email:    "email",
	Username: "username",
}

// ContentMember is the schema definition for content.member
var ContentMember = MemberTable{
	Table:    "content.member",
	Email:    "email",
	Username: "username",
}

// Columns returns all standard column names
func (t MemberTable) Columns() []string {
	return []string{t.Email, t.Username}
}
