// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// FriendshipTable represents an undirected friendship table.
//
// Rows are stored with UserA < UserB so that a pair has exactly one row.
type FriendshipTable struct {
	Table     string
	UserA     string
	UserB     string
	CreatedAt string
}

// Friendship is the schema definition for friendship.friendship
var Friendship = FriendshipTable{
	Table:     "friendship.friendship",
	UserA:     "usera",
	UserB:     "userb",
	CreatedAt: "createdat",
}

// ContentFriendship is the schema definition for content.friendship
var ContentFriendship = FriendshipTable{
	Table:     "content.friendship",
	UserA:     "usera",
	UserB:     "userb",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t FriendshipTable) Columns() []string {
	return []string{t.UserA, t.UserB, t.CreatedAt}
}
