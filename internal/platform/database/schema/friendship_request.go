// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// FriendshipRequestTable represents the 'friendship.request' table
type FriendshipRequestTable struct {
	Table     string
	Sender    string
	Receiver  string
	CreatedAt string
}

// FriendshipRequest is the schema definition for friendship.request
var FriendshipRequest = FriendshipRequestTable{
	Table:     "friendship.request",
	Sender:    "sender",
	Receiver:  "receiver",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t FriendshipRequestTable) Columns() []string {
	return []string{t.Sender, t.Receiver, t.CreatedAt}
}
