// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gateway is the public REST surface of the social network.

It authenticates callers with the distributed verification key, enforces
resource ownership, runs the registration saga and forwards everything else
to the backing services. Upstream replies are surfaced verbatim (status and
body); an upstream that cannot be reached becomes a 503.
*/
package gateway

// # JSON Field Identifiers
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldFrom     = "from"
	FieldTo       = "to"
	FieldSender   = "sender"
	FieldReceiver = "receiver"
	FieldAuthor   = "author"
	FieldKeyword  = "keyword"
)

// # Upstream Names
const (
	ServiceUsers      = "users"
	ServiceFriendship = "friendship"
	ServiceContent    = "content"
)
