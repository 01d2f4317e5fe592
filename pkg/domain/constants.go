package domain

// Broadcast target selectors stored in a message node's broadcastTargetNode.
const (
	// BroadcastTargetAll makes a message eligible for every broadcast node.
	BroadcastTargetAll = "all"
)

// Recipient sources a broadcast node can draw from.
const (
	RecipientsBotUsers     = "bot_users"
	RecipientsGroupMembers = "group_members"
)

// Keyboard types.
const (
	KeyboardInline = "inline"
	KeyboardReply  = "reply"
	KeyboardNone   = "none"
)

// Condition operators understood by conditional nodes.
const (
	OpEquals    = "equals"
	OpNotEquals = "not_equals"
	OpContains  = "contains"
	OpExists    = "exists"
	OpNotExists = "not_exists"
)

// Admin actions understood by admin-action nodes.
const (
	AdminBan     = "ban_user"
	AdminUnban   = "unban_user"
	AdminKick    = "kick_user"
	AdminMute    = "mute_user"
	AdminUnmute  = "unmute_user"
	AdminPin     = "pin_message"
	AdminUnpin   = "unpin_message"
	AdminDelete  = "delete_message"
	AdminPromote = "promote_user"
	AdminDemote  = "demote_user"
)
