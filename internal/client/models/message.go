package models

import "time"

// ChannelKind distinguishes the two conversation surfaces.
type ChannelKind string

const (
	ChannelGroup  ChannelKind = "group"
	ChannelDirect ChannelKind = "direct"
)

// ChannelRef identifies exactly one conversation target: a group, or a
// single peer user for direct messages. Kind decides how ID is interpreted.
type ChannelRef struct {
	Kind ChannelKind
	ID   int64
}

// AttachmentRef points at an uploaded resource. Messages reference it,
// they never own it.
type AttachmentRef struct {
	ResourceID int64
	Title      string
}

// Message is a single conversation entry. Immutable once created on the
// client; ordering within a conversation is insertion order, not timestamp
// order.
type Message struct {
	ID         int64
	Content    string
	SenderID   int64
	SenderName string
	Attachment *AttachmentRef
	CreatedAt  time.Time
	Channel    ChannelRef
}
