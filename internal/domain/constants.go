package domain

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

const (
	PresenceActive  = "ACTIVE"
	PresenceIdle    = "IDLE"
	PresenceOffline = "OFFLINE"
)

// ValidPresenceStatus reports whether s is a status a client may report.
// OFFLINE is derived, never reported.
func ValidPresenceStatus(s string) bool {
	return s == PresenceActive || s == PresenceIdle
}

const (
	EmojiTypeUnicode = "unicode_emoji"
	EmojiTypeRealm   = "realm_emoji"
	EmojiTypeExtra   = "extra_emoji"
)

// ExtraEmojiName is the single built-in branded emoji outside the unicode set.
const ExtraEmojiName = "parley"

// StatusTextMaxLength caps the manual status text, in runes.
const StatusTextMaxLength = 60

// DefaultClientName is assumed when a request carries no X-Client header.
const DefaultClientName = "website"

// MirrorClientName is the client name legacy mirror bots connect with.
const MirrorClientName = "zephyr_mirror"

// PushableClient reports whether a client of this name can receive mobile push.
func PushableClient(name string) bool {
	return name == "android" || name == "ios"
}
