package models

import "strconv"

// NotificationType classifies an inbound transport event.
type NotificationType string

// Notification types the engine reacts to. Anything else is ignored.
const (
	NotifyMentioned      NotificationType = "mentioned"
	NotifyPrivateMessage NotificationType = "private_message"
	NotifyReplied        NotificationType = "replied"
)

// IsActionable returns true for notification types that can carry a command.
func (t NotificationType) IsActionable() bool {
	switch t {
	case NotifyMentioned, NotifyPrivateMessage, NotifyReplied:
		return true
	default:
		return false
	}
}

// Post is the caller context supplied by the transport for one inbound
// message. Trust level is assigned by the platform, not by statsbot.
type Post struct {
	Username   string
	Name       string
	TrustLevel int
	TopicID    int
	PostNumber int

	// Cleaned is the message body with markup stripped, the text the command
	// parser runs against.
	Cleaned string
}

// postFields is the allow-list of %field% self-reference placeholders.
// Defaults naming any other field are rejected at catalog load time so a
// typo fails fast instead of silently resolving to nothing.
var postFields = map[string]func(*Post) string{
	"username":    func(p *Post) string { return p.Username },
	"name":        func(p *Post) string { return p.Name },
	"trust_level": func(p *Post) string { return strconv.Itoa(p.TrustLevel) },
	"topic_id":    func(p *Post) string { return strconv.Itoa(p.TopicID) },
	"post_number": func(p *Post) string { return strconv.Itoa(p.PostNumber) },
}

// Field resolves an allow-listed self-reference placeholder against the post.
func (p *Post) Field(name string) (string, bool) {
	accessor, ok := postFields[name]
	if !ok {
		return "", false
	}
	return accessor(p), true
}

// KnownField reports whether name is a valid self-reference target.
func KnownField(name string) bool {
	_, ok := postFields[name]
	return ok
}
