package models

// Channel is a conversation stream the timeline is subscribed to
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthorInfo is the display metadata attached to a message author
type AuthorInfo struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// Message is a single top-level message in the aggregated timeline
type Message struct {
	Timestamp       string      `json:"ts"`
	Text            string      `json:"text"`
	User            string      `json:"user,omitempty"`
	ChannelID       string      `json:"channel_id"`
	SubType         string      `json:"subtype,omitempty"`
	ThreadTimestamp string      `json:"thread_ts,omitempty"`
	ReplyCount      int         `json:"reply_count,omitempty"`
	URL             string      `json:"url"`
	UserInfo        *AuthorInfo `json:"userInfo,omitempty"`
}

// Reply is a message inside a thread. The first reply of a thread is the
// thread root itself.
type Reply struct {
	Timestamp       string      `json:"ts"`
	Text            string      `json:"text"`
	User            string      `json:"user,omitempty"`
	ChannelID       string      `json:"channel_id"`
	ThreadTimestamp string      `json:"thread_ts,omitempty"`
	URL             string      `json:"url"`
	UserInfo        *AuthorInfo `json:"userInfo,omitempty"`
}

// Timeline is the result of one aggregation pass
type Timeline struct {
	Channels []Channel `json:"channels"`
	Messages []Message `json:"messages"`
}

// PostResult echoes the outcome of posting a thread reply
type PostResult struct {
	OK        bool   `json:"ok"`
	Channel   string `json:"channel"`
	Timestamp string `json:"ts"`
	Text      string `json:"text,omitempty"`
}

// ToReply converts a history message into a thread reply
func (m Message) ToReply() Reply {
	return Reply{
		Timestamp:       m.Timestamp,
		Text:            m.Text,
		User:            m.User,
		ChannelID:       m.ChannelID,
		ThreadTimestamp: m.ThreadTimestamp,
		URL:             m.URL,
		UserInfo:        m.UserInfo,
	}
}

// Message subtypes that matter to the timeline
const (
	SubTypeChannelJoin = "channel_join"
)
