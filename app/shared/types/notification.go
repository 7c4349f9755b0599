package sharedtypes

// NotificationKind tags a notification so the rendering layer can pick a template.
type NotificationKind string

const (
	NotificationGameReady      NotificationKind = "game_ready"
	NotificationDraftStarted   NotificationKind = "draft_started"
	NotificationQueueTimeout   NotificationKind = "queue_timeout"
	NotificationResultReported NotificationKind = "result_reported"
)

// Notification is a platform-neutral message for a channel or, when UserID
// is set, a direct message to that user.
type Notification struct {
	Kind      NotificationKind  `json:"kind"`
	GuildID   GuildID           `json:"guild_id"`
	ChannelID ChannelID         `json:"channel_id,omitempty"`
	UserID    UserID            `json:"user_id,omitempty"`
	Text      string            `json:"text"`
	Fields    map[string]string `json:"fields,omitempty"`
	Mentions  []UserID          `json:"mentions,omitempty"`
}
