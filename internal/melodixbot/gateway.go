package melodixbot

// Update is one inbound chat message, already normalized by the platform
// gateway.
type Update struct {
	GuildID        string
	ChannelID      string
	UserID         string
	UserName       string
	AvatarURL      string
	VoiceChannelID string
	Text           string
	Bot            bool
}

// Gateway delivers chat traffic from whatever platform the bot fronts.
type Gateway interface {
	Updates() <-chan Update
}
