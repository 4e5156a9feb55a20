package config

// Bot is the operations Telegram bot. Leave the token empty to disable
// notifications.
type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}
