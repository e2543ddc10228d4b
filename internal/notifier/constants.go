package notifier

// Discord formatting constants
const (
	ChangeEmbedColor = 0xF0AD4E // orange
	ErrorEmbedColor  = 0xD9534F // red
	EmbedFooterText  = "pagewatch monitor"
)

// Limits applied before sending to Discord
const (
	MaxPreviewLength     = 300
	MaxErrorTextLength   = 800
	MaxEmbedDescription  = 4096
	DefaultRetryAttempts = 2
)
