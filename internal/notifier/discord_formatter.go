package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/aleister1102/pagewatch/internal/models"
)

// FormatContentChangeMessage builds the webhook payload for one detected change.
func FormatContentChangeMessage(info models.ContentChangeInfo, cfg config.NotificationConfig) models.DiscordMessagePayload {
	embed := pageEmbed(
		"📝 Page Changed",
		info.URL,
		fmt.Sprintf("🔔 **Content change detected**\n\n**URL:** %s", info.URL),
		ChangeEmbedColor,
		info.DetectedAt,
		field("Size", fmt.Sprintf("%d → %d bytes", info.PreviousLength, info.CurrentLength), true),
		field("Text", fmt.Sprintf("+%d / -%d chars", info.CharsInserted, info.CharsDeleted), true),
		field("Before", codeBlock(info.PreviousPreview), false),
		field("After", codeBlock(info.CurrentPreview), false),
	)

	return buildPayload(embed, cfg)
}

// FormatFetchErrorMessage builds the webhook payload for a failed check.
func FormatFetchErrorMessage(info models.MonitorFetchErrorInfo, cfg config.NotificationConfig) models.DiscordMessagePayload {
	embed := pageEmbed(
		"⚠️ Monitoring Error",
		info.URL,
		fmt.Sprintf("Failed to fetch **%s**", info.URL),
		ErrorEmbedColor,
		info.OccurredAt,
		field("Error", codeBlock(truncateString(info.Error, MaxErrorTextLength)), false),
	)

	return buildPayload(embed, cfg)
}

func buildPayload(embed models.DiscordEmbed, cfg config.NotificationConfig) models.DiscordMessagePayload {
	payload := models.DiscordMessagePayload{
		Username: cfg.DiscordUsername,
		Content:  buildMentions(cfg.MentionRoleIDs),
		Embeds:   []models.DiscordEmbed{embed},
	}
	if len(cfg.MentionRoleIDs) > 0 {
		payload.AllowedMentions = &models.AllowedMentions{Roles: cfg.MentionRoleIDs}
	}
	return payload
}

func buildMentions(roleIDs []string) string {
	if len(roleIDs) == 0 {
		return ""
	}
	mentions := make([]string, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		mentions = append(mentions, fmt.Sprintf("<@&%s>", roleID))
	}
	return strings.Join(mentions, " ")
}

func codeBlock(s string) string {
	if s == "" {
		return ""
	}
	return "```\n" + strings.ReplaceAll(s, "```", "'''") + "\n```"
}

// truncateString cuts s to at most maxLength bytes without splitting a rune.
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	cut := maxLength - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
