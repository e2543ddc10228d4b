package notifier

import (
	"time"

	"github.com/aleister1102/pagewatch/internal/models"
)

// pageEmbed is the common shape of every pagewatch embed: the page is the
// embed link and the footer names the monitor.
func pageEmbed(title, pageURL, description string, color int, at time.Time, fields ...models.DiscordEmbedField) models.DiscordEmbed {
	return models.DiscordEmbed{
		Title:       title,
		URL:         pageURL,
		Description: truncateString(description, MaxEmbedDescription),
		Color:       color,
		Timestamp:   at.UTC().Format(time.RFC3339),
		Footer:      &models.DiscordEmbedFooter{Text: EmbedFooterText},
		Fields:      nonEmptyFields(fields),
	}
}

func field(name, value string, inline bool) models.DiscordEmbedField {
	return models.DiscordEmbedField{Name: name, Value: value, Inline: inline}
}

// nonEmptyFields drops fields without a value; Discord rejects the whole
// message otherwise.
func nonEmptyFields(fields []models.DiscordEmbedField) []models.DiscordEmbedField {
	kept := make([]models.DiscordEmbedField, 0, len(fields))
	for _, f := range fields {
		if f.Value != "" {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
