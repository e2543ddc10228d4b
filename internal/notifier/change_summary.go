package notifier

import (
	"time"
	"unicode/utf8"

	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/aleister1102/pagewatch/internal/normalizer"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffTimeout bounds how long summarizing one change may take on large pages.
const diffTimeout = 2 * time.Second

// SummarizeChange describes a change for humans: sizes, inserted and deleted
// character counts over the visible text, and short previews. It is display
// only and has no bearing on whether a change was detected.
func SummarizeChange(target string, detectedAt time.Time, previous, current string) models.ContentChangeInfo {
	prevText := normalizer.Normalize(previous)
	currText := normalizer.Normalize(current)

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = diffTimeout
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(prevText, currText, false))

	info := models.ContentChangeInfo{
		URL:             target,
		DetectedAt:      detectedAt,
		PreviousLength:  len(previous),
		CurrentLength:   len(current),
		PreviousPreview: truncateString(prevText, MaxPreviewLength),
		CurrentPreview:  truncateString(currText, MaxPreviewLength),
	}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			info.CharsInserted += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			info.CharsDeleted += utf8.RuneCountInString(d.Text)
		}
	}
	return info
}
