package application

import (
	"strings"

	"github.com/ericfisherdev/accountdesk/internal/domain/model"
)

// ParseLabels splits the free-text label field into label items. Pieces are
// separated by model.LabelDelimiter, trimmed, and dropped when empty. The
// result is never nil.
func ParseLabels(raw string) []model.LabelItem {
	labels := []model.LabelItem{}
	if strings.TrimSpace(raw) == "" {
		return labels
	}

	for _, piece := range strings.Split(raw, model.LabelDelimiter) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			labels = append(labels, model.LabelItem{Text: piece})
		}
	}
	return labels
}

// FormatLabels joins label texts back into the form field representation.
func FormatLabels(labels []model.LabelItem) string {
	texts := make([]string, 0, len(labels))
	for _, l := range labels {
		texts = append(texts, l.Text)
	}
	return strings.Join(texts, model.LabelDelimiter+" ")
}
