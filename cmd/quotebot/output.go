package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"quotebot/internal/models"
)

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeIDList(ids []int64) error {
	for _, id := range ids {
		if err := writePlain("%d\n", id); err != nil {
			return err
		}
	}
	return nil
}

func writeQuoteDetail(quote *models.Quote) error {
	lines := []string{
		fmt.Sprintf("id: %d", quote.ID),
		fmt.Sprintf("author: %s", quote.Author),
		fmt.Sprintf("safety: %s", quote.Safety),
		fmt.Sprintf("created_at: %s", formatTime(quote.CreatedTime())),
	}

	if quote.HasImage() {
		lines = append(lines, fmt.Sprintf("image: %s", quote.ImageName))
	}
	if quote.HasText() {
		lines = append(lines, fmt.Sprintf("text: %s", quote.Text))
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
