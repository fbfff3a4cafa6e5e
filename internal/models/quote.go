package models

import (
	"fmt"
	"strings"
	"time"
)

// SafetyLevel classifies a quote as safe or not safe for work.
// Levels are ordered: SFW < NSFW, so a filter of SafetyNSFW admits both.
type SafetyLevel int

const (
	SafetySFW  SafetyLevel = 0
	SafetyNSFW SafetyLevel = 1
)

// Quote is one stored snippet, text and/or image, with metadata.
type Quote struct {
	ID        int64       `yaml:"id"`
	Text      string      `yaml:"text,omitempty"`
	ImageName string      `yaml:"image_name,omitempty"`
	Safety    SafetyLevel `yaml:"safety"`
	Author    string      `yaml:"author"`
	CreatedAt float64     `yaml:"created_at"`
}

// HasText reports whether the quote has a text body.
func (q *Quote) HasText() bool {
	return q != nil && q.Text != ""
}

// HasImage reports whether the quote has a backing image file.
func (q *Quote) HasImage() bool {
	return q != nil && q.ImageName != ""
}

// Validate checks the creation invariant: at least one of text and image.
func (q *Quote) Validate() error {
	if q == nil {
		return fmt.Errorf("quote is required")
	}
	if !q.HasText() && !q.HasImage() {
		return fmt.Errorf("quote needs text or an image")
	}
	if q.Author == "" {
		return fmt.Errorf("author is required")
	}
	return nil
}

// CreatedTime converts the stored epoch-seconds timestamp to a time.Time.
func (q *Quote) CreatedTime() time.Time {
	sec := int64(q.CreatedAt)
	nsec := int64((q.CreatedAt - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

func (l SafetyLevel) String() string {
	if l == SafetyNSFW {
		return "nsfw"
	}
	return "sfw"
}

// IsValidSafety reports whether the level is one of the known values.
func IsValidSafety(level SafetyLevel) bool {
	return level == SafetySFW || level == SafetyNSFW
}

// ParseSafety parses an explicit "sfw"/"nsfw" token, case-insensitively.
func ParseSafety(raw string) (SafetyLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sfw":
		return SafetySFW, nil
	case "nsfw":
		return SafetyNSFW, nil
	case "":
		return SafetySFW, fmt.Errorf("safety level is required")
	default:
		return SafetySFW, fmt.Errorf("invalid safety level: %s", raw)
	}
}

// ClassifyAtCreate resolves the safety level for a new quote. An explicit
// token always wins; otherwise an image upload defaults to NSFW and a
// text-only quote to SFW. The channel flag is deliberately not consulted
// here: unmarked images are presumed risky regardless of where they were
// posted, and the channel's tolerance is enforced at display time instead.
func ClassifyAtCreate(explicit string, hasImage bool) (SafetyLevel, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseSafety(explicit)
	}
	if hasImage {
		return SafetyNSFW, nil
	}
	return SafetySFW, nil
}

// DefaultRandomSafety resolves the safety ceiling for a random lookup. An
// explicit token always wins; otherwise an image-restricted lookup in an
// NSFW channel may surface NSFW quotes, and everything else stays SFW.
func DefaultRandomSafety(explicit string, wantImage, channelNSFW bool) (SafetyLevel, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseSafety(explicit)
	}
	if wantImage && channelNSFW {
		return SafetyNSFW, nil
	}
	return SafetySFW, nil
}
