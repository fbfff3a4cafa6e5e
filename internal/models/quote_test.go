package models

import (
	"testing"
	"time"
)

func TestParseSafety(t *testing.T) {
	cases := []struct {
		raw     string
		want    SafetyLevel
		wantErr bool
	}{
		{"sfw", SafetySFW, false},
		{"nsfw", SafetyNSFW, false},
		{"SFW", SafetySFW, false},
		{" NsFw ", SafetyNSFW, false},
		{"", SafetySFW, true},
		{"spicy", SafetySFW, true},
	}
	for _, tc := range cases {
		got, err := ParseSafety(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseSafety(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSafety(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSafety(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestClassifyAtCreate(t *testing.T) {
	if got, _ := ClassifyAtCreate("sfw", true); got != SafetySFW {
		t.Fatalf("explicit sfw should win over image default, got %v", got)
	}
	if got, _ := ClassifyAtCreate("", true); got != SafetyNSFW {
		t.Fatalf("image upload without token should default nsfw, got %v", got)
	}
	if got, _ := ClassifyAtCreate("", false); got != SafetySFW {
		t.Fatalf("text-only without token should default sfw, got %v", got)
	}
	if _, err := ClassifyAtCreate("bogus", false); err == nil {
		t.Fatal("expected error for invalid token")
	}
}

func TestDefaultRandomSafety(t *testing.T) {
	if got, _ := DefaultRandomSafety("nsfw", false, false); got != SafetyNSFW {
		t.Fatalf("explicit nsfw should win, got %v", got)
	}
	if got, _ := DefaultRandomSafety("", true, true); got != SafetyNSFW {
		t.Fatalf("image lookup in nsfw channel should allow nsfw, got %v", got)
	}
	if got, _ := DefaultRandomSafety("", true, false); got != SafetySFW {
		t.Fatalf("image lookup in sfw channel should stay sfw, got %v", got)
	}
	if got, _ := DefaultRandomSafety("", false, true); got != SafetySFW {
		t.Fatalf("text lookup defaults sfw even in nsfw channel, got %v", got)
	}
}

func TestQuoteValidate(t *testing.T) {
	q := &Quote{Author: "maria"}
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for empty quote")
	}
	q.Text = "hello"
	if err := q.Validate(); err != nil {
		t.Fatalf("validate text quote: %v", err)
	}
	q = &Quote{ImageName: "cat.png", Author: "maria"}
	if err := q.Validate(); err != nil {
		t.Fatalf("validate image quote: %v", err)
	}
	q = &Quote{Text: "hi"}
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for missing author")
	}
}

func TestCreatedTime(t *testing.T) {
	q := &Quote{CreatedAt: 1552828331.5}
	got := q.CreatedTime()
	want := time.Unix(1552828331, int64(500*time.Millisecond))
	if !got.Equal(want) {
		t.Fatalf("CreatedTime = %v, want %v", got, want)
	}
}
