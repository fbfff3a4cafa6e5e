package command

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Command
	}{
		{"add plus trigger", "+quote hello world", Command{Kind: KindAdd, Body: "hello world"}},
		{"add dot trigger", ".quote add hello world", Command{Kind: KindAdd, Body: "hello world"}},
		{"add with safety", "+quote nsfw spicy take", Command{Kind: KindAdd, Safety: "nsfw", Body: "spicy take"}},
		{"add safety case-insensitive", "+quote SFW tame take", Command{Kind: KindAdd, Safety: "sfw", Body: "tame take"}},
		{"add bare for attachments", "+quote", Command{Kind: KindAdd}},
		{"add multiline body", ".quote add line one\nline two", Command{Kind: KindAdd, Body: "line one\nline two"}},
		{"delete minus trigger", "-quote 12", Command{Kind: KindDelete, ID: 12}},
		{"delete dot trigger", ".quote del 3", Command{Kind: KindDelete, ID: 3}},
		{"find text search", ".quote search needle text", Command{Kind: KindFindText, Body: "needle text"}},
		{"find text with", ".quote with needle", Command{Kind: KindFindText, Body: "needle"}},
		{"find author", ".quote author maria", Command{Kind: KindFindAuthor, Body: "maria"}},
		{"find author by", ".quote by maria", Command{Kind: KindFindAuthor, Body: "maria"}},
		{"get", ".quote get 7", Command{Kind: KindGet, ID: 7}},
		{"get read alias", ".quote read 7", Command{Kind: KindGet, ID: 7}},
		{"random plain", ".quote random", Command{Kind: KindRandom}},
		{"random image", ".quote random i", Command{Kind: KindRandom, WantImage: true}},
		{"random safety", ".quote random nsfw", Command{Kind: KindRandom, Safety: "nsfw"}},
		{"random image and safety", ".quote random i sfw", Command{Kind: KindRandom, WantImage: true, Safety: "sfw"}},
		{"most recent", ".quote last", Command{Kind: KindMostRecent}},
		{"total", ".quote total", Command{Kind: KindTotal}},
		{"set safety", ".quote set 4 nsfw", Command{Kind: KindSetSafety, ID: 4, Safety: "nsfw"}},
		{"help", ".quote help", Command{Kind: KindHelp}},
		{"uppercase trigger", ".QUOTE LAST", Command{Kind: KindMostRecent}},
		{"not a command", "just chatting about quotes", Command{Kind: KindNone}},
		{"mid-message trigger ignored", "try .quote last", Command{Kind: KindNone}},
		{"misspelled trigger", ".quote delete 5", Command{Kind: KindNone}},
		{"empty", "", Command{Kind: KindNone}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.text)
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseFirstMatchWins(t *testing.T) {
	// The add trigger owns everything after it as body text, including
	// words that resemble other triggers.
	got := Parse(".quote add .quote del 5")
	if got.Kind != KindAdd {
		t.Fatalf("expected add, got %v", got.Kind)
	}
	if got.Body != ".quote del 5" {
		t.Fatalf("expected body '.quote del 5', got %q", got.Body)
	}
}
