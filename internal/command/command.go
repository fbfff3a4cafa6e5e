// Package command recognizes quote-bot text commands. Each command has a
// fixed trigger matched case-insensitively from the start of the message;
// trailing content past the captured groups belongs to the free-text
// argument where one exists. The matcher table is compiled once at init and
// tried in order, first match wins.
package command

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a recognized command shape.
type Kind int

const (
	KindNone Kind = iota
	KindAdd
	KindDelete
	KindFindText
	KindFindAuthor
	KindGet
	KindRandom
	KindMostRecent
	KindTotal
	KindSetSafety
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindDelete:
		return "delete"
	case KindFindText:
		return "find-text"
	case KindFindAuthor:
		return "find-author"
	case KindGet:
		return "get"
	case KindRandom:
		return "random"
	case KindMostRecent:
		return "most-recent"
	case KindTotal:
		return "total"
	case KindSetSafety:
		return "set-safety"
	case KindHelp:
		return "help"
	default:
		return "none"
	}
}

// Command is a parsed message. Fields beyond Kind are populated per shape:
// ID for delete/get/set, Body for add/search/author text, Safety for the
// raw sfw/nsfw token when given, WantImage for image-restricted random.
type Command struct {
	Kind      Kind
	ID        int64
	Body      string
	Safety    string
	WantImage bool
}

var (
	addRe        = regexp.MustCompile(`(?is)^(\+quote|\.quote add)((\s+(sfw|nsfw))? (.+))?`)
	deleteRe     = regexp.MustCompile(`(?i)^(-quote|\.quote del) (\d+)`)
	findTextRe   = regexp.MustCompile(`(?is)^\.(quote search|quote with)\s(.+)`)
	findAuthorRe = regexp.MustCompile(`(?is)^\.(quote author|quote by)\s(.+)`)
	getRe        = regexp.MustCompile(`(?i)^\.(quote get|quote read)\s(\d+)`)
	randomRe     = regexp.MustCompile(`(?i)^\.quote random\s*(i)?\s*(sfw|nsfw)?`)
	mostRecentRe = regexp.MustCompile(`(?i)^\.quote last`)
	totalRe      = regexp.MustCompile(`(?i)^\.quote total`)
	setSafetyRe  = regexp.MustCompile(`(?i)^\.quote set\s+(\d+)\s+(sfw|nsfw)`)
	helpRe       = regexp.MustCompile(`(?i)^\.quote help`)
)

// Parse classifies a raw message. Unrecognized text yields Kind == KindNone.
func Parse(text string) Command {
	if m := addRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: KindAdd, Safety: strings.ToLower(m[4]), Body: m[5]}
	}
	if m := deleteRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: KindDelete, ID: parseID(m[2])}
	}
	if m := findTextRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: KindFindText, Body: m[2]}
	}
	if m := findAuthorRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: KindFindAuthor, Body: m[2]}
	}
	if m := getRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: KindGet, ID: parseID(m[2])}
	}
	if m := randomRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: KindRandom, WantImage: m[1] != "", Safety: strings.ToLower(m[2])}
	}
	if mostRecentRe.MatchString(text) {
		return Command{Kind: KindMostRecent}
	}
	if totalRe.MatchString(text) {
		return Command{Kind: KindTotal}
	}
	if m := setSafetyRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: KindSetSafety, ID: parseID(m[1]), Safety: strings.ToLower(m[2])}
	}
	if helpRe.MatchString(text) {
		return Command{Kind: KindHelp}
	}
	return Command{Kind: KindNone}
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// The pattern only captures digits; an overflowing id is treated as
		// a reference to a quote that cannot exist.
		return 0
	}
	return id
}
