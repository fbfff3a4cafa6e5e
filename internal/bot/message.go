package bot

import "context"

// Author identifies who wrote an inbound message, with the permission
// flags the chat platform resolved for them.
type Author struct {
	ID          string
	DisplayName string
	IsBot       bool
	CanSend     bool
	CanModerate bool
}

// Channel identifies where a message was posted.
type Channel struct {
	ID   string
	NSFW bool
}

// Attachment references an uploaded file on the chat platform.
type Attachment struct {
	URL      string
	Filename string
}

// Message is one inbound chat message in platform-neutral form.
type Message struct {
	Content     string
	Author      Author
	Channel     Channel
	Attachments []Attachment
	// Direct marks a one-to-one private context.
	Direct bool
}

// Sender delivers responses back to the chat platform.
type Sender interface {
	SendText(ctx context.Context, channelID, text string) error
	SendFile(ctx context.Context, channelID, text, path string) error
	SendDirect(ctx context.Context, userID, text string) error
}
