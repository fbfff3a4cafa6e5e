package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quotebot/internal/command"
	"quotebot/internal/models"
	"quotebot/internal/quotes"
	"quotebot/internal/store"
)

const (
	permissionDeniedText = "User has insufficient permissions for this action."
	timestampLayout      = "02 January 2006, 15:04:05"
)

// imageExtensions mirrors the suffixes the bot treats as image uploads.
var imageExtensions = []string{"png", "jpeg", "gif", "jpg"}

// Bot consumes inbound messages, matches them against the command grammar,
// enforces permissions, and drives the quote service.
type Bot struct {
	svc     *quotes.Service
	sender  Sender
	ownerID string
	selfID  string
	logger  *slog.Logger
	now     func() time.Time
}

// New constructs a Bot. ownerID is the configured owner identity on the
// chat platform.
func New(svc *quotes.Service, sender Sender, ownerID string, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		svc:     svc,
		sender:  sender,
		ownerID: ownerID,
		logger:  logger,
		now:     time.Now,
	}
}

// SetSelfID records the bot's own account id so its messages are ignored.
// Known only after the platform session is established.
func (b *Bot) SetSelfID(id string) {
	b.selfID = id
}

// HandleMessage processes one inbound message end to end. It never panics
// outward: a failure while handling one message must not stop the next.
func (b *Bot) HandleMessage(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling message", "author", msg.Author.ID, "panic", r)
		}
	}()

	if b.ignore(msg) {
		return
	}

	cmd := command.Parse(msg.Content)
	switch cmd.Kind {
	case command.KindNone:
		return
	case command.KindAdd:
		b.handleAdd(ctx, msg, cmd)
	case command.KindDelete:
		b.handleDelete(ctx, msg, cmd)
	case command.KindFindText:
		b.handleFindText(ctx, msg, cmd)
	case command.KindFindAuthor:
		b.handleFindAuthor(ctx, msg, cmd)
	case command.KindGet:
		b.postQuote(ctx, msg.Channel, cmd.ID)
	case command.KindRandom:
		b.handleRandom(ctx, msg, cmd)
	case command.KindMostRecent:
		b.handleMostRecent(ctx, msg)
	case command.KindTotal:
		b.handleTotal(ctx, msg)
	case command.KindSetSafety:
		b.handleSetSafety(ctx, msg, cmd)
	case command.KindHelp:
		b.handleHelp(ctx, msg)
	}
}

// ignore filters messages that never reach the grammar: the bot's own,
// those of other automated accounts, and private messages from anyone but
// the owner.
func (b *Bot) ignore(msg Message) bool {
	if b.selfID != "" && msg.Author.ID == b.selfID {
		return true
	}
	if msg.Author.IsBot {
		return true
	}
	if msg.Direct && msg.Author.ID != b.ownerID {
		return true
	}
	return false
}

func (b *Bot) isOwner(author Author) bool {
	return author.ID == b.ownerID
}

// canModerate gates deletion and safety changes.
func (b *Bot) canModerate(author Author) bool {
	return b.isOwner(author) || author.CanModerate
}

func (b *Bot) handleAdd(ctx context.Context, msg Message, cmd command.Command) {
	if !b.isOwner(msg.Author) && !msg.Author.CanSend {
		b.reply(ctx, msg.Channel.ID, permissionDeniedText)
		return
	}

	images := imageAttachments(msg.Attachments)
	safety, err := models.ClassifyAtCreate(cmd.Safety, len(images) > 0)
	if err != nil {
		b.logger.Warn("unparseable safety token", "token", cmd.Safety, "error", err)
		return
	}

	createdAt := float64(b.now().UnixNano()) / 1e9
	author := msg.Author.DisplayName

	if len(images) == 0 {
		if cmd.Body == "" {
			return
		}
		id, err := b.svc.AddText(ctx, cmd.Body, safety, author, createdAt)
		if err != nil {
			b.logger.Error("could not add quote", "error", err)
			return
		}
		b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Added #%d to the store.", id))
		return
	}

	// Each attachment becomes its own record; a failed download does not
	// abort its siblings.
	for _, image := range images {
		id, err := b.svc.AddImage(ctx, image.URL, cmd.Body, safety, author, createdAt)
		if err != nil {
			b.logger.Warn("could not save image quote", "url", image.URL, "error", err)
			b.reply(ctx, msg.Channel.ID, fmt.Sprintf("There was an error saving %s.", image.URL))
			continue
		}
		b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Added quote #%d to the store with image <%s>.", id, image.URL))
	}
}

func (b *Bot) handleDelete(ctx context.Context, msg Message, cmd command.Command) {
	if !b.canModerate(msg.Author) {
		b.reply(ctx, msg.Channel.ID, permissionDeniedText)
		return
	}

	err := b.svc.Delete(ctx, cmd.ID)
	if errors.Is(err, store.ErrNotFound) {
		b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Quote #%d is not in the store.", cmd.ID))
		return
	}
	if err != nil {
		b.logger.Error("could not delete quote", "quote_id", cmd.ID, "error", err)
		return
	}
	b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Quote #%d has been deleted.", cmd.ID))
}

func (b *Bot) handleFindText(ctx context.Context, msg Message, cmd command.Command) {
	ids, err := b.svc.FindByText(ctx, cmd.Body)
	if err != nil {
		b.logger.Error("text search failed", "error", err)
		return
	}
	switch len(ids) {
	case 0:
		b.reply(ctx, msg.Channel.ID, "No quotes that contain the search in the store.")
	case 1:
		b.postQuote(ctx, msg.Channel, ids[0])
	default:
		b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Quotes that contain the search include %s.", joinIDs(ids)))
	}
}

func (b *Bot) handleFindAuthor(ctx context.Context, msg Message, cmd command.Command) {
	ids, err := b.svc.FindByAuthor(ctx, cmd.Body)
	if err != nil {
		b.logger.Error("author search failed", "error", err)
		return
	}
	switch len(ids) {
	case 0:
		b.reply(ctx, msg.Channel.ID, fmt.Sprintf("No quotes authored by %s in the store.", cmd.Body))
	case 1:
		b.postQuote(ctx, msg.Channel, ids[0])
	default:
		b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Quotes authored by %s include %s.", cmd.Body, joinIDs(ids)))
	}
}

func (b *Bot) handleRandom(ctx context.Context, msg Message, cmd command.Command) {
	safety, err := models.DefaultRandomSafety(cmd.Safety, cmd.WantImage, msg.Channel.NSFW)
	if err != nil {
		b.logger.Warn("unparseable safety token", "token", cmd.Safety, "error", err)
		return
	}

	id, ok, err := b.svc.RandomID(ctx, cmd.WantImage, safety)
	if err != nil {
		b.logger.Error("random lookup failed", "error", err)
		return
	}
	if !ok {
		if cmd.WantImage {
			b.reply(ctx, msg.Channel.ID, "No image quotes with the given safety level.")
		} else {
			b.reply(ctx, msg.Channel.ID, "No quotes with the given safety level.")
		}
		return
	}
	b.postQuote(ctx, msg.Channel, id)
}

func (b *Bot) handleMostRecent(ctx context.Context, msg Message) {
	max := models.SafetySFW
	if msg.Channel.NSFW {
		max = models.SafetyNSFW
	}

	id, err := b.svc.MostRecentID(ctx, max)
	if errors.Is(err, store.ErrNotFound) {
		b.reply(ctx, msg.Channel.ID, "No quotes in the store at or below the channel's safety level.")
		return
	}
	if err != nil {
		b.logger.Error("most-recent lookup failed", "error", err)
		return
	}
	b.postQuote(ctx, msg.Channel, id)
}

func (b *Bot) handleTotal(ctx context.Context, msg Message) {
	count, err := b.svc.Count(ctx)
	if err != nil {
		b.logger.Error("count failed", "error", err)
		return
	}
	b.reply(ctx, msg.Channel.ID, fmt.Sprintf("%d quotes in the store.", count))
}

func (b *Bot) handleSetSafety(ctx context.Context, msg Message, cmd command.Command) {
	if !b.canModerate(msg.Author) {
		b.reply(ctx, msg.Channel.ID, permissionDeniedText)
		return
	}

	level, err := models.ParseSafety(cmd.Safety)
	if err != nil {
		b.logger.Warn("unparseable safety token", "token", cmd.Safety, "error", err)
		return
	}

	err = b.svc.SetSafety(ctx, cmd.ID, level)
	if errors.Is(err, store.ErrNotFound) {
		b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Quote #%d is not in the store.", cmd.ID))
		return
	}
	if err != nil {
		b.logger.Error("could not change safety", "quote_id", cmd.ID, "error", err)
		return
	}
	b.reply(ctx, msg.Channel.ID, fmt.Sprintf("Changed the safety level of Quote #%d.", cmd.ID))
}

func (b *Bot) handleHelp(ctx context.Context, msg Message) {
	text := fmt.Sprintf("```%s```", helpText)
	if err := b.sender.SendDirect(ctx, msg.Author.ID, text); err != nil {
		b.logger.Error("could not send help", "user", msg.Author.ID, "error", err)
	}
}

// postQuote formats and sends one quote. Image display is gated on the
// channel's NSFW flag: the store hands the quote over either way, and the
// refusal to show an NSFW image in an SFW channel happens here.
func (b *Bot) postQuote(ctx context.Context, channel Channel, id int64) {
	quote, err := b.svc.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		b.reply(ctx, channel.ID, fmt.Sprintf("Quote #%d is not in the store.", id))
		return
	}
	if err != nil {
		b.logger.Error("could not load quote", "quote_id", id, "error", err)
		return
	}

	response := fmt.Sprintf("#%d added by %s at %s", quote.ID, quote.Author, quote.CreatedTime().Format(timestampLayout))
	if quote.HasText() {
		response += fmt.Sprintf(":\n```%s```", quote.Text)
	} else {
		response += "."
	}

	if !quote.HasImage() {
		b.reply(ctx, channel.ID, response)
		return
	}

	if quote.Safety == models.SafetyNSFW && !channel.NSFW {
		b.reply(ctx, channel.ID, fmt.Sprintf("NSFW images are not permitted in this channel, quote #%d was not posted.", quote.ID))
		return
	}

	path, ok := b.svc.ImagePath(quote.ImageName)
	if !ok {
		b.logger.Warn("quote image missing on disk", "quote_id", quote.ID, "name", quote.ImageName)
		b.reply(ctx, channel.ID, "Found a matching image, but it could not be retrieved. Please contact the administrator.")
		return
	}

	if err := b.sender.SendFile(ctx, channel.ID, response, path); err != nil {
		b.logger.Error("could not send image", "quote_id", quote.ID, "error", err)
	}
}

func (b *Bot) reply(ctx context.Context, channelID, text string) {
	if err := b.sender.SendText(ctx, channelID, text); err != nil {
		b.logger.Error("could not send response", "channel", channelID, "error", err)
	}
}

func imageAttachments(attachments []Attachment) []Attachment {
	var images []Attachment
	for _, attachment := range attachments {
		name := strings.ToLower(attachment.Filename)
		for _, ext := range imageExtensions {
			if strings.HasSuffix(name, ext) {
				images = append(images, attachment)
				break
			}
		}
	}
	return images
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
