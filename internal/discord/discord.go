// Package discord connects the quote bot to Discord. It translates
// gateway events into platform-neutral messages and implements the
// outbound sender on top of a discordgo session.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"

	"quotebot/internal/bot"
)

// Client owns the gateway session for one bot account.
type Client struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// New creates a client for the given bot token. The session is not
// opened until Run is called.
func New(token string, logger *slog.Logger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &Client{session: session, logger: logger}, nil
}

// Run opens the gateway connection and dispatches inbound messages to
// the bot until ctx is cancelled.
func (c *Client) Run(ctx context.Context, b *bot.Bot) error {
	c.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.SetSelfID(r.User.ID)
		c.logger.Info("connected", "user", r.User.Username, "id", r.User.ID)
	})
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.HandleMessage(ctx, c.translate(m))
	})

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	<-ctx.Done()
	return c.session.Close()
}

// translate maps a gateway message event onto the neutral message type,
// resolving the channel flags and sender permissions the handlers need.
func (c *Client) translate(m *discordgo.MessageCreate) bot.Message {
	msg := bot.Message{
		Content: m.Content,
		Author: bot.Author{
			ID:          m.Author.ID,
			DisplayName: m.Author.Username,
			IsBot:       m.Author.Bot,
		},
		Channel: bot.Channel{ID: m.ChannelID},
	}

	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, bot.Attachment{
			URL:      a.URL,
			Filename: a.Filename,
		})
	}

	channel, err := c.channel(m.ChannelID)
	if err != nil {
		c.logger.Warn("channel lookup failed", "channel", m.ChannelID, "error", err)
		return msg
	}

	if channel.Type == discordgo.ChannelTypeDM {
		msg.Direct = true
		msg.Author.CanSend = true
		return msg
	}

	msg.Channel.NSFW = channel.NSFW
	perms, err := c.session.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		c.logger.Warn("permission lookup failed", "user", m.Author.ID, "channel", m.ChannelID, "error", err)
		return msg
	}
	msg.Author.CanSend = perms&discordgo.PermissionSendMessages != 0
	msg.Author.CanModerate = perms&discordgo.PermissionManageMessages != 0
	return msg
}

func (c *Client) channel(id string) (*discordgo.Channel, error) {
	if channel, err := c.session.State.Channel(id); err == nil {
		return channel, nil
	}
	return c.session.Channel(id)
}

// SendText posts a plain message to a channel.
func (c *Client) SendText(ctx context.Context, channelID, text string) error {
	_, err := c.session.ChannelMessageSend(channelID, text)
	return err
}

// SendFile posts a message with a file attached, read from a local path.
func (c *Client) SendFile(ctx context.Context, channelID, text, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.session.ChannelFileSendWithMessage(channelID, text, filepath.Base(path), f)
	return err
}

// SendDirect opens (or reuses) a DM channel with a user and posts to it.
func (c *Client) SendDirect(ctx context.Context, userID, text string) error {
	channel, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = c.session.ChannelMessageSend(channel.ID, text)
	return err
}

var _ bot.Sender = (*Client)(nil)
