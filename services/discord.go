package services

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"urc/models"
)

// discordMessageLimit is the maximum length of a single Discord message
const discordMessageLimit = 2000

// messageSender is the subset of *discordgo.Session used for notifications
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts notifications to a Discord channel
type DiscordNotifier struct {
	sender    messageSender
	channelID string
	logger    *slog.Logger
}

// NewDiscordNotifier creates a notifier posting through a bot token to channelID
func NewDiscordNotifier(token, channelID string, logger *slog.Logger) (*DiscordNotifier, error) {
	if token == "" || channelID == "" {
		return nil, errors.New("discord notifier needs both a bot token and a channel id")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "error creating Discord session")
	}

	logger.Info("discord notifier initialized", "channel", channelID)
	return newDiscordNotifier(session, channelID, logger), nil
}

func newDiscordNotifier(sender messageSender, channelID string, logger *slog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		sender:    sender,
		channelID: channelID,
		logger:    logger,
	}
}

// Notify posts the message prefixed with its alert class
func (d *DiscordNotifier) Notify(message string, kind models.NotificationType) {
	d.send(fmt.Sprintf("[%s] %s", kind.AlertClass(), message))
}

// Loading posts only when the indicator is shown
func (d *DiscordNotifier) Loading(show bool, message string) {
	if !show {
		return
	}
	if message == "" {
		message = models.DefaultLoadingMessage
	}
	d.send("⏳ " + message)
}

func (d *DiscordNotifier) send(message string) {
	for _, chunk := range splitMessage(message, discordMessageLimit-100) {
		if _, err := d.sender.ChannelMessageSend(d.channelID, chunk); err != nil {
			d.logger.Error("error sending Discord message", "channel", d.channelID, "error", err)
			return
		}
	}
}

// splitMessage splits a message into chunks respecting word and rune boundaries
func splitMessage(message string, maxLength int) []string {
	if len(message) <= maxLength {
		return []string{message}
	}

	var chunks []string
	for len(message) > maxLength {
		splitIndex := maxLength
		if spaceIndex := strings.LastIndex(message[:maxLength], " "); spaceIndex > maxLength/2 {
			splitIndex = spaceIndex
		}
		for splitIndex > 0 && !utf8.RuneStart(message[splitIndex]) {
			splitIndex--
		}
		if splitIndex == 0 {
			_, splitIndex = utf8.DecodeRuneInString(message)
		}

		chunks = append(chunks, message[:splitIndex])
		message = strings.TrimPrefix(message[splitIndex:], " ")
	}

	if len(message) > 0 {
		chunks = append(chunks, message)
	}

	return chunks
}
