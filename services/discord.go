package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordService exposes the chat assistant as a Discord bot. Messages
// starting with the command prefix go through the same response generator
// as the HTTP surface, with one conversation session per user+channel.
type DiscordService struct {
	session       *discordgo.Session
	generator     *Generator
	commandPrefix string
	enabled       bool
	logger        *zap.Logger
}

// NewDiscordService creates a new Discord service instance. An empty token
// leaves the service disabled without failing startup.
func NewDiscordService(generator *Generator, token, commandPrefix string, logger *zap.Logger) *DiscordService {
	if commandPrefix == "" {
		commandPrefix = "!chat "
	}

	service := &DiscordService{
		generator:     generator,
		commandPrefix: commandPrefix,
		logger:        logger,
	}

	if token == "" {
		logger.Info("Discord bot disabled: DISCORD_BOT_TOKEN not set")
		return service
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("error creating Discord session", zap.Error(err))
		return service
	}

	session.AddHandler(func(s *discordgo.Session, event *discordgo.Ready) {
		logger.Info("Discord bot online",
			zap.String("username", event.User.Username),
			zap.Int("guilds", len(event.Guilds)))
	})
	session.AddHandler(service.messageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	service.session = session
	service.enabled = true
	logger.Info("Discord service initialized", zap.String("command_prefix", commandPrefix))

	return service
}

// Start opens the websocket connection to Discord.
func (d *DiscordService) Start() error {
	if !d.enabled {
		return fmt.Errorf("Discord service not enabled (missing bot token)")
	}
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	d.logger.Info("Discord bot started", zap.String("command_prefix", strings.TrimSpace(d.commandPrefix)))
	return nil
}

// Stop closes the Discord connection.
func (d *DiscordService) Stop() error {
	if d.session != nil {
		return d.session.Close()
	}
	return nil
}

// IsEnabled returns whether the Discord service is configured.
func (d *DiscordService) IsEnabled() bool {
	return d.enabled
}

// messageCreate handles incoming Discord messages.
func (d *DiscordService) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, d.commandPrefix) {
		return
	}

	message := strings.TrimSpace(m.Content[len(d.commandPrefix):])
	if message == "" {
		d.sendMessage(s, m.ChannelID, fmt.Sprintf("Please provide a message after `%s`", strings.TrimSpace(d.commandPrefix)))
		return
	}

	_ = s.ChannelTyping(m.ChannelID)

	// One conversation per user per channel.
	sessionID := fmt.Sprintf("discord_%s_%s", m.Author.ID, m.ChannelID)
	result := d.generator.Generate(context.Background(), sessionID, message)

	d.sendMessage(s, m.ChannelID, result.Response)

	d.logger.Info("Discord chat handled",
		zap.String("user", m.Author.Username),
		zap.String("channel_id", m.ChannelID),
		zap.String("mode", result.Mode),
		zap.Bool("success", result.Success))
}

// sendMessage sends a message to Discord, splitting past the 2000 char limit.
func (d *DiscordService) sendMessage(s *discordgo.Session, channelID, message string) {
	if len(message) <= 2000 {
		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			d.logger.Error("error sending Discord message", zap.Error(err))
		}
		return
	}

	chunks := splitMessage(message, 1900)
	for i, chunk := range chunks {
		if i > 0 {
			chunk = "...continued:\n" + chunk
		}
		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			d.logger.Error("error sending Discord message chunk", zap.Error(err))
		}
		// Small delay between chunks to stay under Discord rate limits.
		time.Sleep(200 * time.Millisecond)
	}
}

// splitMessage splits a message into chunks respecting word boundaries.
// Chunk boundaries never land mid-rune; Discord rejects message bodies
// that are not valid UTF-8.
func splitMessage(message string, maxLength int) []string {
	if len(message) <= maxLength {
		return []string{message}
	}

	var chunks []string
	for len(message) > maxLength {
		splitIndex := maxLength
		if spaceIndex := strings.LastIndex(message[:maxLength], " "); spaceIndex > maxLength/2 {
			splitIndex = spaceIndex
		} else {
			for splitIndex > 0 && !utf8.RuneStart(message[splitIndex]) {
				splitIndex--
			}
		}
		chunks = append(chunks, message[:splitIndex])
		message = strings.TrimPrefix(message[splitIndex:], " ")
	}
	if len(message) > 0 {
		chunks = append(chunks, message)
	}
	return chunks
}

// GetStatus returns the current status of the Discord service.
func (d *DiscordService) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"enabled":        d.enabled,
		"command_prefix": d.commandPrefix,
	}
	if d.enabled && d.session != nil && d.session.State.User != nil {
		status["status"] = "connected"
		status["username"] = d.session.State.User.Username
		status["guilds"] = len(d.session.State.Guilds)
	} else if d.enabled {
		status["status"] = "initialized_not_started"
	} else {
		status["status"] = "disabled"
	}
	return status
}
