package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordSession is the part of *discordgo.Session the notifier uses.
type DiscordSession interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts notifications as embeds into one channel. High
// urgency pings @here since the embed alone can't demand attention.
type DiscordNotifier struct {
	session   DiscordSession
	channelID string
	now       func() time.Time
	observe   func(time.Duration)
}

func NewDiscordNotifier(session DiscordSession, channelID string, observe func(time.Duration)) *DiscordNotifier {
	if observe == nil {
		observe = func(time.Duration) {}
	}
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
		now:       time.Now,
		observe:   observe,
	}
}

// RequestPermission grants when the channel is reachable with the bot's
// credentials.
func (d *DiscordNotifier) RequestPermission(ctx context.Context) (Permission, error) {
	if _, err := d.session.Channel(d.channelID, discordgo.WithContext(ctx)); err != nil {
		return PermissionDenied, fmt.Errorf("(*DiscordNotifier).RequestPermission: %w", err)
	}
	return PermissionGranted, nil
}

func (d *DiscordNotifier) Notify(ctx context.Context, n Notification) error {
	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{ToDiscordEmbed(n, d.now())},
	}
	if n.RequireInteraction {
		msg.Content = "@here"
		msg.AllowedMentions = &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone},
		}
	}
	startTimer := time.Now()
	if _, err := d.session.ChannelMessageSendComplex(d.channelID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("(*DiscordNotifier).Notify: %w", err)
	}
	d.observe(time.Since(startTimer))
	return nil
}

func urgencyColor(u Urgency) int {
	switch u {
	case UrgencyHigh:
		return 0xE53935
	case UrgencyMedium:
		return 0xFB8C00
	default:
		return 0x1E88E5
	}
}

func ToDiscordEmbed(n Notification, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Body,
		Color:       urgencyColor(n.Urgency),
		Timestamp:   now.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Urgency",
				Value:  n.Urgency.Label(),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: n.Tag,
		},
	}
}
