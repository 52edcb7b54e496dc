package application

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/input"
	"bossbot/internal/ports/output"
)

const (
	listingPostRate    = 30 * time.Second
	listingBrowseLimit = 20
	listingMinLength   = 3
)

var _ input.ListingUseCase = (*ListingService)(nil)

// ListingService is the classifieds store (group-finder + market):
// TTL'd posts, a soft per-author throttle and a bump cooldown keyed by a
// text hash, so the same ad cannot ping the channel twice within its TTL.
type ListingService struct {
	listings output.ListingRepository
	clock    Clock
	ttl      time.Duration
}

func NewListingService(listings output.ListingRepository, clock Clock, ttl time.Duration) *ListingService {
	return &ListingService{listings: listings, clock: clock, ttl: ttl}
}

// NormSection maps user input onto a known section key.
func NormSection(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "lix"), strings.HasPrefix(s, "lfg"):
		return entities.SectionLix, nil
	case strings.HasPrefix(s, "mark"):
		return entities.SectionMarket, nil
	}
	return "", domain.ErrUnknownSection
}

func textHash(guildID, authorID, section, topicKey, text string) string {
	base := fmt.Sprintf("%s|%s|%s|%s|%s", guildID, authorID, section, topicKey, strings.ToLower(strings.TrimSpace(text)))
	sum := sha1.Sum([]byte(base))
	return hex.EncodeToString(sum[:])
}

func (s *ListingService) Post(ctx context.Context, guildID, section, topicKey, authorID, text string) (*input.PostResult, error) {
	section, err := NormSection(section)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if len(text) < listingMinLength {
		return nil, domain.ErrListingTooShort
	}
	now := s.clock.Now()

	last, err := s.listings.LastCreatedByAuthor(ctx, guildID, section, authorID)
	if err != nil {
		return nil, fmt.Errorf("throttle lookup: %w", err)
	}
	if !last.IsZero() && now.Sub(last) < listingPostRate {
		return nil, domain.ErrListingThrottled
	}

	hash := textHash(guildID, authorID, section, topicKey, text)
	prior, err := s.listings.FindByHash(ctx, guildID, section, authorID, topicKey, hash)
	if err != nil {
		return nil, fmt.Errorf("cooldown lookup: %w", err)
	}
	if prior != nil {
		if now.Sub(prior.LastBump) < s.ttl {
			return nil, domain.ErrListingOnCooldown
		}
		if prior.Active(now) {
			// Même annonce toujours en ligne: on la remonte au lieu de dupliquer.
			expires := now.Add(s.ttl)
			if err := s.listings.Bump(ctx, prior.ID, now, expires); err != nil {
				return nil, fmt.Errorf("bump listing #%d: %w", prior.ID, err)
			}
			prior.LastBump = now
			prior.ExpiresAt = expires
			return &input.PostResult{Listing: prior, Bumped: true}, nil
		}
	}

	listing := &entities.Listing{
		GuildID:   guildID,
		Section:   section,
		TopicKey:  topicKey,
		AuthorID:  authorID,
		Text:      text,
		TextHash:  hash,
		CreatedAt: now,
		LastBump:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return &input.PostResult{Listing: listing}, nil
}

func (s *ListingService) Browse(ctx context.Context, guildID, section, topicKey string) ([]entities.Listing, error) {
	section, err := NormSection(section)
	if err != nil {
		return nil, err
	}
	return s.listings.FindActive(ctx, guildID, section, topicKey, s.clock.Now(), listingBrowseLimit)
}

func (s *ListingService) Topics(ctx context.Context, guildID, section string) ([]entities.Topic, error) {
	section, err := NormSection(section)
	if err != nil {
		return nil, err
	}
	return s.listings.Topics(ctx, guildID, section)
}

func (s *ListingService) SectionConfig(ctx context.Context, guildID, section string) (*entities.SectionConfig, error) {
	section, err := NormSection(section)
	if err != nil {
		return nil, err
	}
	return s.listings.SectionConfig(ctx, guildID, section)
}

func (s *ListingService) SetSectionChannel(ctx context.Context, guildID, section, channelID string) error {
	section, err := NormSection(section)
	if err != nil {
		return err
	}
	return s.listings.SetSectionChannel(ctx, guildID, section, channelID)
}

func (s *ListingService) SetSectionRole(ctx context.Context, guildID, section, roleID string) error {
	section, err := NormSection(section)
	if err != nil {
		return err
	}
	return s.listings.SetSectionRole(ctx, guildID, section, roleID)
}

func (s *ListingService) AttachMessage(ctx context.Context, listing *entities.Listing, channelID, messageID string) error {
	if err := s.listings.SetMessage(ctx, listing.ID, channelID, messageID); err != nil {
		return fmt.Errorf("attach message to listing #%d: %w", listing.ID, err)
	}
	listing.ChannelID = channelID
	listing.MessageID = messageID
	return nil
}

func (s *ListingService) DeleteTopic(ctx context.Context, guildID, section, key string) error {
	section, err := NormSection(section)
	if err != nil {
		return err
	}
	return s.listings.DeleteTopic(ctx, guildID, section, strings.TrimSpace(key))
}

func (s *ListingService) SweepExpired(ctx context.Context) ([]entities.Listing, error) {
	return s.listings.DeleteExpired(ctx, s.clock.Now())
}

// defaultTopics seeded the first time a guild uses the classifieds.
var defaultTopics = map[string][]entities.Topic{
	entities.SectionLix: {
		{Key: "25–60", Emoji: "🧭", SortOrder: 10},
		{Key: "60–100", Emoji: "🧭", SortOrder: 20},
		{Key: "100–150", Emoji: "🧭", SortOrder: 30},
		{Key: "150–185", Emoji: "🧭", SortOrder: 40},
		{Key: "185+", Emoji: "🧭", SortOrder: 50},
		{Key: "Bounties/Dailies", Emoji: "📜", SortOrder: 60},
		{Key: "Proteus/Base", Emoji: "🧪", SortOrder: 70},
		{Key: "Gelebron", Emoji: "🏰", SortOrder: 80},
		{Key: "BT/Seeds", Emoji: "🌱", SortOrder: 90},
	},
	entities.SectionMarket: {
		{Key: "WTS", Emoji: "💰", SortOrder: 10},
		{Key: "WTB", Emoji: "🛒", SortOrder: 20},
		{Key: "Price Check", Emoji: "📈", SortOrder: 30},
		{Key: "Services", Emoji: "🧰", SortOrder: 40},
		{Key: "Keys/Shards", Emoji: "🗝️", SortOrder: 50},
		{Key: "Event Items", Emoji: "🎉", SortOrder: 60},
	},
}

// SeedTopics creates the default topic keys for both sections, only when
// a section has none yet (idempotent, never overwrites edits).
func (s *ListingService) SeedTopics(ctx context.Context, guildID string) error {
	for section, topics := range defaultTopics {
		existing, err := s.listings.Topics(ctx, guildID, section)
		if err != nil {
			return fmt.Errorf("seed topics %s: %w", section, err)
		}
		if len(existing) > 0 {
			continue
		}
		for i := range topics {
			t := topics[i]
			t.GuildID = guildID
			t.Section = section
			if err := s.listings.UpsertTopic(ctx, &t); err != nil {
				return fmt.Errorf("seed topic %s/%s: %w", section, t.Key, err)
			}
		}
	}
	return nil
}
