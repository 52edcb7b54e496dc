package discord

import (
	"bossbot/internal/application"
	"bossbot/internal/ports/input"
	"bossbot/internal/ports/output"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	tracker  input.TrackerUseCase
	subs     input.SubscriptionUseCase
	listings input.ListingUseCase
	guilds   output.GuildConfigRepository
	clock    application.Clock
	grace    int
}

// NewHandler creates a Handler.
func NewHandler(
	tracker input.TrackerUseCase,
	subs input.SubscriptionUseCase,
	listings input.ListingUseCase,
	guilds output.GuildConfigRepository,
	clock application.Clock,
	graceSeconds int,
) *Handler {
	return &Handler{
		tracker:  tracker,
		subs:     subs,
		listings: listings,
		guilds:   guilds,
		clock:    clock,
		grace:    graceSeconds,
	}
}
