package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bossbot/internal/domain"
	"bossbot/internal/domain/entities"
	"bossbot/internal/ports/output"
)

// fakeClock is a hand-driven clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// memBossRepo is an in-memory BossRepository. scanErr, when set, is
// returned by the scheduler scans to simulate an unavailable store.
type memBossRepo struct {
	mu      sync.Mutex
	nextID  uint
	bosses  map[uint]*entities.Boss
	scanErr error
}

var _ output.BossRepository = (*memBossRepo)(nil)

func newMemBossRepo() *memBossRepo {
	return &memBossRepo{bosses: make(map[uint]*entities.Boss)}
}

func (r *memBossRepo) Create(_ context.Context, boss *entities.Boss) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	boss.ID = r.nextID
	clone := *boss
	r.bosses[boss.ID] = &clone
	return nil
}

func (r *memBossRepo) FindByID(_ context.Context, guildID string, id uint) (*entities.Boss, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bosses[id]
	if !ok || b.GuildID != guildID {
		return nil, domain.ErrBossNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memBossRepo) ResolveIdentifier(_ context.Context, guildID, identifier string) (*entities.Boss, error) {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	match := func(test func(string) bool) []*entities.Boss {
		var hits []*entities.Boss
		for _, b := range r.bosses {
			if b.GuildID != guildID {
				continue
			}
			names := append([]string{b.Name}, b.Aliases...)
			for _, n := range names {
				if test(strings.ToLower(n)) {
					hits = append(hits, b)
					break
				}
			}
		}
		return hits
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, test := range []func(string) bool{
		func(n string) bool { return n == needle },
		func(n string) bool { return strings.HasPrefix(n, needle) },
		func(n string) bool { return strings.Contains(n, needle) },
	} {
		hits := match(test)
		if len(hits) == 1 {
			clone := *hits[0]
			return &clone, nil
		}
		if len(hits) > 1 {
			return nil, domain.ErrBossAmbiguous
		}
	}
	return nil, domain.ErrBossNotFound
}

func (r *memBossRepo) ListByGuild(_ context.Context, guildID, categoryFilter string) ([]entities.Boss, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Boss
	for _, b := range r.bosses {
		if b.GuildID != guildID {
			continue
		}
		if categoryFilter != "" && b.Category != categoryFilter {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBossRepo) FindUpcoming(_ context.Context, now time.Time) ([]entities.Boss, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	var out []entities.Boss
	for _, b := range r.bosses {
		if b.NextSpawn.After(now) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBossRepo) FindDue(_ context.Context, now time.Time) ([]entities.Boss, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	var out []entities.Boss
	for _, b := range r.bosses {
		if !b.NextSpawn.After(now) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBossRepo) Update(_ context.Context, boss *entities.Boss) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.bosses[boss.ID]
	if !ok || cur.GuildID != boss.GuildID {
		return domain.ErrBossNotFound
	}
	clone := *boss
	r.bosses[boss.ID] = &clone
	return nil
}

func (r *memBossRepo) SetNextSpawn(_ context.Context, guildID string, id uint, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bosses[id]
	if !ok || b.GuildID != guildID {
		return domain.ErrBossNotFound
	}
	b.NextSpawn = ts
	return nil
}

func (r *memBossRepo) AdjustNextSpawn(_ context.Context, guildID string, id uint, delta time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bosses[id]
	if !ok || b.GuildID != guildID {
		return domain.ErrBossNotFound
	}
	b.NextSpawn = b.NextSpawn.Add(delta)
	return nil
}

func (r *memBossRepo) AddAlias(_ context.Context, guildID string, id uint, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bosses[id]
	if !ok || b.GuildID != guildID {
		return domain.ErrBossNotFound
	}
	for _, a := range b.Aliases {
		if a == alias {
			return nil
		}
	}
	b.Aliases = append(b.Aliases, alias)
	return nil
}

func (r *memBossRepo) RemoveAlias(_ context.Context, guildID, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bosses {
		if b.GuildID != guildID {
			continue
		}
		for i, a := range b.Aliases {
			if a == alias {
				b.Aliases = append(b.Aliases[:i], b.Aliases[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *memBossRepo) Delete(_ context.Context, guildID string, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bosses[id]
	if !ok || b.GuildID != guildID {
		return domain.ErrBossNotFound
	}
	delete(r.bosses, id)
	return nil
}

// memMetaRepo is an in-memory MetaRepository.
type memMetaRepo struct {
	mu     sync.Mutex
	values map[string]string
}

var _ output.MetaRepository = (*memMetaRepo)(nil)

func newMemMetaRepo() *memMetaRepo { return &memMetaRepo{values: make(map[string]string)} }

func (r *memMetaRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *memMetaRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memMetaRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

// memSubRepo is an in-memory SubscriptionRepository.
type memSubRepo struct {
	mu      sync.Mutex
	members map[string]map[uint]map[string]struct{} // guild -> boss -> users
}

var _ output.SubscriptionRepository = (*memSubRepo)(nil)

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{members: make(map[string]map[uint]map[string]struct{})}
}

func (r *memSubRepo) Add(_ context.Context, guildID string, bossID uint, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[guildID] == nil {
		r.members[guildID] = make(map[uint]map[string]struct{})
	}
	if r.members[guildID][bossID] == nil {
		r.members[guildID][bossID] = make(map[string]struct{})
	}
	r.members[guildID][bossID][userID] = struct{}{}
	return nil
}

func (r *memSubRepo) Remove(_ context.Context, guildID string, bossID uint, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if users := r.members[guildID][bossID]; users != nil {
		delete(users, userID)
	}
	return nil
}

func (r *memSubRepo) Subscribers(_ context.Context, guildID string, bossID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for u := range r.members[guildID][bossID] {
		out = append(out, u)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memSubRepo) SubscriptionsOf(_ context.Context, guildID, userID string) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint
	for bossID, users := range r.members[guildID] {
		if _, ok := users[userID]; ok {
			out = append(out, bossID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// recordNotifier captures every delivered transition. failNext makes the
// next delivery fail once.
type recordNotifier struct {
	mu       sync.Mutex
	sent     []sentNotification
	failNext error
}

type sentNotification struct {
	transition entities.Transition
	recipients []string
}

var _ output.Notifier = (*recordNotifier)(nil)

func (n *recordNotifier) NotifyTransition(_ context.Context, t entities.Transition, recipients []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext != nil {
		err := n.failNext
		n.failNext = nil
		return err
	}
	n.sent = append(n.sent, sentNotification{transition: t, recipients: recipients})
	return nil
}

func (n *recordNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

func (n *recordNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

// memListingRepo is an in-memory ListingRepository.
type memListingRepo struct {
	mu       sync.Mutex
	nextID   uint
	listings map[uint]*entities.Listing
	sections map[string]*entities.SectionConfig // guild|section
	topics   map[string][]entities.Topic        // guild|section
}

var _ output.ListingRepository = (*memListingRepo)(nil)

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{
		listings: make(map[uint]*entities.Listing),
		sections: make(map[string]*entities.SectionConfig),
		topics:   make(map[string][]entities.Topic),
	}
}

func sectionKey(guildID, section string) string { return guildID + "|" + section }

func (r *memListingRepo) Create(_ context.Context, listing *entities.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	listing.ID = r.nextID
	clone := *listing
	r.listings[listing.ID] = &clone
	return nil
}

func (r *memListingRepo) FindActive(_ context.Context, guildID, section, topicKey string, now time.Time, limit int) ([]entities.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Listing
	for _, l := range r.listings {
		if l.GuildID != guildID || l.Section != section || !l.ExpiresAt.After(now) {
			continue
		}
		if topicKey != "" && !strings.EqualFold(l.TopicKey, topicKey) {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memListingRepo) FindByHash(_ context.Context, guildID, section, authorID, topicKey, hash string) (*entities.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *entities.Listing
	for _, l := range r.listings {
		if l.GuildID != guildID || l.Section != section || l.AuthorID != authorID {
			continue
		}
		if l.TopicKey != topicKey || l.TextHash != hash {
			continue
		}
		if newest == nil || l.CreatedAt.After(newest.CreatedAt) {
			newest = l
		}
	}
	if newest == nil {
		return nil, nil
	}
	clone := *newest
	return &clone, nil
}

func (r *memListingRepo) LastCreatedByAuthor(_ context.Context, guildID, section, authorID string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last time.Time
	for _, l := range r.listings {
		if l.GuildID == guildID && l.Section == section && l.AuthorID == authorID && l.CreatedAt.After(last) {
			last = l.CreatedAt
		}
	}
	return last, nil
}

func (r *memListingRepo) Bump(_ context.Context, id uint, now, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrStoreUnavailable
	}
	l.LastBump = now
	l.ExpiresAt = expires
	return nil
}

func (r *memListingRepo) SetMessage(_ context.Context, id uint, channelID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return domain.ErrStoreUnavailable
	}
	l.ChannelID = channelID
	l.MessageID = messageID
	return nil
}

func (r *memListingRepo) DeleteExpired(_ context.Context, now time.Time) ([]entities.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Listing
	for id, l := range r.listings {
		if !l.ExpiresAt.After(now) {
			out = append(out, *l)
			delete(r.listings, id)
		}
	}
	return out, nil
}

func (r *memListingRepo) SectionConfig(_ context.Context, guildID, section string) (*entities.SectionConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.sections[sectionKey(guildID, section)]; ok {
		clone := *cfg
		return &clone, nil
	}
	return &entities.SectionConfig{GuildID: guildID, Section: section}, nil
}

func (r *memListingRepo) SetSectionChannel(_ context.Context, guildID, section, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sectionKey(guildID, section)
	if r.sections[key] == nil {
		r.sections[key] = &entities.SectionConfig{GuildID: guildID, Section: section}
	}
	r.sections[key].PostChannelID = channelID
	return nil
}

func (r *memListingRepo) SetSectionRole(_ context.Context, guildID, section, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sectionKey(guildID, section)
	if r.sections[key] == nil {
		r.sections[key] = &entities.SectionConfig{GuildID: guildID, Section: section}
	}
	r.sections[key].PingRoleID = roleID
	return nil
}

func (r *memListingRepo) Topics(_ context.Context, guildID, section string) ([]entities.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Topic(nil), r.topics[sectionKey(guildID, section)]...), nil
}

func (r *memListingRepo) UpsertTopic(_ context.Context, topic *entities.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sectionKey(topic.GuildID, topic.Section)
	for i, t := range r.topics[key] {
		if t.Key == topic.Key {
			r.topics[key][i] = *topic
			return nil
		}
	}
	r.topics[key] = append(r.topics[key], *topic)
	return nil
}

func (r *memListingRepo) DeleteTopic(_ context.Context, guildID, section, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sk := sectionKey(guildID, section)
	for i, t := range r.topics[sk] {
		if t.Key == key {
			r.topics[sk] = append(r.topics[sk][:i], r.topics[sk][i+1:]...)
			return nil
		}
	}
	return nil
}
