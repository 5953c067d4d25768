// Package notify keeps the notification inbox live: a REST-fetched list plus
// a reconnecting websocket channel that prepends pushed items.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"dutychart/internal/model"
)

// Fetcher is the REST surface the inbox needs. *api.Client satisfies it.
type Fetcher interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Navigator follows a notification's link. The routing layer implements it.
type Navigator interface {
	Navigate(link string)
}

// Inbox is the in-memory notification list with its unread counter. Pushed
// items are applied in arrival order by prepending; no de-duplication against
// the fetched list is performed.
type Inbox struct {
	client Fetcher
	nav    Navigator
	logger *zerolog.Logger

	mu     sync.Mutex
	items  []model.Notification
	unread int
}

// NewInbox builds an empty inbox; call Refresh to populate it.
func NewInbox(client Fetcher, nav Navigator, logger *zerolog.Logger) *Inbox {
	return &Inbox{client: client, nav: nav, logger: logger}
}

// Refresh refetches the list and recomputes the unread count. Fetch failures
// only log and leave prior state intact.
func (b *Inbox) Refresh(ctx context.Context) {
	items, err := b.client.ListNotifications(ctx)
	if err != nil {
		if b.logger != nil {
			b.logger.Error().Err(err).Msg("failed to fetch notifications")
		}
		return
	}

	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}

	b.mu.Lock()
	b.items = items
	b.unread = unread
	b.mu.Unlock()
}

// Receive applies one pushed notification: prepend and bump the unread count.
// Wired as the listener's OnNotification callback.
func (b *Inbox) Receive(n model.Notification) {
	b.mu.Lock()
	b.items = append([]model.Notification{n}, b.items...)
	b.unread++
	b.mu.Unlock()
}

// Click handles selecting a notification: unread items get marked read
// (fire-and-forget, then a full refetch) and links are followed.
func (b *Inbox) Click(ctx context.Context, n model.Notification) {
	if !n.IsRead {
		if err := b.client.MarkNotificationRead(ctx, n.ID); err != nil {
			if b.logger != nil {
				b.logger.Error().Err(err).Int64("id", n.ID).Msg("failed to mark notification as read")
			}
		}
		b.Refresh(ctx)
	}
	if n.Link != "" && b.nav != nil {
		b.nav.Navigate(n.Link)
	}
}

// MarkAllRead marks the whole inbox read, then refetches.
func (b *Inbox) MarkAllRead(ctx context.Context) {
	if err := b.client.MarkAllNotificationsRead(ctx); err != nil {
		if b.logger != nil {
			b.logger.Error().Err(err).Msg("failed to mark all notifications as read")
		}
	}
	b.Refresh(ctx)
}

// Items returns a copy of the current list, newest first.
func (b *Inbox) Items() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Notification, len(b.items))
	copy(out, b.items)
	return out
}

// Unread returns the unread count.
func (b *Inbox) Unread() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// Badge renders the unread badge text, capping at "9+".
func (b *Inbox) Badge() string {
	n := b.Unread()
	switch {
	case n <= 0:
		return ""
	case n > 9:
		return "9+"
	default:
		return string(rune('0' + n))
	}
}
