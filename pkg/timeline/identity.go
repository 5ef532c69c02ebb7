package timeline

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/models"
	"golang.org/x/sync/errgroup"
)

// resolveAuthors looks up each distinct user id once. Failed lookups are
// logged and left out of the result so their messages keep no author info.
func (e *Engine) resolveAuthors(ctx context.Context, p Platform, users []string) map[string]*models.AuthorInfo {
	seen := make(map[string]bool, len(users))
	var distinct []string
	for _, id := range users {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}

	var mu sync.Mutex
	authors := make(map[string]*models.AuthorInfo, len(distinct))

	var g errgroup.Group
	g.SetLimit(e.opts.MaxConcurrency)
	for _, id := range distinct {
		id := id
		g.Go(func() error {
			info, err := p.UserInfo(ctx, id)
			if err != nil {
				log.Warn().Err(err).Str("userID", id).Msg("Failed to resolve author, keeping message without user info")
				return nil
			}
			if info == nil {
				return nil
			}

			mu.Lock()
			authors[id] = info
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return authors
}
