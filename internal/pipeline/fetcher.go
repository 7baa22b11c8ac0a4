// Package pipeline contains the slideshow pipeline stages: diff fetching,
// per-file decryption, eligibility filtering, content materialization and
// the playback scheduler driving them.
package pipeline

import (
	"context"

	"github.com/dmitrijs2005/photocast/internal/castclient"
	"github.com/dmitrijs2005/photocast/internal/logging"
	"github.com/dmitrijs2005/photocast/internal/models"
)

// Fetcher pages the remote collection's change log into the flat set of
// currently live (non-deleted) encrypted file records.
type Fetcher struct {
	client castclient.Client
	log    logging.Logger
}

func NewFetcher(client castclient.Client, log logging.Logger) *Fetcher {
	return &Fetcher{client: client, log: log}
}

// FetchAll walks the change log from cursor zero until the server reports no
// more pages. The cursor advances to the maximum updationTime seen on each
// page and never moves backward. Any page failure propagates untouched: the
// file set is unknown, so no per-item containment is possible.
func (f *Fetcher) FetchAll(ctx context.Context) ([]*models.EncryptedFile, error) {
	var (
		live  []*models.EncryptedFile
		since int64
	)

	for {
		page, err := f.client.FetchDiff(ctx, since)
		if err != nil {
			return nil, err
		}

		for _, rec := range page.Diff {
			if rec.UpdationTime > since {
				since = rec.UpdationTime
			}
			if rec.IsDeleted {
				continue
			}
			live = append(live, rec)
		}

		f.log.Debug(ctx, "diff page fetched",
			"page_size", len(page.Diff), "cursor", since, "has_more", page.HasMore)

		if !page.HasMore {
			break
		}
	}

	return live, nil
}
