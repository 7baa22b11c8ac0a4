// Package castclient talks to the remote collection's cast API: the change
// log (diff) endpoint and the per-file content endpoints. Every request is
// authenticated with the session's access token header.
package castclient

import (
	"context"

	"github.com/dmitrijs2005/photocast/internal/models"
)

type Client interface {
	// FetchDiff requests one page of the change log at the given cursor.
	FetchDiff(ctx context.Context, sinceTime int64) (*models.DiffPage, error)

	// DownloadFile retrieves the full-resolution encrypted bytes of a file.
	DownloadFile(ctx context.Context, fileID int64) ([]byte, error)

	// DownloadThumbnail retrieves the encrypted thumbnail bytes of a file.
	DownloadThumbnail(ctx context.Context, fileID int64) ([]byte, error)
}
