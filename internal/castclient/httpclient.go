package castclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/photocast/internal/common"
	"github.com/dmitrijs2005/photocast/internal/models"
)

const defaultTimeout = 60 * time.Second

// maxBodySize caps a single content download. The eligibility filter already
// rejects files over 100 MiB by declared size; this bounds lying servers.
const maxBodySize = 128 << 20

// HTTPClient implements Client over plain HTTP.
type HTTPClient struct {
	baseURL string
	token   string
	hc      *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the given API base URL and cast token.
// A nil hc falls back to a client with a sane timeout.
func NewHTTPClient(baseURL, token string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      hc,
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AccessTokenHeaderName, c.token)
	// Always-fresh semantics: intermediaries must not serve stale pages.
	req.Header.Set("Cache-Control", "no-store")
	return req, nil
}

// FetchDiff requests one page of the change log. Any failure is a remote
// error (fatal for the pass), except a rejected token which maps to
// common.ErrAuthExpired.
func (c *HTTPClient) FetchDiff(ctx context.Context, sinceTime int64) (*models.DiffPage, error) {
	url := c.baseURL + "/cast/diff?sinceTime=" + strconv.FormatInt(sinceTime, 10)

	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemote, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrAuthExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: diff request returned %s", common.ErrRemote, resp.Status)
	}

	var page models.DiffPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decoding diff page: %v", common.ErrRemote, err)
	}
	return &page, nil
}

// DownloadFile retrieves the full-resolution encrypted bytes of a file.
func (c *HTTPClient) DownloadFile(ctx context.Context, fileID int64) ([]byte, error) {
	return c.download(ctx, c.baseURL+"/cast/files/download/"+strconv.FormatInt(fileID, 10))
}

// DownloadThumbnail retrieves the encrypted thumbnail bytes of a file.
func (c *HTTPClient) DownloadThumbnail(ctx context.Context, fileID int64) ([]byte, error) {
	return c.download(ctx, c.baseURL+"/cast/files/preview/"+strconv.FormatInt(fileID, 10))
}

func (c *HTTPClient) download(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransfer, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransfer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrAuthExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: content request returned %s", common.ErrTransfer, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", common.ErrTransfer, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response body", common.ErrTransfer)
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", common.ErrTransfer, maxBodySize)
	}
	return data, nil
}
