package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/masadamsahid/zol-track/internal/apps"
)

// APIClient talks to the tracker REST API. It implements Lister and Updater,
// so a Syncer and SearchController can be wired straight to a live server.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewAPIClient returns a client for the given base URL authenticating with
// the given session token.
func NewAPIClient(baseURL, token string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// List fetches the caller's applications matching the filter.
func (c *APIClient) List(ctx context.Context, f apps.Filter) ([]apps.Application, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.Remote != nil {
		q.Set("remote", string(*f.Remote))
	}
	if len(f.CompanyIDs) > 0 {
		ids := make([]string, len(f.CompanyIDs))
		for i, id := range f.CompanyIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		q.Set("companyIds", strings.Join(ids, ","))
	}
	if f.CursorID > 0 {
		q.Set("cursorId", strconv.FormatInt(f.CursorID, 10))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	endpoint := c.baseURL + "/applications"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var list []apps.Application
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus issues a status-only partial update.
func (c *APIClient) UpdateStatus(ctx context.Context, applicationID int64, status apps.Status) error {
	body, _ := json.Marshal(map[string]string{"status": string(status)})
	endpoint := fmt.Sprintf("%s/applications/%d", c.baseURL, applicationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *APIClient) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api %s %s: %s", req.Method, req.URL.Path, apiErr.Error)
		}
		return fmt.Errorf("api %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
