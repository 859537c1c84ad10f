package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const pexelsVideoSearchURL = "https://api.pexels.com/videos/search"

// Client searches and downloads stock footage from Pexels.
type Client struct {
	logger      zerolog.Logger
	httpClient  *http.Client
	searchURL   string
	apiKey      string
	perPage     int
	orientation string
}

// NewClient creates a Pexels stock-footage client.
func NewClient(logger zerolog.Logger, apiKey string, perPage int, orientation string) *Client {
	if perPage <= 0 {
		perPage = 5
	}
	return &Client{
		logger:      logger.With().Str("component", "stock").Logger(),
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		searchURL:   pexelsVideoSearchURL,
		apiKey:      apiKey,
		perPage:     perPage,
		orientation: orientation,
	}
}

type videoFile struct {
	Link    string `json:"link"`
	Quality string `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type searchResponse struct {
	Videos []struct {
		ID         int         `json:"id"`
		VideoFiles []videoFile `json:"video_files"`
	} `json:"videos"`
}

// FetchAssets searches for footage matching the query and downloads the
// results into downloadDir, returning local paths in search-rank order.
func (c *Client) FetchAssets(ctx context.Context, query, downloadDir string) ([]string, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("pexels api key is not set")
	}
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", fmt.Sprintf("%d", c.perPage))
	if c.orientation != "" {
		q.Set("orientation", c.orientation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	c.logger.Info().Str("query", query).Int("per_page", c.perPage).Msg("searching stock footage")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stock search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock search error: %s", resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse stock search response: %w", err)
	}

	var paths []string
	for i, video := range result.Videos {
		link := bestFile(video.VideoFiles)
		if link == "" {
			continue
		}
		target := filepath.Join(downloadDir, fmt.Sprintf("stock_%03d_%d.mp4", i, video.ID))
		if err := c.download(ctx, link, target); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn().Err(err).Str("url", link).Msg("stock download failed, skipping")
			continue
		}
		paths = append(paths, target)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no stock footage downloadable for %q", query)
	}

	c.logger.Info().Int("assets", len(paths)).Msg("stock footage downloaded")
	return paths, nil
}

// bestFile prefers HD renditions, falling back to the first file known.
func bestFile(files []videoFile) string {
	for _, f := range files {
		if f.Quality == "hd" {
			return f.Link
		}
	}
	if len(files) > 0 {
		return files[0].Link
	}
	return ""
}

func (c *Client) download(ctx context.Context, link, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download: status %d", resp.StatusCode)
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
