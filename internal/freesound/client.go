package freesound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"book_music/internal/mood"
	"book_music/internal/tracks"
)

const (
	defaultBaseURL = "https://freesound.org"

	// Freesound free-tier etiquette: one request per second, and back
	// off for a minute after a 429.
	minRequestInterval = time.Second
	rateLimitBackoff   = 60 * time.Second
)

// Client provides access to the Freesound text-search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	mu               sync.Mutex
	lastRequest      time.Time
	rateLimitedUntil time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at a different server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// New creates a Freesound client.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("freesound api key required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchResponse struct {
	Results []sound `json:"results"`
}

type sound struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Username string            `json:"username"`
	Duration float64           `json:"duration"`
	Previews map[string]string `json:"previews"`
	Tags     []string          `json:"tags"`
	License  string            `json:"license"`
}

// SearchTracks queries Freesound for music matching the tags. Only
// sounds at least 30 seconds long and tagged as music are returned.
// When the client is inside a rate-limit backoff window the search
// returns no tracks without touching the network.
func (c *Client) SearchTracks(ctx context.Context, tags []string, limit int) ([]tracks.Track, error) {
	if len(tags) == 0 {
		return nil, errors.New("at least one search tag required")
	}
	if limit <= 0 {
		limit = 10
	}

	if !c.acquireSlot() {
		return []tracks.Track{}, nil
	}

	endpoint, err := url.Parse(c.baseURL + "/apiv2/search/text/")
	if err != nil {
		return nil, fmt.Errorf("parse freesound url: %w", err)
	}
	params := url.Values{}
	params.Set("query", strings.Join(tags, " "))
	params.Set("filter", "duration:[30 TO *] tag:music")
	params.Set("fields", "id,name,username,duration,previews,tags,license")
	params.Set("token", c.apiKey)
	params.Set("page_size", strconv.Itoa(limit))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.mu.Lock()
		c.rateLimitedUntil = c.now().Add(rateLimitBackoff)
		c.mu.Unlock()
		return []tracks.Track{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freesound search returned %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode freesound response: %w", err)
	}

	out := make([]tracks.Track, 0, len(payload.Results))
	for _, s := range payload.Results {
		out = append(out, s.track())
	}
	return out, nil
}

// TracksForMood searches using the canonical tag set for a mood.
func (c *Client) TracksForMood(ctx context.Context, m mood.Mood, limit int) ([]tracks.Track, error) {
	tags, ok := moodSearchTags[m]
	if !ok {
		tags = []string{"ambient", "instrumental"}
	}
	return c.SearchTracks(ctx, tags, limit)
}

// acquireSlot enforces the request spacing. It reports false when the
// client is still inside a 429 backoff window.
func (c *Client) acquireSlot() bool {
	c.mu.Lock()
	now := c.now()
	if now.Before(c.rateLimitedUntil) {
		c.mu.Unlock()
		return false
	}
	wait := minRequestInterval - now.Sub(c.lastRequest)
	c.lastRequest = now
	if wait > 0 {
		c.lastRequest = now.Add(wait)
	}
	c.mu.Unlock()

	if wait > 0 {
		c.sleep(wait)
	}
	return true
}

func (s sound) track() tracks.Track {
	preview := s.Previews["preview-hq-mp3"]
	if preview == "" {
		preview = s.Previews["preview-lq-mp3"]
	}
	return tracks.Track{
		ID:       fmt.Sprintf("freesound_%d", s.ID),
		Title:    s.Name,
		Artist:   s.Username,
		Duration: int(s.Duration + 0.5),
		URL:      preview,
		Tags:     s.Tags,
		Energy:   EstimateEnergy(s.Tags),
		Tempo:    EstimateTempo(s.Tags),
		License: tracks.License{
			Type:                s.License,
			AttributionRequired: !strings.Contains(s.License, "CC0"),
			SourceURL:           fmt.Sprintf("https://freesound.org/people/%s/sounds/%d/", s.Username, s.ID),
		},
	}
}

var moodSearchTags = map[mood.Mood][]string{
	mood.Dark:       {"dark", "atmospheric", "suspense"},
	mood.Mysterious: {"mysterious", "ambient", "ethereal"},
	mood.Romantic:   {"romantic", "piano", "emotional"},
	mood.Sad:        {"sad", "melancholy", "emotional"},
	mood.Epic:       {"epic", "orchestral", "cinematic"},
	mood.Peaceful:   {"calm", "peaceful", "ambient"},
	mood.Tense:      {"suspense", "tension", "dramatic"},
	mood.Joyful:     {"uplifting", "cheerful", "happy"},
	mood.Adventure:  {"adventure", "energetic", "cinematic"},
	mood.Magical:    {"magical", "fantasy", "mystical"},
}

var highEnergyTags = []string{"energetic", "fast", "intense", "epic", "dramatic", "aggressive"}

var lowEnergyTags = []string{"calm", "peaceful", "slow", "ambient", "quiet", "gentle"}

// EstimateEnergy guesses an energy level (1-5) from a sound's tags.
func EstimateEnergy(tags []string) int {
	joined := strings.ToLower(strings.Join(tags, " "))
	for _, t := range highEnergyTags {
		if strings.Contains(joined, t) {
			return 4
		}
	}
	for _, t := range lowEnergyTags {
		if strings.Contains(joined, t) {
			return 2
		}
	}
	return 3
}

// EstimateTempo guesses a tempo label from a sound's tags.
func EstimateTempo(tags []string) string {
	joined := strings.ToLower(strings.Join(tags, " "))
	for _, t := range []string{"fast", "upbeat", "energetic", "quick"} {
		if strings.Contains(joined, t) {
			return mood.TempoUpbeat
		}
	}
	for _, t := range []string{"slow", "calm", "peaceful", "gentle"} {
		if strings.Contains(joined, t) {
			return mood.TempoSlow
		}
	}
	return mood.TempoModerate
}
