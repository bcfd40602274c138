// Package client talks to a running friendgrow server.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/store"
)

const httpTimeout = 5 * time.Second

// Client calls the friendgrow HTTP API.
type Client struct {
	http      *http.Client
	serverURL string
}

// New creates a client for the server at serverURL, e.g. http://127.0.0.1:37778.
func New(serverURL string) *Client {
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: strings.TrimRight(serverURL, "/"),
	}
}

type friendJSON struct {
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	FreqWeeks int     `json:"freq_weeks"`
	LastSeen  *string `json:"last_seen"`
}

func (f friendJSON) friend() store.Friend {
	return store.Friend{Name: f.Name, Location: f.Location, FreqWeeks: f.FreqWeeks, LastSeen: f.LastSeen}
}

// Healthy checks if the server is reachable.
func (c *Client) Healthy() bool {
	resp, err := c.http.Get(c.serverURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Upcoming fetches the ranked list. A cutoff of 0 uses the server's.
func (c *Client) Upcoming(cutoff uint16) ([]engine.Entry, error) {
	path := "/api/upcoming"
	if cutoff > 0 {
		path += "?cutoff=" + strconv.Itoa(int(cutoff))
	}
	data, err := c.get(path)
	if err != nil {
		return nil, err
	}

	var body struct {
		Upcoming []struct {
			friendJSON
			Status string `json:"status"`
			Days   uint16 `json:"days"`
		} `json:"upcoming"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode upcoming: %w", err)
	}

	entries := make([]engine.Entry, 0, len(body.Upcoming))
	for _, u := range body.Upcoming {
		status, err := parseStatus(u.Status, u.Days)
		if err != nil {
			return nil, fmt.Errorf("friend %s: %w", u.Name, err)
		}
		entries = append(entries, engine.Entry{Friend: u.friend(), Status: status})
	}
	return entries, nil
}

// RecordSeen records a visit on date (YYYY-MM-DD, empty for the server's today).
func (c *Client) RecordSeen(name, date string) (*store.Friend, error) {
	body, err := json.Marshal(map[string]string{"date": date})
	if err != nil {
		return nil, err
	}
	data, err := c.post("/api/friends/"+url.PathEscape(name)+"/seen", body)
	if err != nil {
		return nil, err
	}
	var f friendJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode friend: %w", err)
	}
	friend := f.friend()
	return &friend, nil
}

func parseStatus(kind string, days uint16) (engine.DueStatus, error) {
	switch kind {
	case engine.KindNeverSeen.String():
		return engine.NeverSeen(), nil
	case engine.KindOverdue.String():
		return engine.Overdue(days), nil
	case engine.KindDueIn.String():
		return engine.DueIn(days), nil
	}
	return engine.DueStatus{}, fmt.Errorf("unknown status %q", kind)
}

func (c *Client) post(path string, body []byte) ([]byte, error) {
	resp, err := c.http.Post(c.serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return readBody("POST", path, resp)
}

func (c *Client) get(path string) ([]byte, error) {
	resp, err := c.http.Get(c.serverURL + path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return readBody("GET", path, resp)
}

func readBody(method, path string, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return data, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, apiErr.Error)
		}
		return data, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	return data, nil
}
