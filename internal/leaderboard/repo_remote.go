package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteRepo fetches standings from the legacy REST backend's
// GET /leaderboard endpoint ({data: [...]} envelope).

type RemoteRepo struct {
	base   string
	client *http.Client
}

func NewRemoteRepo(baseURL string) *RemoteRepo {
	return &RemoteRepo{
		base:   baseURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RemoteRepo) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+"/leaderboard", nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch leaderboard: backend returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	var env struct {
		Data []Entry `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return env.Data, nil
}
