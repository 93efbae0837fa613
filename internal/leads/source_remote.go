package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TokenProvider supplies the opaque bearer token attached to mutating
// calls. Returning "" sends the request unauthenticated; the backend's
// rejection then surfaces as a generic update failure.
type TokenProvider func() string

// RemoteSource implements Source against the legacy REST backend.
//
// Read calls never propagate transport errors: a failed fetch logs the
// cause and returns an empty result, so the store degrades instead of
// crashing a view. UpdateStatus reports failure accurately because the
// call session engine rolls back on it.
type RemoteSource struct {
	base   string
	client *http.Client
	token  TokenProvider
	log    *slog.Logger
}

func NewRemoteSource(baseURL string, token TokenProvider, log *slog.Logger) *RemoteSource {
	if log == nil {
		log = slog.Default()
	}
	return &RemoteSource{
		base:   baseURL,
		client: &http.Client{Timeout: 10 * time.Second},
		token:  token,
		log:    log,
	}
}

// leadsEnvelope matches the backend's {data: ...} wrapping. The leads
// payload has shipped both as a bare array and as {items: [...]}.
type leadsEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type leadsItems struct {
	Items []Row `json:"items"`
}

func (r *RemoteSource) FetchLeads(ctx context.Context, p FetchParams) ([]Row, error) {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}

	body, err := r.get(ctx, "/leads", q)
	if err != nil {
		r.log.Error("fetch leads failed", "err", err)
		return []Row{}, nil
	}

	var env leadsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		r.log.Error("decode leads failed", "err", err)
		return []Row{}, nil
	}

	var rows []Row
	if err := json.Unmarshal(env.Data, &rows); err == nil {
		return rows, nil
	}
	var wrapped leadsItems
	if err := json.Unmarshal(env.Data, &wrapped); err == nil {
		return wrapped.Items, nil
	}
	r.log.Error("leads payload in unknown shape")
	return []Row{}, nil
}

func (r *RemoteSource) FetchStats(ctx context.Context) (*Stats, error) {
	body, err := r.get(ctx, "/leads-stats", nil)
	if err != nil {
		r.log.Warn("fetch stats failed", "err", err)
		return nil, nil
	}
	var env struct {
		Data *Stats `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		r.log.Warn("decode stats failed", "err", err)
		return nil, nil
	}
	return env.Data, nil
}

func (r *RemoteSource) UpdateStatus(ctx context.Context, id string, req UpdateRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, r.base+"/leads/"+url.PathEscape(id), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.token != nil {
		if tok := r.token(); tok != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("update lead %s: backend returned %d", id, resp.StatusCode)
	}
	return nil
}

func (r *RemoteSource) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := r.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: backend returned %d", path, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 64<<20))
}
