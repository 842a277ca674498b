// Package cluster spreads detection requests across a set of agents.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/runningwild/grapher/pkg/agent"
	"golang.org/x/sync/errgroup"
)

var ErrNoNodes = errors.New("no nodes configured")

// Result is the outcome for one request. Err is set, and Response nil, when
// the agent rejected the expression.
type Result struct {
	Node     string
	Response *agent.DetectResponse
	Err      *agent.ErrorResponse
}

type Client struct {
	nodes   []string
	http    *http.Client
	perNode int
}

// New returns a client for the given agents, each "host:port" or a full base
// URL.
func New(nodes []string) *Client {
	return &Client{
		nodes:   nodes,
		http:    &http.Client{Timeout: 30 * time.Second},
		perNode: 4,
	}
}

// Detect sends request i to node i mod len(nodes) and returns results in
// request order. Transport failures and unexpected statuses abort the whole
// batch and are reported with the failing node's address.
func (c *Client) Detect(ctx context.Context, reqs []agent.DetectRequest) ([]Result, error) {
	if len(c.nodes) == 0 {
		return nil, ErrNoNodes
	}

	results := make([]Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(c.nodes) * c.perNode)
	for i, req := range reqs {
		i, req := i, req
		node := c.nodes[i%len(c.nodes)]
		g.Go(func() error {
			res, err := c.detectRemote(gctx, node, req)
			if err != nil {
				return fmt.Errorf("node %s failed: %w", node, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) detectRemote(ctx context.Context, node string, dr agent.DetectRequest) (Result, error) {
	data, err := json.Marshal(dr)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL(node)+"/v1/detect", bytes.NewReader(data))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out agent.DetectResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return Result{}, err
		}
		return Result{Node: node, Response: &out}, nil

	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		var out agent.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return Result{}, err
		}
		return Result{Node: node, Err: &out}, nil
	}

	body, _ := io.ReadAll(resp.Body)
	return Result{}, fmt.Errorf("agent error (%s): %s", resp.Status, string(bytes.TrimSpace(body)))
}

func baseURL(node string) string {
	if strings.Contains(node, "://") {
		return strings.TrimSuffix(node, "/")
	}
	return "http://" + node
}
