// Package catalog talks to the external serverless product API. The shop and
// cart only ever see canonical domain.Product values: the Lambda proxy
// envelope, the legacy single-option variant shape, and the optional isActive
// flag are all flattened here at the boundary.
package catalog

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

	"livingdead/internal/domain"
)

var ErrNotFound = errors.New("product not found")

type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches the catalog and drops inactive products. Shop listings and the
// cart add path both go through this.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	raw, err := c.get(ctx, "/items")
	if err != nil {
		return nil, err
	}
	var rows []rawProduct
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		p := r.normalize()
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListAll keeps inactive products too, for the admin table.
func (c *Client) ListAll(ctx context.Context) ([]domain.Product, error) {
	raw, err := c.get(ctx, "/items")
	if err != nil {
		return nil, err
	}
	var rows []rawProduct
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.normalize())
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (domain.Product, error) {
	raw, err := c.get(ctx, "/items/"+id)
	if err != nil {
		return domain.Product{}, err
	}
	var row rawProduct
	if err := json.Unmarshal(raw, &row); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return row.normalize(), nil
}

// ProductInput is the admin create/update payload the API expects.
type ProductInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	SalePrice   float64          `json:"salePrice,omitempty"`
	Quantity    int              `json:"quantity"`
	Weight      float64          `json:"weight,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Variants    []domain.Variant `json:"variants,omitempty"`
	ImageBase64 string           `json:"imageBase64,omitempty"`
}

func (c *Client) Create(ctx context.Context, token string, in ProductInput) error {
	return c.send(ctx, http.MethodPost, "/items", token, in)
}

func (c *Client) Update(ctx context.Context, token, id string, in ProductInput) error {
	return c.send(ctx, http.MethodPut, "/items/"+id, token, in)
}

func (c *Client) Delete(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/items/"+id, token, nil)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog %s: unexpected status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return unwrapEnvelope(body)
}

func (c *Client) send(ctx context.Context, method, path, token string, payload any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// unwrapEnvelope handles the two shapes the API returns: plain JSON, or a
// Lambda proxy envelope {"body": ...} where body is either inline JSON or a
// JSON-encoded string that needs a second parse.
func unwrapEnvelope(raw []byte) ([]byte, error) {
	var env struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Body) == 0 {
		return raw, nil
	}
	if env.Body[0] == '"' {
		var inner string
		if err := json.Unmarshal(env.Body, &inner); err != nil {
			return nil, fmt.Errorf("unwrap envelope body: %w", err)
		}
		return []byte(inner), nil
	}
	return env.Body, nil
}
