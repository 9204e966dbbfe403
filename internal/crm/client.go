// Package crm is a client for the Keap contact API. Calls can go to the
// API directly or through a forwarding proxy that fronts it from inside
// the VPC; proxy mode rewrites the request host and carries the real
// path in a Forward-to header.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/edvin/mailorg/internal/apperr"
)

type Options struct {
	BaseURL       string
	Token         string
	ProxyEndpoint string
	ProxyHost     string
	HTTPClient    *http.Client
}

type Client struct {
	opts Options
	http *http.Client
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{opts: opts, http: httpClient}
}

// CustomField is one field update in a contact patch.
type CustomField struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// CreateNote attaches a note to the contact.
func (c *Client) CreateNote(ctx context.Context, contactID int64, title, text string) error {
	payload := map[string]any{
		"title":   title,
		"text":    text,
		"type":    "Other",
		"user_id": 1,
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("contacts/%d/notes", contactID), payload)
}

// ApplyTag applies the tag to the contact. The proxy exposes a batch
// apply endpoint instead of the per-contact one.
func (c *Client) ApplyTag(ctx context.Context, contactID, tagID int64) error {
	if c.opts.ProxyEndpoint != "" {
		payload := map[string]any{"contact_ids": []int64{contactID}}
		return c.do(ctx, http.MethodPost, fmt.Sprintf("tags/%d/contacts:applyTags", tagID), payload)
	}
	payload := map[string]any{"tagIds": []int64{tagID}}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("contacts/%d/tags", contactID), payload)
}

// UpdateCustomFields patches the contact's custom fields. Values may be
// credentials; they are sent and forgotten, never logged.
func (c *Client) UpdateCustomFields(ctx context.Context, contactID int64, fields []CustomField) error {
	payload := map[string]any{"custom_fields": fields}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("contacts/%d", contactID), payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) error {
	op := "crm." + method + " " + path

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal crm payload: %w", err)
	}

	url := strings.TrimSuffix(c.opts.BaseURL, "/") + "/" + path
	if c.opts.ProxyEndpoint != "" {
		url = c.opts.ProxyEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	if c.opts.ProxyEndpoint != "" {
		req.Header.Set("Forward-to", path)
		if c.opts.ProxyHost != "" {
			req.Host = c.opts.ProxyHost
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return apperr.Newf(apperr.KindUpstream, op, "status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
