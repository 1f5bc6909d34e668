// Package api pushes records to a running REST endpoint, one request
// per record, walking entities in dependency order.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/AliSafari-IT/setup-data/internal/casing"
	"github.com/AliSafari-IT/setup-data/internal/config"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	base        string
	routeStyle  casing.Style
	recordStyle casing.Style
	http        *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	routeStyle, _ := casing.ParseStyle(cfg.API.RouteStyle)
	recordStyle, _ := casing.ParseStyle(cfg.Generation.CaseStyle)

	return &Client{
		base:        strings.TrimRight(cfg.API.BaseURL, "/"),
		routeStyle:  routeStyle,
		recordStyle: recordStyle,
		http:        &http.Client{Timeout: timeout},
	}
}

// Route derives the collection path for an entity from the configured
// route style. Unstyled configurations fall back to lowercase.
func (c *Client) Route(entity string) string {
	if c.routeStyle != "" {
		return casing.Key(entity, c.routeStyle)
	}
	return strings.ToLower(entity)
}

// PushAll posts every entity's records in dependency order. An entity
// with failed records aborts the remainder of the run.
func (c *Client) PushAll(ctx context.Context, records map[string][]map[string]any, order []string) error {
	color.Cyan("🌱 Pushing records to %s...", c.base)

	total := 0
	for _, entity := range order {
		batch := records[entity]
		if len(batch) == 0 {
			continue
		}
		sent, err := c.PushEntity(ctx, entity, batch)
		total += sent
		if err != nil {
			return err
		}
		color.Green("✅ Pushed %s (%d records)", entity, sent)
	}

	color.Green("\n✅ Pushed %d records", total)
	return nil
}

// PushEntity posts records one at a time and reports how many landed.
// Failures are counted per record; any failure makes the entity fail.
func (c *Client) PushEntity(ctx context.Context, entity string, records []map[string]any) (int, error) {
	url := fmt.Sprintf("%s/%s", c.base, c.Route(entity))
	styled := casing.TransformRecords(records, c.recordStyle)

	failures := 0
	for i, record := range styled {
		if err := c.postRecord(ctx, url, record); err != nil {
			failures++
			color.Yellow("⚠️  Failed to push %s record %d: %v", entity, i, err)
		}
	}

	sent := len(styled) - failures
	if failures > 0 {
		return sent, fmt.Errorf("failed to push %d of %d %s records", failures, len(styled), entity)
	}
	return sent, nil
}

func (c *Client) postRecord(ctx context.Context, url string, record map[string]any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
