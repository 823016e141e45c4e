package api

import (
	"context"
	"net/http"
	"net/url"

	"lostaf-cli/internal/model"
)

// Stats fetches the portal-wide counters.
func (c *Client) Stats(ctx context.Context) (*model.AdminStats, error) {
	var s model.AdminStats
	if err := c.doJSON(ctx, "stats", http.MethodGet, "/admin/stats", nil, nil, "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Locations fetches the per-location active-item counts.
func (c *Client) Locations(ctx context.Context) ([]model.LocationCount, error) {
	var locs []model.LocationCount
	if err := c.doJSON(ctx, "locations", http.MethodGet, "/locations", nil, nil, "", &locs); err != nil {
		return nil, err
	}
	return locs, nil
}

// QR fetches the poster QR image for a location as opaque bytes. The
// client never interprets the payload beyond saving or displaying it.
func (c *Client) QR(ctx context.Context, location string) ([]byte, error) {
	q := url.Values{}
	q.Set("location", location)
	return c.doBytes(ctx, "qr", "/qr", q)
}
