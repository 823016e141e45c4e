package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"lostaf-cli/internal/model"
)

// ImageAttachment is an optional photo for a new report. The bytes are
// fully in memory by the time a submission is attempted (the preview step
// reads them), so a partial upload of the scalar fields without the binary
// cannot happen.
type ImageAttachment struct {
	Filename string
	MIME     string
	Data     []byte
}

// ListItems fetches active items matching the filter. Only non-empty
// filter fields become query parameters.
func (c *Client) ListItems(ctx context.Context, f model.FilterState) ([]model.Item, error) {
	var items []model.Item
	if err := c.doJSON(ctx, "listItems", http.MethodGet, "/items", f.Query(), nil, "", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem fetches one item with its embedded matches.
func (c *Client) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	if err := c.doJSON(ctx, "getItem", http.MethodGet, "/items/"+url.PathEscape(id), nil, nil, "", &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// MyItems fetches the caller's own reports, resolved ones included.
func (c *Client) MyItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.doJSON(ctx, "myItems", http.MethodGet, "/items/user/my-items", nil, nil, "", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem submits a new report as a single multipart request: all
// scalar fields plus the optional image part.
func (c *Client) CreateItem(ctx context.Context, d model.Draft, image *ImageAttachment) (*model.Item, error) {
	if err := d.Validate(); err != nil {
		return nil, wrapError("createItem", 0, err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"type":         string(d.Type),
		"title":        d.Title,
		"category":     d.Category,
		"location":     d.Location,
		"date":         d.Date,
		"description":  d.Description,
		"is_anonymous": strconv.FormatBool(d.IsAnonymous),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, wrapError("createItem", 0, fmt.Errorf("write field %s: %w", k, err))
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, wrapError("createItem", 0, fmt.Errorf("create image part: %w", err))
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, wrapError("createItem", 0, fmt.Errorf("write image part: %w", err))
		}
	}
	if err := w.Close(); err != nil {
		return nil, wrapError("createItem", 0, err)
	}

	var it model.Item
	if err := c.doJSON(ctx, "createItem", http.MethodPost, "/items", nil, &buf, w.FormDataContentType(), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Resolve asks the server to move an item to resolved. The server owns the
// ownership guard; a refusal surfaces as ErrRejected, never as a silent
// local mutation.
func (c *Client) Resolve(ctx context.Context, id string) (*model.Item, error) {
	q := url.Values{}
	q.Set("status", string(model.StatusResolved))

	var it model.Item
	if err := c.doJSON(ctx, "resolve", http.MethodPatch, "/items/"+url.PathEscape(id)+"/status", q, nil, "", &it); err != nil {
		return nil, err
	}
	return &it, nil
}
