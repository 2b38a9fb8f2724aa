package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"storefront/internal/catalog"
)

func itemPath(kind catalog.Kind, id string) string {
	return "/" + kind.Plural() + "/" + url.PathEscape(id)
}

// mutationFallback mirrors the generic messages shown when the backend sends
// no error text. Medicine calls only ever said "Request failed".
func mutationFallback(verb string, kind catalog.Kind) string {
	if kind == catalog.KindMedicine {
		return "Request failed"
	}
	return fmt.Sprintf("Failed to %s %s", verb, kind)
}

func (c *Client) List(ctx context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	var ws []catalog.Wire
	if err := c.doJSON(ctx, http.MethodGet, "/"+kind.Plural(), nil, "Failed to fetch "+kind.Plural(), &ws); err != nil {
		return nil, err
	}
	return catalog.FromWireList(kind, ws), nil
}

func (c *Client) ListBySeller(ctx context.Context, kind catalog.Kind, sellerID string) ([]catalog.Item, error) {
	var ws []catalog.Wire
	path := "/" + kind.Plural() + "/seller/" + url.PathEscape(sellerID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "Failed to fetch seller "+kind.Plural(), &ws); err != nil {
		return nil, err
	}
	return catalog.FromWireList(kind, ws), nil
}

func (c *Client) Names(ctx context.Context, kind catalog.Kind) ([]string, error) {
	names := []string{}
	path := "/" + kind.Plural() + "/names"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "Failed to fetch "+string(kind)+" names", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) Create(ctx context.Context, kind catalog.Kind, in catalog.Input) (catalog.Item, error) {
	var w catalog.Wire
	err := c.doJSON(ctx, http.MethodPost, "/"+kind.Plural(), catalog.InputToWire(kind, in), mutationFallback("create", kind), &w)
	if err != nil {
		return catalog.Item{}, err
	}
	return catalog.FromWire(kind, w), nil
}

func (c *Client) Update(ctx context.Context, kind catalog.Kind, id string, p catalog.Patch) (catalog.Item, error) {
	var w catalog.Wire
	err := c.doJSON(ctx, http.MethodPut, itemPath(kind, id), catalog.PatchToWire(kind, p), mutationFallback("update", kind), &w)
	if err != nil {
		return catalog.Item{}, err
	}
	return catalog.FromWire(kind, w), nil
}

func (c *Client) Delete(ctx context.Context, kind catalog.Kind, id string) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(kind, id), nil, mutationFallback("delete", kind), nil)
}

func (c *Client) Approve(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error) {
	return c.moderate(ctx, kind, id, "approve")
}

func (c *Client) Reject(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error) {
	return c.moderate(ctx, kind, id, "reject")
}

func (c *Client) moderate(ctx context.Context, kind catalog.Kind, id, verb string) (catalog.Item, error) {
	var w catalog.Wire
	path := "/admin" + itemPath(kind, id) + "/" + verb
	if err := c.doJSON(ctx, http.MethodPut, path, nil, fmt.Sprintf("Failed to %s %s", verb, kind), &w); err != nil {
		return catalog.Item{}, err
	}
	return catalog.FromWire(kind, w), nil
}

// AllItems fetches every listing with its moderation fields. A nil status
// returns all three tabs.
func (c *Client) AllItems(ctx context.Context, status *catalog.Status) (catalog.AllItems, error) {
	path := "/admin/all-items"
	if status != nil {
		path += "?status=" + url.QueryEscape(string(*status))
	}

	var w catalog.WireAll
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "Failed to fetch all items", &w); err != nil {
		return catalog.AllItems{}, err
	}
	return catalog.AllFromWire(w), nil
}

func (c *Client) PendingItems(ctx context.Context) (catalog.AllItems, error) {
	var w catalog.WireAll
	if err := c.doJSON(ctx, http.MethodGet, "/admin/pending-items", nil, "Failed to fetch pending items", &w); err != nil {
		return catalog.AllItems{}, err
	}
	return catalog.AllFromWire(w), nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends an image as multipart field "file" and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out uploadResponse
	if err := c.send(ctx, http.MethodPost, "/upload", mw.FormDataContentType(), &buf, "Upload failed", &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
