package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildShareLink returns the deep link that opens the order preview of one
// listing: {origin}/order?type={kind}&id={id}.
func BuildShareLink(origin string, kind Kind, id string) string {
	origin = strings.TrimRight(origin, "/")
	return origin + "/order?type=" + string(kind) + "&id=" + url.QueryEscape(id)
}

// ParseShareLink extracts the kind and id from a share link. A bare query
// string ("type=product&id=...") is accepted as well.
func ParseShareLink(raw string) (Kind, string, error) {
	raw = strings.TrimSpace(raw)

	var q url.Values
	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "/") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrMalformedLink, err)
		}
		q = u.Query()
	} else {
		parsed, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrMalformedLink, err)
		}
		q = parsed
	}

	kind, err := ParseKind(q.Get("type"))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedLink, err)
	}

	id := strings.TrimSpace(q.Get("id"))
	if id == "" {
		return "", "", fmt.Errorf("%w: missing id", ErrMalformedLink)
	}
	return kind, id, nil
}
