package xms

import (
	"context"
	"net/http"
)

// GetInbound retrieves a single inbound message.
func (c *Client) GetInbound(ctx context.Context, inboundID string) (*Inbound, error) {
	if err := requireID("inbound_id", inboundID); err != nil {
		return nil, err
	}
	return doJSON[Inbound](ctx, c, http.MethodGet, c.url(inboundPath(inboundID)), nil)
}

// ListInbounds returns a paginator over the inbound messages matching filter.
func (c *Client) ListInbounds(filter InboundFilter) *Paginator[Inbound] {
	f := filter.clone()
	return NewPaginator(func(ctx context.Context, page int) (*Page[Inbound], error) {
		query, err := f.query(page)
		if err != nil {
			return nil, err
		}
		return fetchPage[Inbound](ctx, c, "/inbounds", query, "inbounds", f.PageSize)
	})
}
