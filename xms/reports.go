package xms

import (
	"context"
	"net/http"
	"net/url"
)

// GetDeliveryReport returns the delivery report of a batch. The filter
// selects the report type and narrows it by status or status code.
func (c *Client) GetDeliveryReport(ctx context.Context, batchID string, filter DeliveryReportFilter) (*BatchDeliveryReport, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	u := withQuery(c.url(batchPath(batchID, "/delivery_report")), filter.query())
	return doJSON[BatchDeliveryReport](ctx, c, http.MethodGet, u, nil)
}

// GetRecipientDeliveryReport returns the delivery state of a batch for one
// recipient.
func (c *Client) GetRecipientDeliveryReport(ctx context.Context, batchID, recipient string) (*RecipientDeliveryReport, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	if err := requireID("recipient", recipient); err != nil {
		return nil, err
	}
	u := c.url(batchPath(batchID, "/delivery_report/"+url.PathEscape(recipient)))
	return doJSON[RecipientDeliveryReport](ctx, c, http.MethodGet, u, nil)
}
