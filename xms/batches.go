package xms

import (
	"context"
	"fmt"
	"net/http"
)

// textBatchBody and binaryBatchBody add the wire type discriminator.
type textBatchBody struct {
	Type BatchType `json:"type"`
	*TextBatch
}

type binaryBatchBody struct {
	Type BatchType `json:"type"`
	*BinaryBatch
}

type textBatchUpdateBody struct {
	Type BatchType `json:"type"`
	*TextBatchUpdate
}

type binaryBatchUpdateBody struct {
	Type BatchType `json:"type"`
	*BinaryBatchUpdate
}

// batchCreateBody selects the request body for a creation variant.
func batchCreateBody(batch BatchCreate) (any, error) {
	switch b := batch.(type) {
	case *TextBatch:
		if b != nil {
			return textBatchBody{Type: BatchTypeText, TextBatch: b}, nil
		}
	case *BinaryBatch:
		if b != nil {
			return binaryBatchBody{Type: BatchTypeBinary, BinaryBatch: b}, nil
		}
	}
	return nil, &InvalidArgumentError{
		Argument: "batch",
		Reason:   fmt.Sprintf("unsupported batch type %T", batch),
	}
}

// batchUpdateBody selects the request body for an update variant.
func batchUpdateBody(update BatchUpdate) (any, error) {
	switch u := update.(type) {
	case *TextBatchUpdate:
		if u != nil {
			return textBatchUpdateBody{Type: BatchTypeText, TextBatchUpdate: u}, nil
		}
	case *BinaryBatchUpdate:
		if u != nil {
			return binaryBatchUpdateBody{Type: BatchTypeBinary, BinaryBatchUpdate: u}, nil
		}
	}
	return nil, &InvalidArgumentError{
		Argument: "update",
		Reason:   fmt.Sprintf("unsupported batch update type %T", update),
	}
}

// requireID rejects empty identifiers before they turn into a list URL.
func requireID(name, id string) error {
	if id == "" {
		return &InvalidArgumentError{Argument: name, Reason: "must not be empty"}
	}
	return nil
}

// CreateBatch sends a new text or binary batch.
func (c *Client) CreateBatch(ctx context.Context, batch BatchCreate) (*Batch, error) {
	body, err := batchCreateBody(batch)
	if err != nil {
		return nil, err
	}
	return doJSON[Batch](ctx, c, http.MethodPost, c.url("/batches"), body)
}

// ReplaceBatch replaces a batch that has not been sent yet.
func (c *Client) ReplaceBatch(ctx context.Context, batchID string, batch BatchCreate) (*Batch, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	body, err := batchCreateBody(batch)
	if err != nil {
		return nil, err
	}
	return doJSON[Batch](ctx, c, http.MethodPut, c.url(batchPath(batchID, "")), body)
}

// UpdateBatch applies a partial update to a batch that has not been sent yet.
func (c *Client) UpdateBatch(ctx context.Context, batchID string, update BatchUpdate) (*Batch, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	body, err := batchUpdateBody(update)
	if err != nil {
		return nil, err
	}
	return doJSON[Batch](ctx, c, http.MethodPost, c.url(batchPath(batchID, "")), body)
}

// GetBatch retrieves a single batch.
func (c *Client) GetBatch(ctx context.Context, batchID string) (*Batch, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	return doJSON[Batch](ctx, c, http.MethodGet, c.url(batchPath(batchID, "")), nil)
}

// CancelBatch cancels a batch. Messages already handed to operators are
// still delivered.
func (c *Client) CancelBatch(ctx context.Context, batchID string) (*Batch, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	return doJSON[Batch](ctx, c, http.MethodDelete, c.url(batchPath(batchID, "")), nil)
}

// ListBatches returns a paginator over the batches matching filter.
func (c *Client) ListBatches(filter BatchFilter) *Paginator[Batch] {
	f := filter.clone()
	return NewPaginator(func(ctx context.Context, page int) (*Page[Batch], error) {
		query, err := f.query(page)
		if err != nil {
			return nil, err
		}
		return fetchPage[Batch](ctx, c, "/batches", query, "batches", f.PageSize)
	})
}

// DryRunBatch simulates sending batch and reports how many messages it
// would produce.
func (c *Client) DryRunBatch(ctx context.Context, batch BatchCreate, opts DryRunOptions) (*DryRunResult, error) {
	body, err := batchCreateBody(batch)
	if err != nil {
		return nil, err
	}
	if opts.NumberOfRecipients < 0 {
		return nil, &InvalidArgumentError{Argument: "number_of_recipients", Reason: "must not be negative"}
	}
	return doJSON[DryRunResult](ctx, c, http.MethodPost, withQuery(c.url("/batches/dry_run"), opts.query()), body)
}

// GetBatchTags returns the tags of a batch.
func (c *Client) GetBatchTags(ctx context.Context, batchID string) ([]string, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	return c.getTags(ctx, batchPath(batchID, "/tags"))
}

// ReplaceBatchTags replaces all tags of a batch.
func (c *Client) ReplaceBatchTags(ctx context.Context, batchID string, tags []string) ([]string, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	return c.replaceTags(ctx, batchPath(batchID, "/tags"), tags)
}

// UpdateBatchTags adds and removes tags of a batch.
func (c *Client) UpdateBatchTags(ctx context.Context, batchID string, update TagsUpdate) ([]string, error) {
	if err := requireID("batch_id", batchID); err != nil {
		return nil, err
	}
	return c.updateTags(ctx, batchPath(batchID, "/tags"), update)
}

func (c *Client) getTags(ctx context.Context, path string) ([]string, error) {
	t, err := doJSON[Tags](ctx, c, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	return t.Tags, nil
}

func (c *Client) replaceTags(ctx context.Context, path string, tags []string) ([]string, error) {
	if tags == nil {
		tags = []string{}
	}
	t, err := doJSON[Tags](ctx, c, http.MethodPut, c.url(path), Tags{Tags: tags})
	if err != nil {
		return nil, err
	}
	return t.Tags, nil
}

func (c *Client) updateTags(ctx context.Context, path string, update TagsUpdate) ([]string, error) {
	t, err := doJSON[Tags](ctx, c, http.MethodPost, c.url(path), update)
	if err != nil {
		return nil, err
	}
	return t.Tags, nil
}
