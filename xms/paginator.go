package xms

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
)

// Page is one page of results from a list endpoint.
type Page[T any] struct {
	Items      []T
	PageIndex  int
	TotalPages int
	// TotalCount is the number of matching items across all pages, when the
	// server reports it.
	TotalCount int
}

// PageFetcher returns the page with the given 0-based index.
type PageFetcher[T any] func(ctx context.Context, page int) (*Page[T], error)

// Paginator is a lazy, restartable sequence over a paged list endpoint.
// Creating one performs no I/O; every iteration starts again at page 0 and
// fetches each page only when the previous one has been consumed.
type Paginator[T any] struct {
	fetch PageFetcher[T]
}

// NewPaginator wraps fetch.
func NewPaginator[T any](fetch PageFetcher[T]) *Paginator[T] {
	return &Paginator[T]{fetch: fetch}
}

// Iterator starts a new iteration from page 0.
func (p *Paginator[T]) Iterator(ctx context.Context) *Iterator[T] {
	return &Iterator[T]{fetch: p.fetch, ctx: ctx, totalPages: -1}
}

// All returns a range-over-func sequence. A fetch failure is yielded once as
// the final element with a zero item.
func (p *Paginator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := p.Iterator(ctx)
		for it.Next() {
			if !yield(it.Item(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains a fresh iteration into a slice. On failure the items
// yielded before the failing page are returned along with the error.
func (p *Paginator[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	it := p.Iterator(ctx)
	for it.Next() {
		out = append(out, it.Item())
	}
	return out, it.Err()
}

// Iterator walks a Paginator one item at a time. It is not safe for
// concurrent use.
type Iterator[T any] struct {
	fetch PageFetcher[T]
	ctx   context.Context

	next       int // index of the next page to fetch
	totalPages int // taken from page 0, -1 until it has been fetched
	items      []T
	pos        int
	cur        T
	err        error
	done       bool
}

// Next advances to the next item, fetching the next page when the current
// one is exhausted. It returns false at the end of the sequence or after a
// failure; check Err to tell them apart.
func (it *Iterator[T]) Next() bool {
	for !it.done {
		if it.pos < len(it.items) {
			it.cur = it.items[it.pos]
			it.pos++
			return true
		}

		if it.totalPages >= 0 && it.next >= it.totalPages {
			it.finish(nil)
			break
		}

		page, err := it.fetch(it.ctx, it.next)
		if err != nil {
			it.finish(err)
			break
		}
		if page == nil {
			it.finish(nil)
			break
		}

		it.items = page.Items
		it.pos = 0
		if it.totalPages < 0 {
			it.totalPages = page.TotalPages
		}
		it.next++
	}
	return false
}

// Item returns the current item.
func (it *Iterator[T]) Item() T {
	return it.cur
}

// Err returns the failure that ended the iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// PagesFetched returns how many pages have been requested so far.
func (it *Iterator[T]) PagesFetched() int {
	return it.next
}

func (it *Iterator[T]) finish(err error) {
	var zero T
	it.err = err
	it.done = true
	it.items = nil
	it.cur = zero
}

// pageEnvelope holds the paging fields shared by every list response.
type pageEnvelope struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// fetchPage performs one GET on a list endpoint and decodes the items held
// under key.
func fetchPage[T any](ctx context.Context, c *Client, path, query, key string, pageSize int) (*Page[T], error) {
	raw, err := c.do(ctx, http.MethodGet, withQuery(c.url(path), query), nil)
	if err != nil {
		return nil, err
	}

	var env pageEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var items []T
	if data, ok := fields[key]; ok {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", key, err)
		}
	}

	return &Page[T]{
		Items:      items,
		PageIndex:  env.Page,
		TotalPages: totalPages(env, pageSize, len(items)),
		TotalCount: env.Count,
	}, nil
}

// totalPages derives the page count from the total item count. The size the
// server reports wins over the requested one since the server caps it;
// returned only decides when neither is known. Callers must take the count
// from page 0, as later pages report their own, possibly short, length.
func totalPages(env pageEnvelope, requested, returned int) int {
	size := env.PageSize
	if size <= 0 {
		size = requested
	}
	if size <= 0 {
		size = returned
	}
	if size <= 0 || env.Count <= 0 {
		return 0
	}
	return (env.Count + size - 1) / size
}
