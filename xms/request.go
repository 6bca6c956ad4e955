package xms

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// url returns <endpoint>/v1/<service plan><path>.
func (c *Client) url(path string) string {
	return c.endpoint + "/v1/" + url.PathEscape(c.servicePlanID) + path
}

func batchPath(batchID, sub string) string {
	return "/batches/" + url.PathEscape(batchID) + sub
}

func groupPath(groupID, sub string) string {
	return "/groups/" + url.PathEscape(groupID) + sub
}

func inboundPath(inboundID string) string {
	return "/inbounds/" + url.PathEscape(inboundID)
}

// withQuery appends a non-empty query string to u.
func withQuery(u, query string) string {
	if query == "" {
		return u
	}
	return u + "?" + query
}

// queryBuilder builds query strings whose keys keep insertion order, so the
// same filter always produces the same URL.
type queryBuilder struct {
	parts []string
}

func pageQuery(page, pageSize int) *queryBuilder {
	q := &queryBuilder{}
	q.set("page", strconv.Itoa(page))
	q.setInt("page_size", pageSize)
	return q
}

func (q *queryBuilder) set(key, value string) *queryBuilder {
	q.parts = append(q.parts, key+"="+url.QueryEscape(value))
	return q
}

// setInt sets key only for positive values.
func (q *queryBuilder) setInt(key string, value int) *queryBuilder {
	if value > 0 {
		q.set(key, strconv.Itoa(value))
	}
	return q
}

// setList comma-joins values; empty lists are omitted.
func (q *queryBuilder) setList(key string, values []string) *queryBuilder {
	if len(values) > 0 {
		q.set(key, strings.Join(values, ","))
	}
	return q
}

func (q *queryBuilder) setDate(key string, t time.Time) *queryBuilder {
	if !t.IsZero() {
		q.set(key, t.Format(dateLayout))
	}
	return q
}

func (q *queryBuilder) String() string {
	return strings.Join(q.parts, "&")
}
