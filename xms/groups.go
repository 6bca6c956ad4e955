package xms

import (
	"context"
	"net/http"
)

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, group GroupCreate) (*Group, error) {
	return doJSON[Group](ctx, c, http.MethodPost, c.url("/groups"), group)
}

// GetGroup retrieves a single group.
func (c *Client) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	if err := requireID("group_id", groupID); err != nil {
		return nil, err
	}
	return doJSON[Group](ctx, c, http.MethodGet, c.url(groupPath(groupID, "")), nil)
}

// ListGroups returns a paginator over the groups matching filter.
func (c *Client) ListGroups(filter GroupFilter) *Paginator[Group] {
	f := filter.clone()
	return NewPaginator(func(ctx context.Context, page int) (*Page[Group], error) {
		query, err := f.query(page)
		if err != nil {
			return nil, err
		}
		return fetchPage[Group](ctx, c, "/groups", query, "groups", f.PageSize)
	})
}

// ReplaceGroup replaces a group, including its members.
func (c *Client) ReplaceGroup(ctx context.Context, groupID string, group GroupCreate) (*Group, error) {
	if err := requireID("group_id", groupID); err != nil {
		return nil, err
	}
	return doJSON[Group](ctx, c, http.MethodPut, c.url(groupPath(groupID, "")), group)
}

// UpdateGroup applies a partial update to a group.
func (c *Client) UpdateGroup(ctx context.Context, groupID string, update GroupUpdate) (*Group, error) {
	if err := requireID("group_id", groupID); err != nil {
		return nil, err
	}
	return doJSON[Group](ctx, c, http.MethodPost, c.url(groupPath(groupID, "")), update)
}

// DeleteGroup deletes a group.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	if err := requireID("group_id", groupID); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodDelete, c.url(groupPath(groupID, "")), nil)
	return err
}

// GetGroupMembers returns the phone numbers in a group.
func (c *Client) GetGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	if err := requireID("group_id", groupID); err != nil {
		return nil, err
	}
	members, err := doJSON[[]string](ctx, c, http.MethodGet, c.url(groupPath(groupID, "/members")), nil)
	if err != nil {
		return nil, err
	}
	return *members, nil
}

// GetGroupTags returns the tags of a group.
func (c *Client) GetGroupTags(ctx context.Context, groupID string) ([]string, error) {
	if err := requireID("group_id", groupID); err != nil {
		return nil, err
	}
	return c.getTags(ctx, groupPath(groupID, "/tags"))
}

// ReplaceGroupTags replaces all tags of a group.
func (c *Client) ReplaceGroupTags(ctx context.Context, groupID string, tags []string) ([]string, error) {
	if err := requireID("group_id", groupID); err != nil {
		return nil, err
	}
	return c.replaceTags(ctx, groupPath(groupID, "/tags"), tags)
}

// UpdateGroupTags adds and removes tags of a group.
func (c *Client) UpdateGroupTags(ctx context.Context, groupID string, update TagsUpdate) ([]string, error) {
	if err := requireID("group_id", groupID); err != nil {
		return nil, err
	}
	return c.updateTags(ctx, groupPath(groupID, "/tags"), update)
}
