package xms

import (
	"context"
)

// API defines the interface for XMS operations
type API interface {
	// Batches
	CreateBatch(ctx context.Context, batch BatchCreate) (*Batch, error)
	ReplaceBatch(ctx context.Context, batchID string, batch BatchCreate) (*Batch, error)
	UpdateBatch(ctx context.Context, batchID string, update BatchUpdate) (*Batch, error)
	GetBatch(ctx context.Context, batchID string) (*Batch, error)
	CancelBatch(ctx context.Context, batchID string) (*Batch, error)
	ListBatches(filter BatchFilter) *Paginator[Batch]
	DryRunBatch(ctx context.Context, batch BatchCreate, opts DryRunOptions) (*DryRunResult, error)
	GetBatchTags(ctx context.Context, batchID string) ([]string, error)
	ReplaceBatchTags(ctx context.Context, batchID string, tags []string) ([]string, error)
	UpdateBatchTags(ctx context.Context, batchID string, update TagsUpdate) ([]string, error)

	// Delivery reports
	GetDeliveryReport(ctx context.Context, batchID string, filter DeliveryReportFilter) (*BatchDeliveryReport, error)
	GetRecipientDeliveryReport(ctx context.Context, batchID, recipient string) (*RecipientDeliveryReport, error)

	// Groups
	CreateGroup(ctx context.Context, group GroupCreate) (*Group, error)
	GetGroup(ctx context.Context, groupID string) (*Group, error)
	ListGroups(filter GroupFilter) *Paginator[Group]
	ReplaceGroup(ctx context.Context, groupID string, group GroupCreate) (*Group, error)
	UpdateGroup(ctx context.Context, groupID string, update GroupUpdate) (*Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	GetGroupMembers(ctx context.Context, groupID string) ([]string, error)
	GetGroupTags(ctx context.Context, groupID string) ([]string, error)
	ReplaceGroupTags(ctx context.Context, groupID string, tags []string) ([]string, error)
	UpdateGroupTags(ctx context.Context, groupID string, update TagsUpdate) ([]string, error)

	// Inbound messages
	GetInbound(ctx context.Context, inboundID string) (*Inbound, error)
	ListInbounds(filter InboundFilter) *Paginator[Inbound]

	// Close releases the connection handle
	Close() error
}

var _ API = (*Client)(nil)
