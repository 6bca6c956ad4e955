package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/xmsctl/xms"
)

type batchRecord struct {
	batch *xms.Batch
}

// BatchRecord exposes a batch to filter expressions.
//
// Variables: ID, Type, From, To, Recipients, Body, Binary, Canceled,
// DeliveryReport, ClientReference, SendAt, ExpireAt, CreatedAt, ModifiedAt.
// Helpers: sentTo(number), hasParameter(name).
func BatchRecord(b *xms.Batch) Record {
	return batchRecord{batch: b}
}

func (r batchRecord) ID() string {
	return r.batch.ID
}

func (r batchRecord) Env() map[string]any {
	b := r.batch
	return map[string]any{
		"Batch":           b,
		"ID":              b.ID,
		"Type":            string(b.Type),
		"From":            b.From,
		"To":              b.To,
		"Recipients":      len(b.To),
		"Body":            b.Body,
		"Binary":          b.Type.IsBinary(),
		"Canceled":        b.Canceled,
		"DeliveryReport":  string(b.DeliveryReport),
		"ClientReference": b.ClientReference,
		"SendAt":          timeOrZero(b.SendAt),
		"ExpireAt":        timeOrZero(b.ExpireAt),
		"CreatedAt":       timeOrZero(b.CreatedAt),
		"ModifiedAt":      timeOrZero(b.ModifiedAt),

		"sentTo": func(number string) bool {
			return slices.Contains(b.To, number)
		},
		"hasParameter": func(name string) bool {
			_, ok := b.Parameters[name]
			return ok
		},
	}
}

type inboundRecord struct {
	inbound *xms.Inbound
}

// InboundRecord exposes an inbound message to filter expressions.
//
// Variables: ID, Type, From, To, Body, Binary, Operator, ReceivedAt, SentAt.
// Helpers: sentTo(number), keyword(word) matching the first word of the
// body case-insensitively.
func InboundRecord(in *xms.Inbound) Record {
	return inboundRecord{inbound: in}
}

func (r inboundRecord) ID() string {
	return r.inbound.ID
}

func (r inboundRecord) Env() map[string]any {
	in := r.inbound
	first := ""
	if fields := strings.Fields(in.Body); len(fields) > 0 {
		first = fields[0]
	}
	return map[string]any{
		"Inbound":    in,
		"ID":         in.ID,
		"Type":       string(in.Type),
		"From":       in.From,
		"To":         in.To,
		"Body":       in.Body,
		"Binary":     in.Type == xms.InboundTypeBinary,
		"Operator":   in.Operator,
		"ReceivedAt": in.ReceivedAt,
		"SentAt":     timeOrZero(in.SentAt),

		"sentTo": func(number string) bool {
			return in.To == number
		},
		"keyword": func(word string) bool {
			return first != "" && strings.EqualFold(first, word)
		},
	}
}

type groupRecord struct {
	group *xms.Group
}

// GroupRecord exposes a group to filter expressions.
//
// Variables: ID, Name, Size, ChildGroups, AutoUpdate, CreatedAt, ModifiedAt.
// Helpers: hasChild(groupID).
func GroupRecord(g *xms.Group) Record {
	return groupRecord{group: g}
}

func (r groupRecord) ID() string {
	return r.group.ID
}

func (r groupRecord) Env() map[string]any {
	g := r.group
	return map[string]any{
		"Group":       g,
		"ID":          g.ID,
		"Name":        g.Name,
		"Size":        g.Size,
		"ChildGroups": g.ChildGroups,
		"AutoUpdate":  g.AutoUpdate != nil,
		"CreatedAt":   timeOrZero(g.CreatedAt),
		"ModifiedAt":  timeOrZero(g.ModifiedAt),

		"hasChild": func(groupID string) bool {
			return slices.Contains(g.ChildGroups, groupID)
		},
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
