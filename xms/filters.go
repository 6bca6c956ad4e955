package xms

import (
	"slices"
	"strconv"
	"time"
)

// BatchFilter restricts ListBatches. Zero fields are not sent.
type BatchFilter struct {
	PageSize  int
	Senders   []string
	Tags      []string
	StartDate time.Time
	EndDate   time.Time
}

func (f BatchFilter) clone() BatchFilter {
	f.Senders = slices.Clone(f.Senders)
	f.Tags = slices.Clone(f.Tags)
	return f
}

func (f BatchFilter) query(page int) (string, error) {
	if err := checkPageSize(f.PageSize); err != nil {
		return "", err
	}
	return pageQuery(page, f.PageSize).
		setList("from", f.Senders).
		setList("tags", f.Tags).
		setDate("start_date", f.StartDate).
		setDate("end_date", f.EndDate).
		String(), nil
}

// GroupFilter restricts ListGroups. Zero fields are not sent.
type GroupFilter struct {
	PageSize int
	Tags     []string
}

func (f GroupFilter) clone() GroupFilter {
	f.Tags = slices.Clone(f.Tags)
	return f
}

func (f GroupFilter) query(page int) (string, error) {
	if err := checkPageSize(f.PageSize); err != nil {
		return "", err
	}
	return pageQuery(page, f.PageSize).
		setList("tags", f.Tags).
		String(), nil
}

// InboundFilter restricts ListInbounds. Recipients are the numbers or short
// codes the messages were sent to.
type InboundFilter struct {
	PageSize   int
	Recipients []string
	StartDate  time.Time
	EndDate    time.Time
}

func (f InboundFilter) clone() InboundFilter {
	f.Recipients = slices.Clone(f.Recipients)
	return f
}

func (f InboundFilter) query(page int) (string, error) {
	if err := checkPageSize(f.PageSize); err != nil {
		return "", err
	}
	return pageQuery(page, f.PageSize).
		setList("to", f.Recipients).
		setDate("start_date", f.StartDate).
		setDate("end_date", f.EndDate).
		String(), nil
}

// ReportType selects the level of detail of a batch delivery report.
type ReportType string

const (
	ReportSummary      ReportType = "summary"
	ReportFull         ReportType = "full"
	ReportPerRecipient ReportType = "per_recipient"
)

// DeliveryReportFilter restricts GetDeliveryReport. Zero fields are not
// sent; the server then returns a summary report.
type DeliveryReportFilter struct {
	Type     ReportType
	Statuses []DeliveryStatus
	Codes    []int
}

func (f DeliveryReportFilter) query() string {
	q := &queryBuilder{}
	if f.Type != "" {
		q.set("type", string(f.Type))
	}
	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}
	codes := make([]string, 0, len(f.Codes))
	for _, c := range f.Codes {
		codes = append(codes, strconv.Itoa(c))
	}
	return q.setList("status", statuses).setList("code", codes).String()
}

// DryRunOptions controls DryRunBatch.
type DryRunOptions struct {
	// PerRecipient requests the rendered message for a sample of recipients.
	PerRecipient bool
	// NumberOfRecipients caps the per recipient sample; zero leaves the
	// server default.
	NumberOfRecipients int
}

func (o DryRunOptions) query() string {
	q := &queryBuilder{}
	if o.PerRecipient {
		q.set("per_recipient", "true")
	}
	return q.setInt("number_of_recipients", o.NumberOfRecipients).String()
}

// checkPageSize rejects negative sizes; zero means the server default.
func checkPageSize(size int) error {
	if size < 0 {
		return &InvalidArgumentError{Argument: "page_size", Reason: "must not be negative"}
	}
	return nil
}
