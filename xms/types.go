package xms

import (
	"encoding/hex"
	"encoding/json"
	"time"
)

// BatchType tells text and binary batches apart on the wire.
type BatchType string

const (
	// BatchTypeText is a batch with a text body
	BatchTypeText BatchType = "mt_text"
	// BatchTypeBinary is a batch with a binary body and user data header
	BatchTypeBinary BatchType = "mt_binary"
)

// IsBinary checks if the batch type is binary
func (t BatchType) IsBinary() bool {
	return t == BatchTypeBinary
}

// DeliveryReportMode selects which delivery reports the server produces
// for a batch.
type DeliveryReportMode string

const (
	DeliveryReportNone         DeliveryReportMode = "none"
	DeliveryReportSummary      DeliveryReportMode = "summary"
	DeliveryReportFull         DeliveryReportMode = "full"
	DeliveryReportPerRecipient DeliveryReportMode = "per_recipient"
)

// DeliveryStatus is the delivery state of a message.
type DeliveryStatus string

const (
	StatusQueued     DeliveryStatus = "Queued"
	StatusDispatched DeliveryStatus = "Dispatched"
	StatusAborted    DeliveryStatus = "Aborted"
	StatusRejected   DeliveryStatus = "Rejected"
	StatusDelivered  DeliveryStatus = "Delivered"
	StatusFailed     DeliveryStatus = "Failed"
	StatusExpired    DeliveryStatus = "Expired"
	StatusUnknown    DeliveryStatus = "Unknown"
)

// IsFinal checks if no further status change is expected
func (s DeliveryStatus) IsFinal() bool {
	switch s {
	case StatusAborted, StatusRejected, StatusDelivered, StatusFailed, StatusExpired:
		return true
	default:
		return false
	}
}

// ParameterValues maps recipients to the value substituted for one
// ${parameter} in a text body. DefaultKey holds the fallback value.
type ParameterValues map[string]string

// DefaultKey is the ParameterValues key used for recipients without an
// explicit value.
const DefaultKey = "default"

// BatchCreate is a batch creation request: either *TextBatch or
// *BinaryBatch.
type BatchCreate interface {
	batchCreate()
}

// TextBatch creates a batch with a text body. The body may reference
// ${name} parameters.
type TextBatch struct {
	From            string                     `json:"from"`
	To              []string                   `json:"to"`
	Body            string                     `json:"body"`
	Parameters      map[string]ParameterValues `json:"parameters,omitempty"`
	DeliveryReport  DeliveryReportMode         `json:"delivery_report,omitempty"`
	SendAt          *time.Time                 `json:"send_at,omitempty"`
	ExpireAt        *time.Time                 `json:"expire_at,omitempty"`
	CallbackURL     string                     `json:"callback_url,omitempty"`
	ClientReference string                     `json:"client_reference,omitempty"`
	Tags            []string                   `json:"tags,omitempty"`
	FlashMessage    bool                       `json:"flash_message,omitempty"`
}

func (*TextBatch) batchCreate() {}

// BinaryBatch creates a batch with a base64 body and user data header.
type BinaryBatch struct {
	From            string             `json:"from"`
	To              []string           `json:"to"`
	Body            []byte             `json:"body"`
	UDH             HexBytes           `json:"udh"`
	DeliveryReport  DeliveryReportMode `json:"delivery_report,omitempty"`
	SendAt          *time.Time         `json:"send_at,omitempty"`
	ExpireAt        *time.Time         `json:"expire_at,omitempty"`
	CallbackURL     string             `json:"callback_url,omitempty"`
	ClientReference string             `json:"client_reference,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
}

func (*BinaryBatch) batchCreate() {}

// BatchUpdate is a partial batch update: either *TextBatchUpdate or
// *BinaryBatchUpdate.
type BatchUpdate interface {
	batchUpdate()
}

// TextBatchUpdate changes fields of a text batch that has not been sent.
// Nil and empty fields are left unchanged.
type TextBatchUpdate struct {
	From           string                     `json:"from,omitempty"`
	ToAdd          []string                   `json:"to_add,omitempty"`
	ToRemove       []string                   `json:"to_remove,omitempty"`
	Body           *string                    `json:"body,omitempty"`
	Parameters     map[string]ParameterValues `json:"parameters,omitempty"`
	DeliveryReport DeliveryReportMode         `json:"delivery_report,omitempty"`
	SendAt         *time.Time                 `json:"send_at,omitempty"`
	ExpireAt       *time.Time                 `json:"expire_at,omitempty"`
	CallbackURL    *string                    `json:"callback_url,omitempty"`
}

func (*TextBatchUpdate) batchUpdate() {}

// BinaryBatchUpdate changes fields of a binary batch that has not been
// sent. Nil and empty fields are left unchanged.
type BinaryBatchUpdate struct {
	From           string             `json:"from,omitempty"`
	ToAdd          []string           `json:"to_add,omitempty"`
	ToRemove       []string           `json:"to_remove,omitempty"`
	Body           []byte             `json:"body,omitempty"`
	UDH            HexBytes           `json:"udh,omitempty"`
	DeliveryReport DeliveryReportMode `json:"delivery_report,omitempty"`
	SendAt         *time.Time         `json:"send_at,omitempty"`
	ExpireAt       *time.Time         `json:"expire_at,omitempty"`
	CallbackURL    *string            `json:"callback_url,omitempty"`
}

func (*BinaryBatchUpdate) batchUpdate() {}

// Batch is a batch as returned by the server. Text batches carry Body and
// Parameters; binary batches carry Body as base64 and UDH as hex.
type Batch struct {
	ID              string                     `json:"id"`
	Type            BatchType                  `json:"type"`
	From            string                     `json:"from"`
	To              []string                   `json:"to"`
	Body            string                     `json:"body"`
	UDH             string                     `json:"udh,omitempty"`
	Parameters      map[string]ParameterValues `json:"parameters,omitempty"`
	Canceled        bool                       `json:"canceled"`
	DeliveryReport  DeliveryReportMode         `json:"delivery_report,omitempty"`
	SendAt          *time.Time                 `json:"send_at,omitempty"`
	ExpireAt        *time.Time                 `json:"expire_at,omitempty"`
	CreatedAt       *time.Time                 `json:"created_at,omitempty"`
	ModifiedAt      *time.Time                 `json:"modified_at,omitempty"`
	CallbackURL     string                     `json:"callback_url,omitempty"`
	ClientReference string                     `json:"client_reference,omitempty"`
	FlashMessage    bool                       `json:"flash_message,omitempty"`
}

// DryRunResult is the outcome of a simulated batch send.
type DryRunResult struct {
	NumberOfRecipients int               `json:"number_of_recipients"`
	NumberOfMessages   int               `json:"number_of_messages"`
	PerRecipient       []DryRunRecipient `json:"per_recipient,omitempty"`
}

// DryRunRecipient is the rendered message for one sampled recipient.
type DryRunRecipient struct {
	Recipient   string `json:"recipient"`
	MessagePart string `json:"message_part,omitempty"`
	Body        string `json:"body"`
	Encoding    string `json:"encoding"`
}

// BatchDeliveryReport summarizes delivery of a batch by status.
type BatchDeliveryReport struct {
	BatchID           string         `json:"batch_id"`
	Type              string         `json:"type"`
	TotalMessageCount int            `json:"total_message_count"`
	Statuses          []StatusBucket `json:"statuses"`
}

// Count returns the number of messages in the given status.
func (r *BatchDeliveryReport) Count(status DeliveryStatus) int {
	n := 0
	for _, s := range r.Statuses {
		if s.Status == status {
			n += s.Count
		}
	}
	return n
}

// StatusBucket groups messages sharing a status and status code.
// Recipients is only filled for full reports.
type StatusBucket struct {
	Code       int            `json:"code"`
	Status     DeliveryStatus `json:"status"`
	Count      int            `json:"count"`
	Recipients []string       `json:"recipients,omitempty"`
}

// RecipientDeliveryReport is the delivery state of a batch for a single
// recipient.
type RecipientDeliveryReport struct {
	BatchID          string         `json:"batch_id"`
	Recipient        string         `json:"recipient"`
	Code             int            `json:"code"`
	Status           DeliveryStatus `json:"status"`
	StatusMessage    string         `json:"status_message,omitempty"`
	Operator         string         `json:"operator,omitempty"`
	At               time.Time      `json:"at"`
	OperatorStatusAt *time.Time     `json:"operator_status_at,omitempty"`
}

// GroupAutoUpdate lets recipients join or leave a group by sending
// keywords to a number.
type GroupAutoUpdate struct {
	To     string       `json:"to"`
	Add    *KeywordPair `json:"add,omitempty"`
	Remove *KeywordPair `json:"remove,omitempty"`
}

// KeywordPair is a first word and optional second word matched against
// inbound messages.
type KeywordPair struct {
	FirstWord  string `json:"first_word"`
	SecondWord string `json:"second_word,omitempty"`
}

// GroupCreate creates or replaces a group.
type GroupCreate struct {
	Name        string           `json:"name,omitempty"`
	Members     []string         `json:"members,omitempty"`
	ChildGroups []string         `json:"child_groups,omitempty"`
	AutoUpdate  *GroupAutoUpdate `json:"auto_update,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
}

// GroupUpdate changes a group in place. Nil and empty fields are left
// unchanged.
type GroupUpdate struct {
	Name              *string          `json:"name,omitempty"`
	Add               []string         `json:"add,omitempty"`
	Remove            []string         `json:"remove,omitempty"`
	ChildGroupsAdd    []string         `json:"child_groups_add,omitempty"`
	ChildGroupsRemove []string         `json:"child_groups_remove,omitempty"`
	AddFromGroup      string           `json:"add_from_group,omitempty"`
	RemoveFromGroup   string           `json:"remove_from_group,omitempty"`
	AutoUpdate        *GroupAutoUpdate `json:"auto_update,omitempty"`
}

// Group is a group as returned by the server.
type Group struct {
	ID          string           `json:"id"`
	Name        string           `json:"name,omitempty"`
	Size        int              `json:"size"`
	ChildGroups []string         `json:"child_groups,omitempty"`
	AutoUpdate  *GroupAutoUpdate `json:"auto_update,omitempty"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
	ModifiedAt  *time.Time       `json:"modified_at,omitempty"`
}

// InboundType tells text and binary inbound messages apart.
type InboundType string

const (
	InboundTypeText   InboundType = "mo_text"
	InboundTypeBinary InboundType = "mo_binary"
)

// Inbound is a mobile originated message.
type Inbound struct {
	ID         string      `json:"id"`
	Type       InboundType `json:"type"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Body       string      `json:"body"`
	UDH        string      `json:"udh,omitempty"`
	Operator   string      `json:"operator,omitempty"`
	ReceivedAt time.Time   `json:"received_at"`
	SentAt     *time.Time  `json:"sent_at,omitempty"`
}

// Tags is the tag document used by the tag endpoints.
type Tags struct {
	Tags []string `json:"tags"`
}

// TagsUpdate adds and removes tags in one call.
type TagsUpdate struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// HexBytes is a byte slice sent as a hex string, as used for user data
// headers.
type HexBytes []byte

// MarshalJSON implements json.Marshaler
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

// UnmarshalJSON implements json.Unmarshaler
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*h = b
	return nil
}
