package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/s0up4200/xmsctl/filter"
	"github.com/s0up4200/xmsctl/xms"
)

// batchesCmd groups the batch commands
var batchesCmd = &cobra.Command{
	Use:     "batches",
	Aliases: []string{"batch"},
	Short:   "Send, inspect and cancel SMS batches",
}

// sendFlags describe a batch on the command line
type sendFlags struct {
	from           string
	to             []string
	body           string
	binaryBody     string
	udh            string
	params         []string
	ref            string
	tags           []string
	sendAt         string
	expireAt       string
	callbackURL    string
	deliveryReport string
	flash          bool
}

func (f *sendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "sender number, short code or alphanumeric sender id")
	cmd.Flags().StringSliceVarP(&f.to, "to", "t", nil, "recipient numbers or group ids (repeatable)")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "message text; may reference ${parameter} values")
	cmd.Flags().StringVar(&f.binaryBody, "binary-body", "", "hex encoded binary body; sends a binary batch")
	cmd.Flags().StringVar(&f.udh, "udh", "", "hex encoded user data header for binary batches")
	cmd.Flags().StringArrayVar(&f.params, "param", nil, "default parameter value as name=value (repeatable)")
	cmd.Flags().StringVar(&f.ref, "ref", "", "client reference (default: a new UUID)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag to attach to the batch (repeatable)")
	cmd.Flags().StringVar(&f.sendAt, "send-at", "", "schedule the batch (RFC3339)")
	cmd.Flags().StringVar(&f.expireAt, "expire-at", "", "give up delivery after this time (RFC3339)")
	cmd.Flags().StringVar(&f.callbackURL, "callback-url", "", "URL receiving delivery report callbacks")
	cmd.Flags().StringVar(&f.deliveryReport, "delivery-report", "", "delivery report mode: none, summary, full or per_recipient")
	cmd.Flags().BoolVar(&f.flash, "flash", false, "send as flash message (text batches only)")
}

// build turns the flags into a creation request
func (f *sendFlags) build() (xms.BatchCreate, error) {
	if f.from == "" {
		return nil, fmt.Errorf("--from is required")
	}
	if len(f.to) == 0 {
		return nil, fmt.Errorf("at least one --to is required")
	}

	sendAt, err := optionalTime("send-at", f.sendAt)
	if err != nil {
		return nil, err
	}
	expireAt, err := optionalTime("expire-at", f.expireAt)
	if err != nil {
		return nil, err
	}

	ref := f.ref
	if ref == "" {
		ref = uuid.NewString()
	}
	mode := xms.DeliveryReportMode(f.deliveryReport)

	if f.binaryBody != "" {
		if f.body != "" {
			return nil, fmt.Errorf("--body and --binary-body are mutually exclusive")
		}
		body, err := hex.DecodeString(f.binaryBody)
		if err != nil {
			return nil, fmt.Errorf("invalid --binary-body: %w", err)
		}
		udh, err := hex.DecodeString(f.udh)
		if err != nil {
			return nil, fmt.Errorf("invalid --udh: %w", err)
		}
		return &xms.BinaryBatch{
			From:            f.from,
			To:              f.to,
			Body:            body,
			UDH:             udh,
			DeliveryReport:  mode,
			SendAt:          sendAt,
			ExpireAt:        expireAt,
			CallbackURL:     f.callbackURL,
			ClientReference: ref,
			Tags:            f.tags,
		}, nil
	}

	if f.body == "" {
		return nil, fmt.Errorf("--body or --binary-body is required")
	}
	params, err := parseParams(f.params)
	if err != nil {
		return nil, err
	}
	return &xms.TextBatch{
		From:            f.from,
		To:              f.to,
		Body:            f.body,
		Parameters:      params,
		DeliveryReport:  mode,
		SendAt:          sendAt,
		ExpireAt:        expireAt,
		CallbackURL:     f.callbackURL,
		ClientReference: ref,
		Tags:            f.tags,
		FlashMessage:    f.flash,
	}, nil
}

// parseParams reads name=value pairs into default parameter values
func parseParams(pairs []string) (map[string]xms.ParameterValues, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]xms.ParameterValues, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", pair)
		}
		params[name] = xms.ParameterValues{xms.DefaultKey: value}
	}
	return params, nil
}

func optionalTime(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected RFC3339", flag, value)
	}
	return &t, nil
}

var (
	sendOpts   sendFlags
	sendDryRun bool

	dryRunOpts     sendFlags
	dryRunSample   int
	dryRunPerRecip bool

	batchList    listFlags
	batchSenders []string
	batchTags    []string
	batchStart   string
	batchEnd     string
)

var batchSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a text or binary batch",
	Example: `  xmsctl batches send --from 12345 --to +46701234567 --body "Hello"
  xmsctl batches send --from 12345 --to +4670111 --to +4670222 --body 'Hi ${name}' --param name=friend`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := sendOpts.build()
		if err != nil {
			return err
		}
		if sendDryRun {
			return runDryRun(cmd, batch, xms.DryRunOptions{PerRecipient: true})
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		created, err := client.CreateBatch(commandContext(cmd), batch)
		if err != nil {
			return fmt.Errorf("failed to send batch: %w", err)
		}
		logger.Info().
			Str("batch_id", created.ID).
			Str("client_reference", created.ClientReference).
			Int("recipients", len(created.To)).
			Msg("Batch sent")

		return printBatch(created)
	},
}

var batchDryRunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Show how many messages a batch would produce without sending it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := dryRunOpts.build()
		if err != nil {
			return err
		}
		return runDryRun(cmd, batch, xms.DryRunOptions{
			PerRecipient:       dryRunPerRecip,
			NumberOfRecipients: dryRunSample,
		})
	},
}

func runDryRun(cmd *cobra.Command, batch xms.BatchCreate, opts xms.DryRunOptions) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := client.DryRunBatch(commandContext(cmd), batch, opts)
	if err != nil {
		return fmt.Errorf("dry run failed: %w", err)
	}

	return output(result, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Recipients:\t%d\n", result.NumberOfRecipients)
		fmt.Fprintf(tw, "Messages:\t%d\n", result.NumberOfMessages)
		if len(result.PerRecipient) == 0 {
			return
		}
		fmt.Fprintln(tw, "\nRECIPIENT\tENCODING\tPART\tBODY")
		for _, r := range result.PerRecipient {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Recipient, r.Encoding, orDash(r.MessagePart), truncate(r.Body, 60))
		}
	})
}

var batchGetCmd = &cobra.Command{
	Use:   "get <batch-id>",
	Short: "Show a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		batch, err := client.GetBatch(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		return printBatch(batch)
	},
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batches",
	Example: `  xmsctl batches list --tag campaign --start 2024-01-01
  xmsctl batches list --where 'Recipients > 100 and not Canceled' --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDate("start", batchStart)
		if err != nil {
			return err
		}
		end, err := parseDate("end", batchEnd)
		if err != nil {
			return err
		}
		f, err := batchList.filter()
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		pages := client.ListBatches(xms.BatchFilter{
			PageSize:  batchList.pageSize,
			Senders:   batchSenders,
			Tags:      batchTags,
			StartDate: start,
			EndDate:   end,
		})
		batches, err := collect(pages.All(commandContext(cmd)), f, filter.BatchRecord, batchList.limit)
		if err != nil {
			return fmt.Errorf("failed to list batches: %w", err)
		}
		if batches == nil {
			batches = []xms.Batch{}
		}

		return output(batches, func(tw *tabwriter.Writer) {
			if len(batches) == 0 {
				fmt.Fprintln(tw, "No batches found.")
				return
			}
			fmt.Fprintln(tw, "ID\tTYPE\tFROM\tRECIPIENTS\tCANCELED\tCREATED\tBODY")
			for _, b := range batches {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\t%s\t%s\n",
					b.ID, b.Type, b.From, len(b.To), b.Canceled, formatTime(b.CreatedAt), truncate(b.Body, 40))
			}
		})
	},
}

var batchCancelCmd = &cobra.Command{
	Use:   "cancel <batch-id>",
	Short: "Cancel a batch; messages already handed over are still delivered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCancel(cmd, os.Stdin, args[0])
	},
}

func runCancel(cmd *cobra.Command, in io.Reader, batchID string) error {
	if !confirm(in, fmt.Sprintf("Cancel batch %s?", batchID)) {
		logger.Info().Str("batch_id", batchID).Msg("Cancellation aborted")
		return nil
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	batch, err := client.CancelBatch(commandContext(cmd), batchID)
	if err != nil {
		return fmt.Errorf("failed to cancel batch: %w", err)
	}
	logger.Info().Str("batch_id", batch.ID).Msg("Batch canceled")
	return printBatch(batch)
}

func printBatch(b *xms.Batch) error {
	return output(b, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "ID:\t%s\n", b.ID)
		fmt.Fprintf(tw, "Type:\t%s\n", b.Type)
		fmt.Fprintf(tw, "From:\t%s\n", b.From)
		fmt.Fprintf(tw, "To:\t%s\n", strings.Join(b.To, ", "))
		if b.Type.IsBinary() {
			fmt.Fprintf(tw, "Body (base64):\t%s\n", b.Body)
			fmt.Fprintf(tw, "UDH:\t%s\n", b.UDH)
		} else {
			fmt.Fprintf(tw, "Body:\t%s\n", b.Body)
		}
		fmt.Fprintf(tw, "Canceled:\t%t\n", b.Canceled)
		fmt.Fprintf(tw, "Delivery report:\t%s\n", orDash(string(b.DeliveryReport)))
		fmt.Fprintf(tw, "Client reference:\t%s\n", orDash(b.ClientReference))
		fmt.Fprintf(tw, "Send at:\t%s\n", formatTime(b.SendAt))
		fmt.Fprintf(tw, "Expire at:\t%s\n", formatTime(b.ExpireAt))
		fmt.Fprintf(tw, "Created:\t%s\n", formatTime(b.CreatedAt))
		fmt.Fprintf(tw, "Modified:\t%s\n", formatTime(b.ModifiedAt))
	})
}

func init() {
	sendOpts.register(batchSendCmd)
	batchSendCmd.Flags().BoolVarP(&sendDryRun, "dry-run", "d", false, "simulate the send instead of sending")

	dryRunOpts.register(batchDryRunCmd)
	batchDryRunCmd.Flags().BoolVar(&dryRunPerRecip, "per-recipient", true, "include rendered messages for sampled recipients")
	batchDryRunCmd.Flags().IntVar(&dryRunSample, "sample", 0, "number of recipients to render (0 = server default)")

	batchList.register(batchListCmd)
	batchListCmd.Flags().StringSliceVar(&batchSenders, "from", nil, "only batches sent from these senders")
	batchListCmd.Flags().StringSliceVar(&batchTags, "tag", nil, "only batches carrying one of these tags")
	batchListCmd.Flags().StringVar(&batchStart, "start", "", "only batches created on or after this date")
	batchListCmd.Flags().StringVar(&batchEnd, "end", "", "only batches created before this date")

	batchesCmd.AddCommand(batchSendCmd)
	batchesCmd.AddCommand(batchDryRunCmd)
	batchesCmd.AddCommand(batchGetCmd)
	batchesCmd.AddCommand(batchListCmd)
	batchesCmd.AddCommand(batchCancelCmd)
	batchesCmd.AddCommand(newTagsCmd("batch", tagOps{
		get:     (*xms.Client).GetBatchTags,
		replace: (*xms.Client).ReplaceBatchTags,
		update:  (*xms.Client).UpdateBatchTags,
	}))
}
