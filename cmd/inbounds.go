package cmd

import (
	"fmt"
	"iter"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/xmsctl/filter"
	"github.com/s0up4200/xmsctl/store"
	"github.com/s0up4200/xmsctl/xms"
)

// inboundsCmd groups the inbound message commands
var inboundsCmd = &cobra.Command{
	Use:     "inbounds",
	Aliases: []string{"inbound", "mo"},
	Short:   "Inspect messages received by the service plan",
}

var (
	inboundList  listFlags
	inboundTo    []string
	inboundStart string
	inboundEnd   string
	syncPeek     bool
)

var inboundGetCmd = &cobra.Command{
	Use:   "get <inbound-id>",
	Short: "Show an inbound message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		in, err := client.GetInbound(commandContext(cmd), args[0])
		if err != nil {
			return err
		}

		return output(in, func(tw *tabwriter.Writer) {
			fmt.Fprintf(tw, "ID:\t%s\n", in.ID)
			fmt.Fprintf(tw, "Type:\t%s\n", in.Type)
			fmt.Fprintf(tw, "From:\t%s\n", in.From)
			fmt.Fprintf(tw, "To:\t%s\n", in.To)
			fmt.Fprintf(tw, "Body:\t%s\n", in.Body)
			if in.UDH != "" {
				fmt.Fprintf(tw, "UDH:\t%s\n", in.UDH)
			}
			fmt.Fprintf(tw, "Operator:\t%s\n", orDash(in.Operator))
			fmt.Fprintf(tw, "Received:\t%s\n", formatTime(&in.ReceivedAt))
			fmt.Fprintf(tw, "Sent:\t%s\n", formatTime(in.SentAt))
		})
	},
}

var inboundListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inbound messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInbounds(cmd, func(seq iter.Seq2[xms.Inbound, error], f filter.CompiledFilter) ([]xms.Inbound, error) {
			return collect(seq, f, filter.InboundRecord, inboundList.limit)
		})
	},
}

var inboundSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Show inbound messages not seen by a previous sync",
	Long: `List inbound messages and print only those not reported by an earlier
run. Reported message ids are kept in the local store (store.path) until
store.ttl elapses.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seen, err := store.Open(cfg.Store.Backend, cfg.Store.Path, store.Options{
			TTL:             cfg.Store.TTL,
			CleanupInterval: cfg.Store.CleanupInterval,
		})
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer seen.Close()

		return runInbounds(cmd, func(seq iter.Seq2[xms.Inbound, error], f filter.CompiledFilter) ([]xms.Inbound, error) {
			fresh, err := syncInbounds(seq, f, seen, syncPeek, inboundList.limit)
			logger.Info().Int("new", len(fresh)).Bool("peek", syncPeek).Msg("Inbound sync finished")
			return fresh, err
		})
	},
}

func runInbounds(cmd *cobra.Command, consume func(iter.Seq2[xms.Inbound, error], filter.CompiledFilter) ([]xms.Inbound, error)) error {
	start, err := parseDate("start", inboundStart)
	if err != nil {
		return err
	}
	end, err := parseDate("end", inboundEnd)
	if err != nil {
		return err
	}
	f, err := inboundList.filter()
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	pages := client.ListInbounds(xms.InboundFilter{
		PageSize:   inboundList.pageSize,
		Recipients: inboundTo,
		StartDate:  start,
		EndDate:    end,
	})
	inbounds, err := consume(pages.All(commandContext(cmd)), f)
	if err != nil {
		return fmt.Errorf("failed to list inbound messages: %w", err)
	}
	if inbounds == nil {
		inbounds = []xms.Inbound{}
	}

	return output(inbounds, func(tw *tabwriter.Writer) {
		if len(inbounds) == 0 {
			fmt.Fprintln(tw, "No inbound messages found.")
			return
		}
		fmt.Fprintln(tw, "ID\tFROM\tTO\tRECEIVED\tBODY")
		for _, in := range inbounds {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", in.ID, in.From, in.To, formatTime(&in.ReceivedAt), truncate(in.Body, 50))
		}
	})
}

// syncInbounds returns the matching messages missing from seen and, unless
// peek is set, records them. limit bounds the number of new messages.
func syncInbounds(seq iter.Seq2[xms.Inbound, error], f filter.CompiledFilter, seen store.Store, peek bool, limit int) ([]xms.Inbound, error) {
	var fresh []xms.Inbound
	for in, err := range filter.Apply(seq, f, filter.InboundRecord) {
		if err != nil {
			return fresh, err
		}

		ok, err := seen.Seen(in.ID)
		if err != nil {
			return fresh, err
		}
		if ok {
			continue
		}

		if !peek {
			if err := seen.Mark(in.ID); err != nil {
				return fresh, err
			}
		}
		fresh = append(fresh, in)
		if limit > 0 && len(fresh) >= limit {
			break
		}
	}
	return fresh, nil
}

func init() {
	inboundList.register(inboundListCmd)
	inboundList.register(inboundSyncCmd)
	for _, c := range []*cobra.Command{inboundListCmd, inboundSyncCmd} {
		c.Flags().StringSliceVar(&inboundTo, "to", nil, "only messages sent to these numbers or short codes")
		c.Flags().StringVar(&inboundStart, "start", "", "only messages received on or after this date")
		c.Flags().StringVar(&inboundEnd, "end", "", "only messages received before this date")
	}
	inboundSyncCmd.Flags().BoolVar(&syncPeek, "peek", false, "show new messages without recording them")

	inboundsCmd.AddCommand(inboundGetCmd)
	inboundsCmd.AddCommand(inboundListCmd)
	inboundsCmd.AddCommand(inboundSyncCmd)
}
