package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/xmsctl/xms"
)

var (
	reportType     string
	reportStatuses []string
	reportCodes    []int
)

// reportsCmd fetches delivery reports for one or more batches
var reportsCmd = &cobra.Command{
	Use:   "reports <batch-id>...",
	Short: "Show delivery reports of batches",
	Long: `Fetch the delivery report of each given batch. Reports are fetched
concurrently, up to reports.concurrency at a time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses := make([]xms.DeliveryStatus, 0, len(reportStatuses))
		for _, s := range reportStatuses {
			statuses = append(statuses, xms.DeliveryStatus(s))
		}
		f := xms.DeliveryReportFilter{
			Type:     xms.ReportType(reportType),
			Statuses: statuses,
			Codes:    reportCodes,
		}

		reports, err := fetchReports(commandContext(cmd), args, f, cfg.Reports.Concurrency, newClient)
		if err != nil {
			return err
		}

		return output(reports, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "BATCH\tSTATUS\tCODE\tCOUNT\tRECIPIENTS")
			for _, r := range reports {
				if len(r.Statuses) == 0 {
					fmt.Fprintf(tw, "%s\t-\t-\t0\t\n", r.BatchID)
				}
				for _, s := range r.Statuses {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.BatchID, s.Status, s.Code, s.Count, truncate(fmt.Sprint(s.Recipients), 50))
				}
			}
		})
	},
}

// fetchReports fetches the reports of batchIDs with at most concurrency
// requests in flight. Each worker owns its client since a client must not be
// shared between goroutines. Results keep the order of batchIDs.
func fetchReports(ctx context.Context, batchIDs []string, f xms.DeliveryReportFilter, concurrency int, newClient func() (*xms.Client, error)) ([]*xms.BatchDeliveryReport, error) {
	reports := make([]*xms.BatchDeliveryReport, len(batchIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	for i, batchID := range batchIDs {
		g.Go(func() error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			report, err := client.GetDeliveryReport(ctx, batchID, f)
			if err != nil {
				return fmt.Errorf("failed to fetch report for batch %s: %w", batchID, err)
			}
			if report.BatchID == "" {
				report.BatchID = batchID
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

var reportRecipientCmd = &cobra.Command{
	Use:   "recipient <batch-id> <recipient>",
	Short: "Show the delivery report of a batch for one recipient",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		r, err := client.GetRecipientDeliveryReport(commandContext(cmd), args[0], args[1])
		if err != nil {
			return err
		}

		return output(r, func(tw *tabwriter.Writer) {
			fmt.Fprintf(tw, "Batch:\t%s\n", r.BatchID)
			fmt.Fprintf(tw, "Recipient:\t%s\n", r.Recipient)
			fmt.Fprintf(tw, "Status:\t%s (code %d)\n", r.Status, r.Code)
			fmt.Fprintf(tw, "Final:\t%t\n", r.Status.IsFinal())
			fmt.Fprintf(tw, "Message:\t%s\n", orDash(r.StatusMessage))
			fmt.Fprintf(tw, "Operator:\t%s\n", orDash(r.Operator))
			fmt.Fprintf(tw, "At:\t%s\n", formatTime(&r.At))
			fmt.Fprintf(tw, "Operator status at:\t%s\n", formatTime(r.OperatorStatusAt))
		})
	},
}

func init() {
	reportsCmd.Flags().StringVar(&reportType, "type", "", "report type: summary, full or per_recipient")
	reportsCmd.Flags().StringSliceVar(&reportStatuses, "status", nil, "only include these statuses, e.g. Delivered,Failed")
	reportsCmd.Flags().IntSliceVar(&reportCodes, "code", nil, "only include these status codes")

	reportsCmd.AddCommand(reportRecipientCmd)
}
