package cmd

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/xmsctl/filter"
)

// listFlags are shared by every list command.
type listFlags struct {
	pageSize int
	where    string
	preset   string
	limit    int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "items per page requested from the server (0 = server default)")
	cmd.Flags().StringVarP(&f.where, "where", "w", "", "filter expression evaluated on every item")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "use a preset filter from config")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "stop after N matching items (0 = no limit)")
}

func (f *listFlags) filter() (filter.CompiledFilter, error) {
	compiled, err := filters.Resolve(f.preset, f.where)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return compiled, nil
}

// collect drains seq through the filter. Pages are only fetched while more
// items are needed, so a limit also bounds the number of requests.
func collect[T any](seq iter.Seq2[T, error], f filter.CompiledFilter, record func(*T) filter.Record, limit int) ([]T, error) {
	var items []T
	for item, err := range filter.Apply(seq, f, record) {
		if err != nil {
			return items, err
		}
		items = append(items, item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

// parseDate accepts YYYY-MM-DD or RFC3339. An empty string is the zero time.
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD or RFC3339", flag, value)
	}
	return t, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
