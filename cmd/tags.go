package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/xmsctl/xms"
)

// tagOps binds the tag endpoints of one resource kind.
type tagOps struct {
	get     func(c *xms.Client, ctx context.Context, id string) ([]string, error)
	replace func(c *xms.Client, ctx context.Context, id string, tags []string) ([]string, error)
	update  func(c *xms.Client, ctx context.Context, id string, u xms.TagsUpdate) ([]string, error)
}

// newTagsCmd builds "tags get|set|add|remove" for a resource.
func newTagsCmd(resource string, ops tagOps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: fmt.Sprintf("Show or change the tags of a %s", resource),
	}

	run := func(call func(c *xms.Client, ctx context.Context, args []string) ([]string, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			tags, err := call(client, commandContext(cmd), args)
			if err != nil {
				return err
			}
			return printTags(tags)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show the tags of a %s", resource),
		Args:  cobra.ExactArgs(1),
		RunE: run(func(c *xms.Client, ctx context.Context, args []string) ([]string, error) {
			return ops.get(c, ctx, args[0])
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> [tag...]",
		Short: fmt.Sprintf("Replace all tags of a %s; no tags clears them", resource),
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(c *xms.Client, ctx context.Context, args []string) ([]string, error) {
			return ops.replace(c, ctx, args[0], args[1:])
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <tag>...",
		Short: fmt.Sprintf("Add tags to a %s", resource),
		Args:  cobra.MinimumNArgs(2),
		RunE: run(func(c *xms.Client, ctx context.Context, args []string) ([]string, error) {
			return ops.update(c, ctx, args[0], xms.TagsUpdate{Add: args[1:]})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id> <tag>...",
		Short: fmt.Sprintf("Remove tags from a %s", resource),
		Args:  cobra.MinimumNArgs(2),
		RunE: run(func(c *xms.Client, ctx context.Context, args []string) ([]string, error) {
			return ops.update(c, ctx, args[0], xms.TagsUpdate{Remove: args[1:]})
		}),
	})

	return cmd
}

func printTags(tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return output(xms.Tags{Tags: tags}, func(tw *tabwriter.Writer) {
		if len(tags) == 0 {
			fmt.Fprintln(tw, "No tags.")
			return
		}
		fmt.Fprintln(tw, strings.Join(tags, "\n"))
	})
}
