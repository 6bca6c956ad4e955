package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/xmsctl/filter"
	"github.com/s0up4200/xmsctl/xms"
)

// groupsCmd groups the recipient group commands
var groupsCmd = &cobra.Command{
	Use:     "groups",
	Aliases: []string{"group"},
	Short:   "Manage recipient groups",
}

var (
	groupName    string
	groupMembers []string
	groupChilds  []string
	groupTags    []string

	groupList     listFlags
	groupListTags []string

	groupUpdateName   string
	groupAdd          []string
	groupRemove       []string
	groupAddChilds    []string
	groupRemoveChilds []string
	groupAddFrom      string
	groupRemoveFrom   string
)

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		group, err := client.CreateGroup(commandContext(cmd), xms.GroupCreate{
			Name:        groupName,
			Members:     groupMembers,
			ChildGroups: groupChilds,
			Tags:        groupTags,
		})
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		logger.Info().Str("group_id", group.ID).Int("size", group.Size).Msg("Group created")
		return printGroup(group)
	},
}

var groupGetCmd = &cobra.Command{
	Use:   "get <group-id>",
	Short: "Show a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		group, err := client.GetGroup(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		return printGroup(group)
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := groupList.filter()
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		pages := client.ListGroups(xms.GroupFilter{PageSize: groupList.pageSize, Tags: groupListTags})
		groups, err := collect(pages.All(commandContext(cmd)), f, filter.GroupRecord, groupList.limit)
		if err != nil {
			return fmt.Errorf("failed to list groups: %w", err)
		}
		if groups == nil {
			groups = []xms.Group{}
		}

		return output(groups, func(tw *tabwriter.Writer) {
			if len(groups) == 0 {
				fmt.Fprintln(tw, "No groups found.")
				return
			}
			fmt.Fprintln(tw, "ID\tNAME\tSIZE\tCHILD GROUPS\tCREATED")
			for _, g := range groups {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", g.ID, orDash(g.Name), g.Size, len(g.ChildGroups), formatTime(g.CreatedAt))
			}
		})
	},
}

var groupUpdateCmd = &cobra.Command{
	Use:   "update <group-id>",
	Short: "Rename a group or change its members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		update := xms.GroupUpdate{
			Add:               groupAdd,
			Remove:            groupRemove,
			ChildGroupsAdd:    groupAddChilds,
			ChildGroupsRemove: groupRemoveChilds,
			AddFromGroup:      groupAddFrom,
			RemoveFromGroup:   groupRemoveFrom,
		}
		if cmd.Flags().Changed("name") {
			update.Name = &groupUpdateName
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		group, err := client.UpdateGroup(commandContext(cmd), args[0], update)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
		return printGroup(group)
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(os.Stdin, fmt.Sprintf("Delete group %s?", args[0])) {
			logger.Info().Str("group_id", args[0]).Msg("Deletion cancelled")
			return nil
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.DeleteGroup(commandContext(cmd), args[0]); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		logger.Info().Str("group_id", args[0]).Msg("Group deleted")
		return nil
	},
}

var groupMembersCmd = &cobra.Command{
	Use:   "members <group-id>",
	Short: "List the members of a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		members, err := client.GetGroupMembers(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		return output(members, func(tw *tabwriter.Writer) {
			for _, m := range members {
				fmt.Fprintln(tw, m)
			}
		})
	},
}

func printGroup(g *xms.Group) error {
	return output(g, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "ID:\t%s\n", g.ID)
		fmt.Fprintf(tw, "Name:\t%s\n", orDash(g.Name))
		fmt.Fprintf(tw, "Size:\t%d\n", g.Size)
		fmt.Fprintf(tw, "Child groups:\t%s\n", orDash(strings.Join(g.ChildGroups, ", ")))
		if g.AutoUpdate != nil {
			fmt.Fprintf(tw, "Auto update:\tvia %s\n", g.AutoUpdate.To)
		}
		fmt.Fprintf(tw, "Created:\t%s\n", formatTime(g.CreatedAt))
		fmt.Fprintf(tw, "Modified:\t%s\n", formatTime(g.ModifiedAt))
	})
}

func init() {
	groupCreateCmd.Flags().StringVar(&groupName, "name", "", "group name")
	groupCreateCmd.Flags().StringSliceVarP(&groupMembers, "member", "m", nil, "member number (repeatable)")
	groupCreateCmd.Flags().StringSliceVar(&groupChilds, "child-group", nil, "child group id (repeatable)")
	groupCreateCmd.Flags().StringSliceVar(&groupTags, "tag", nil, "tag (repeatable)")

	groupList.register(groupListCmd)
	groupListCmd.Flags().StringSliceVar(&groupListTags, "tag", nil, "only groups carrying one of these tags")

	groupUpdateCmd.Flags().StringVar(&groupUpdateName, "name", "", "new group name")
	groupUpdateCmd.Flags().StringSliceVar(&groupAdd, "add", nil, "members to add")
	groupUpdateCmd.Flags().StringSliceVar(&groupRemove, "remove", nil, "members to remove")
	groupUpdateCmd.Flags().StringSliceVar(&groupAddChilds, "add-child-group", nil, "child groups to add")
	groupUpdateCmd.Flags().StringSliceVar(&groupRemoveChilds, "remove-child-group", nil, "child groups to remove")
	groupUpdateCmd.Flags().StringVar(&groupAddFrom, "add-from-group", "", "copy all members of this group")
	groupUpdateCmd.Flags().StringVar(&groupRemoveFrom, "remove-from-group", "", "remove all members of this group")

	groupsCmd.AddCommand(groupCreateCmd)
	groupsCmd.AddCommand(groupGetCmd)
	groupsCmd.AddCommand(groupListCmd)
	groupsCmd.AddCommand(groupUpdateCmd)
	groupsCmd.AddCommand(groupDeleteCmd)
	groupsCmd.AddCommand(groupMembersCmd)
	groupsCmd.AddCommand(newTagsCmd("group", tagOps{
		get:     (*xms.Client).GetGroupTags,
		replace: (*xms.Client).ReplaceGroupTags,
		update:  (*xms.Client).UpdateGroupTags,
	}))
}
