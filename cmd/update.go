package cmd

import (
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const releaseRepository = "s0up4200/xmsctl"

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update xmsctl to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInit,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, ok := currentVersion()
		if !ok {
			return fmt.Errorf("cannot update a development build (%s)", appVersion)
		}

		ctx := commandContext(cmd)
		latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if !found {
			return fmt.Errorf("no release found for %s", releaseRepository)
		}

		if latest.LessOrEqual(current.String()) {
			logger.Info().Str("version", current.String()).Msg("Already up to date")
			return nil
		}

		logger.Info().
			Str("current", current.String()).
			Str("latest", latest.Version()).
			Str("url", latest.URL).
			Msg("New version available")

		if updateCheckOnly {
			return nil
		}

		exe, err := selfupdate.ExecutablePath()
		if err != nil {
			return fmt.Errorf("failed to locate executable: %w", err)
		}
		if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
			return fmt.Errorf("failed to update binary: %w", err)
		}

		logger.Info().Str("version", latest.Version()).Msg("Updated successfully")
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only check whether a newer release exists")
	rootCmd.AddCommand(updateCmd)
}
