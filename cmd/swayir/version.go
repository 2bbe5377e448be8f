package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Natalie359738/sway/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show swayir build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			fmt.Fprintf(os.Stdout, "swayir %s\n", version.Version)
			if versionShowHash && version.GitCommit != "" {
				fmt.Fprintf(os.Stdout, "commit %s\n", version.GitCommit)
			}
			if versionShowDate && version.BuildDate != "" {
				fmt.Fprintf(os.Stdout, "built %s\n", version.BuildDate)
			}
			return nil
		case "json":
			payload := versionPayload{
				Tool:    "swayir",
				Version: version.Version,
			}
			if versionShowHash {
				payload.GitCommit = version.GitCommit
			}
			if versionShowDate {
				payload.BuildDate = version.BuildDate
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}
