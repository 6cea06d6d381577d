package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"whrpipe/pkg/contracts"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return json.NewEncoder(out).Encode(contracts.GetVersionInfo())
			}
			_, err := fmt.Fprintln(out, contracts.GetFullVersionString())
			return err
		},
	}
}
