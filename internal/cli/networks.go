package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/selfxyz/self-mcp/internal/networks"
)

func init() {
	rootCmd.AddCommand(networksCmd)
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Show supported networks and contract addresses",
	Long:  "Show the built-in Celo networks with any configured RPC overrides applied.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := networkTable(GetConfig())
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, table.All())
		}

		for i, n := range table.All() {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			if err := printNetwork(n); err != nil {
				return err
			}
		}
		return nil
	},
}

func printNetwork(n networks.Network) error {
	fmt.Fprintln(os.Stdout, heading(fmt.Sprintf("%s (%s, alias %s)", n.Name, n.Key, n.Alias)))
	if err := writeTable(os.Stdout, nil, [][]string{
		{"RPC", n.RPCURL},
		{"Chain ID", strconv.FormatInt(n.ChainID, 10)},
		{"Explorer", n.Explorer},
		{"Currency", n.Currency},
	}); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout)
	rows := make([][]string, 0, len(n.Contracts))
	for _, c := range networks.SortedContracts(n) {
		rows = append(rows, []string{c.Name, c.Address.Hex()})
	}
	return writeTable(os.Stdout, []string{"CONTRACT", "ADDRESS"}, rows)
}
