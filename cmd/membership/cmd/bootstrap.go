package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/genesis"
	"github.com/spf13/cobra"
)

// Bootstrap runs the genesis bootstrap against an in-memory state and prints the
// admitted members. Nothing is written to the node database.
var Bootstrap = &cobra.Command{
	Use:   "bootstrap",
	Short: "Dry run the genesis bootstrap",
	RunE:  bootstrap,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	g, err := genesis.Load(cfg.GenesisFile())
	if err != nil {
		return err
	}

	app := host.NewMemApp(host.WithGenesisTime(g.GenesisTime))
	res, err := genesis.Bootstrap(app, genesis.StoreCodes(app), g)
	if err != nil {
		return err
	}

	bz, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))

	return nil
}
