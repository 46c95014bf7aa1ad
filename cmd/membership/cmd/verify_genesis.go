package cmd

import (
	"fmt"

	"github.com/MinterTeam/minter-membership/genesis"
	"github.com/spf13/cobra"
)

var VerifyGenesis = &cobra.Command{
	Use:   "verify_genesis",
	Short: "Verify genesis file",
	RunE:  verifyGenesis,
}

func verifyGenesis(cmd *cobra.Command, args []string) error {
	if _, err := genesis.Load(cfg.GenesisFile()); err != nil {
		return err
	}

	fmt.Printf("Genesis is ok\n")

	return nil
}
