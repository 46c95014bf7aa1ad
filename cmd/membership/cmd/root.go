package cmd

import (
	"github.com/MinterTeam/minter-membership/cmd/utils"
	"github.com/MinterTeam/minter-membership/config"
	"github.com/MinterTeam/minter-membership/core/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "membership",
	Short: "Membership Node",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		v := viper.New()
		v.SetConfigFile(utils.GetMembershipConfigPath())
		cfg = config.GetConfig()

		if err := v.ReadInConfig(); err != nil {
			panic(err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			panic(err)
		}

		if cfg.BlockInterval <= 0 {
			panic("block_interval field should be greater than 0")
		}

		types.Bech32Prefix = cfg.AddressPrefix
	},
}
