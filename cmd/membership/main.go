package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MinterTeam/minter-membership/cmd/membership/cmd"
	"github.com/MinterTeam/minter-membership/cmd/utils"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.MembershipHome, "home-dir", "", "base dir (default is $HOME/.membership)")
	rootCmd.PersistentFlags().StringVar(&utils.MembershipConfig, "config", "", "path to config (default is $(home-dir)/config/config.toml)")

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.Bootstrap,
		cmd.VerifyGenesis,
		cmd.Version)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		panic(err)
	}
}
