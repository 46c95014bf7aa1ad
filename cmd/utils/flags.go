package utils

import (
	"os"
	"path/filepath"
)

var (
	MembershipHome   string
	MembershipConfig string
)

func GetMembershipHome() string {
	if MembershipHome != "" {
		return MembershipHome
	}

	home := os.Getenv("MEMBERSHIPHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".membership"))
}

func GetMembershipConfigPath() string {
	if MembershipConfig != "" {
		return MembershipConfig
	}

	return GetMembershipHome() + "/config/config.toml"
}
