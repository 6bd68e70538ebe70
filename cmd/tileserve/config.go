package main

import (
	"fmt"
	"strings"

	"github.com/bastiangx/tileserve/internal/utils"
	"github.com/bastiangx/tileserve/pkg/config"
	"github.com/bastiangx/tileserve/pkg/dictionary"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("reset", false, "overwrite the config file with the defaults")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "show the active config file and its environment overrides",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	path := a.cfgPath
	if path == "" {
		path = config.DefaultPath(a.paths)
	}
	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := config.Rebuild(path); err != nil {
			return err
		}
		fmt.Printf("Rewrote %s with defaults\n", path)
		return nil
	}

	if a.cfgPath == "" {
		fmt.Println("Config file: (builtin defaults)")
	} else {
		fmt.Printf("Config file: %s\n", utils.AbsolutePath(a.cfgPath))
	}
	fmt.Printf("Data dir:    %s\n", a.cfg.Dict.Dir)
	fmt.Printf("Snapshot:    %s\n", a.cfg.Dict.Snapshot)
	fmt.Printf("Fallback DB: %s\n\n", a.cfg.Dict.FallbackDB)

	fmt.Println("Supported dictionary files:")
	for _, f := range dictionary.ListSupportedFormats() {
		fmt.Printf("  %-24s %s\n", f.Description, strings.Join(f.Extensions, " "))
	}
	fmt.Println()
	fmt.Println(config.EnvUsage())
	return nil
}
