package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfold/backlight/internal/logger"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Must(debug)
		defer log.Sync()

		cfg, err := loadConfig(log)
		if err != nil {
			return err
		}

		reg := buildStrategyRegistry(cfg)
		for _, name := range reg.Names() {
			s, err := reg.Build(name)
			if err != nil {
				fmt.Printf("%-16s (unavailable: %v)\n", name, err)
				continue
			}
			fmt.Printf("%-16s %s\n", name, s.Description())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
