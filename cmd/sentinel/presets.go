package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the screening presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := loadPresets()
		if err != nil {
			return err
		}
		for _, name := range presets.Names() {
			fmt.Printf("%-20s %s\n", name, presets[name].Description)
		}
		return nil
	},
}
