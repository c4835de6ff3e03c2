package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wheellock",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("wheellock version 1.0.0")
	},
}
