package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sozercan/echarts-ai/apimodels"
	"github.com/sozercan/echarts-ai/internal/fileparse"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a .json or .csv file and print the records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		data, err := fileparse.Parse(args[0], content)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return printJSON(cmd.OutOrStdout(), apimodels.UploadResponse{Data: data})
	},
}
