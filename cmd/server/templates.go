package main

import (
	"github.com/spf13/cobra"

	"github.com/sozercan/echarts-ai/apimodels"
	"github.com/sozercan/echarts-ai/internal/catalog"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Print the built-in chart templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), apimodels.TemplatesResponse{Templates: catalog.Templates()})
	},
}
