package cmd

import (
	"github.com/huangsam/douremember/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the DoURemember reports MCP server",
	Long:  `Launch an MCP server that lets AI agents read a patient's reports, summary, trend and CSV export.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr, stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
