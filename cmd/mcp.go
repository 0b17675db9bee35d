package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devpulse/devpulse/internal/iocache"
	"github.com/devpulse/devpulse/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [owner/name]",
	Short: "Start the DevPulse MCP server",
	Long: `Launch an MCP server that lets AI agents refresh metrics, forecast
trends, detect anomalies and query insights via standard tools.

The repository argument seeds the default subject; individual tool calls
can override it per request.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		// Keep the deferred-refresh worker draining while the server runs.
		mgr.StartWorker()
		defer mgr.StopWorker()
		return mcp.StartMCPServer(rootCtx, cfg, mgr, iocache.Manager, engine)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
