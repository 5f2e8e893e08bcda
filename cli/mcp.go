package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/CodMac/go-treesitter-impl-merger/output"
	"github.com/CodMac/go-treesitter-impl-merger/processor"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the merge operation as an MCP tool over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := root.loadConfig(cmd); err != nil {
				return err
			}
			s := newMCPServer(root, cmd)
			return server.ServeStdio(s)
		},
	}
}

// newMCPServer 创建暴露 merge_impl 工具的 MCP 服务
func newMCPServer(root *rootOptions, cmd *cobra.Command) *server.MCPServer {
	s := server.NewMCPServer(
		"implmerge",
		Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)
	addMergeTool(s, root, cmd)
	return s
}

func addMergeTool(s *server.MCPServer, root *rootOptions, cmd *cobra.Command) {
	mergeTool := mcp.NewTool("merge_impl",
		mcp.WithDescription("Merge a Java implementation class (or every *Impl.java under a directory) into its single interface"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Implementation class file or directory"),
		),
		mcp.WithNumber("line",
			mcp.Description("Caret line (1-based) selecting the class in single-file mode"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Return a diff instead of writing files"),
			mcp.DefaultBool(false),
		),
	)

	s.AddTool(mergeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		path, ok := args["path"].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		sel := processor.Selection{Path: path}
		if line, ok := args["line"].(float64); ok {
			sel.Line = int(line)
		}
		dryRun, _ := args["dry_run"].(bool)

		cfg, logger, err := root.loadConfig(cmd)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error loading config: %v", err)), nil
		}
		st, err := newStore(cfg, path, logger)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error opening store: %v", err)), nil
		}
		fp, err := processor.NewFileProcessor(model.LangJava, cfg, st, logger)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error creating processor: %v", err)), nil
		}
		defer fp.Close()
		fp.DryRun = dryRun

		batch, err := fp.Process(ctx, sel)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error merging: %v", err)), nil
		}

		var buf bytes.Buffer
		if _, err := output.WriteReports(&buf, batch); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error encoding report: %v", err)), nil
		}
		content := fmt.Sprintf("merged: %d, dry-run: %d, skipped: %d, failed: %d\n%s",
			batch.Count(model.StatusMerged),
			batch.Count(model.StatusDryRun),
			batch.Count(model.StatusSkipped),
			batch.Count(model.StatusFailed),
			buf.String())
		return mcp.NewToolResultText(content), nil
	})
}
