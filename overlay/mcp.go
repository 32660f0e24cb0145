package overlay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the keeper's debug operations as MCP tools. All
// four are zero-argument.
func (k *Keeper) RegisterMCP(srv *mcp.Server) {
	k.registerTool(srv, "introveil_show",
		"Force-show the intro overlay, clearing the session dismissal flag.",
		func() any { k.Show(); return k.State() })
	k.registerTool(srv, "introveil_hide",
		"Dismiss the intro overlay without recording a dismissal.",
		func() any { k.Hide(); return k.State() })
	k.registerTool(srv, "introveil_reset",
		"Clear the session dismissal flag and present the overlay as on a fresh session.",
		func() any { k.Reset(); return k.State() })
	k.registerTool(srv, "introveil_state",
		"Report overlay state, return-control presence and hidden-control count.",
		func() any { return k.State() })
}

func (k *Keeper) registerTool(srv *mcp.Server, name, desc string, run func() any) {
	tool := &mcp.Tool{
		Name:        name,
		Description: desc,
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(run())
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}
