package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	mcp "github.com/metoro-io/mcp-golang"
)

// ErrFailedUnmarshalInput is returned when a tool cannot parse its input.
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// McpServerRegistrator registers tool handlers with an MCP server.
// It is satisfied by *mcp.Server from metoro-io/mcp-golang.
type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a single callable Google Cloud operation.
type ITool interface {
	// Name returns the name of the tool, as advertised to MCP clients.
	Name() string
	// Description returns the description of the tool.
	Description() string
	// Parameters returns the parameters definition of the tool.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result.
	// If the tool fails to parse the input, it returns ErrFailedUnmarshalInput.
	Call(context.Context, string) (string, error)
}

// Tool is a typed tool with a structured request and response.
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool is a tool that can register itself with an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

// MCPTool is a typed tool exposed over MCP.
type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions returns a JSON summary of the given tools.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return string(jsonutil.ToJSONIndent(d))
}
