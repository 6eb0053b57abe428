// Package tools defines the Tool interface for the Google Cloud tools exposed
// by this server, including registration with an MCP server and parameter
// schemas advertised to clients.
package tools
