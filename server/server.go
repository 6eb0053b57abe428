// Package server assembles the Google Cloud tool set and registers it
// with an MCP server.
package server

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/config"
	"github.com/effective-security/gcpmcp/tools"
	"github.com/effective-security/gcpmcp/tools/cloudrun"
	"github.com/effective-security/gcpmcp/tools/projects"
	"github.com/effective-security/gcpmcp/tools/secrets"
	"github.com/effective-security/xlog"
	"google.golang.org/api/option"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/gcpmcp", "server")

// Clients holds the provider clients the tools run against.
type Clients struct {
	Secrets  secrets.Client
	Run      cloudrun.Client
	Logs     cloudrun.LogsClient
	Projects projects.Client
}

// NewClients dials the Google Cloud APIs using Application Default
// Credentials.
func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	ua := option.WithUserAgent(cfg.UserAgent())

	sec, err := secrets.NewClient(ctx, ua)
	if err != nil {
		return nil, err
	}
	run, err := cloudrun.NewClient(ctx, ua)
	if err != nil {
		return nil, err
	}
	logs, err := cloudrun.NewLogsClient(ctx, ua)
	if err != nil {
		return nil, err
	}
	prj, err := projects.NewClient(ctx, ua)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Secrets:  sec,
		Run:      run,
		Logs:     logs,
		Projects: prj,
	}, nil
}

// Server holds the assembled tool set.
type Server struct {
	cfg   *config.Config
	tools []tools.IMCPTool
}

// New builds the full tool set from the config and clients.
func New(cfg *config.Config, cl *Clients) (*Server, error) {
	project := cfg.GCP.Project
	region := cfg.GCP.Region

	listSecrets, err := secrets.NewListTool(cl.Secrets)
	if err != nil {
		return nil, err
	}
	addSecret, err := secrets.NewAddTool(cl.Secrets)
	if err != nil {
		return nil, err
	}
	deleteSecret, err := secrets.NewDeleteTool(cl.Secrets)
	if err != nil {
		return nil, err
	}
	getSecret, err := secrets.NewGetValueTool(cl.Secrets)
	if err != nil {
		return nil, err
	}
	listServices, err := cloudrun.NewListTool(cl.Run)
	if err != nil {
		return nil, err
	}
	deleteService, err := cloudrun.NewDeleteTool(cl.Run)
	if err != nil {
		return nil, err
	}
	serviceLogs, err := cloudrun.NewLogsTool(cl.Logs)
	if err != nil {
		return nil, err
	}
	listProjects, err := projects.NewListTool(cl.Projects)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg: cfg,
		tools: []tools.IMCPTool{
			listSecrets.WithDefaultProject(project),
			addSecret.WithDefaultProject(project),
			deleteSecret.WithDefaultProject(project),
			getSecret.WithDefaultProject(project),
			listServices.WithDefaults(project, region),
			deleteService.WithDefaults(project, region),
			serviceLogs.WithDefaults(project, region).WithDefaultLimit(cfg.Logs.DefaultLimit),
			listProjects,
		},
	}, nil
}

// Tools returns the assembled tool set.
func (s *Server) Tools() []tools.IMCPTool {
	return s.tools
}

// Register registers every tool with the given MCP server.
func (s *Server) Register(registrator tools.McpServerRegistrator) error {
	for _, t := range s.tools {
		if err := t.RegisterMCP(registrator); err != nil {
			return errors.WithMessagef(err, "failed to register tool %q", t.Name())
		}
	}
	logger.KV(xlog.INFO, "server", s.cfg.Name(), "tools", len(s.tools))
	return nil
}
