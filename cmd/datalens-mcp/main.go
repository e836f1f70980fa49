package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/datalens-tools/datalens-mcp/internal/common"
	"github.com/datalens-tools/datalens-mcp/internal/dispatch"
	mcpbridge "github.com/datalens-tools/datalens-mcp/internal/mcp"
	"github.com/datalens-tools/datalens-mcp/internal/rpc"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop / Cursor / Codex)")
	configFile := flag.String("config", "datalens-mcp.toml", "Path to config file")
	flag.Parse()

	cfg, err := common.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Info().
		Str("base_url", cfg.API.BaseURL).
		Str("api_version", cfg.API.APIVersion).
		Str("version", common.GetVersion()).
		Msg("starting datalens-mcp server")

	// Credentials are read per call, so missing values fail lazily. Warn at
	// boot anyway: a misconfigured environment is the most common setup error.
	creds := rpc.CredentialsFromEnv()
	if creds.OrgID == "" {
		logger.Warn().Msg("DATALENS_ORG_ID is not set; tool calls will fail until it is configured")
	}
	if creds.Token == "" {
		logger.Warn().Msg("DATALENS_IAM_TOKEN / YC_IAM_TOKEN is not set; tool calls will fail until it is configured")
	}

	client := rpc.NewClient(cfg.API, logger, nil)
	dispatcher := dispatch.New(client, logger)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithInstructions("Yandex DataLens MCP server. Configure DATALENS_ORG_ID and YC_IAM_TOKEN (or DATALENS_IAM_TOKEN) before calling tools. For broad RPC usage: call datalens_list_methods, then datalens_get_method_schema for the chosen method, then call either a typed tool or datalens_rpc."),
	)

	registered := mcpbridge.RegisterTools(mcpServer, dispatcher, logger)
	logger.Info().Int("tools", registered).Msg("registered MCP tools")

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("port", cfg.Server.Port).Msg("starting MCP streamable HTTP transport")
	if err := httpServer.Start(":" + cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
