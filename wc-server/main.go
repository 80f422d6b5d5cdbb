package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/aatrey56/wc2022-eda/internal/config"
	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/logging"
	"github.com/aatrey56/wc2022-eda/internal/store"
	"github.com/aatrey56/wc2022-eda/internal/summary"
)

// ServerConfig is the resolved server setup after config file, env and flags.
type ServerConfig struct {
	Addr        string
	MCPPath     string
	APIKey      string
	AuthHeader  string
	RequireAuth bool
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath, "YAML config file")
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		mcpPath     = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		source      = flag.String("source", config.SourceCSV, "data source: csv|sqlite")
		rawRoot     = flag.String("raw-root", "data/raw", "directory holding group_stats.csv and team_data.csv")
		sqlitePath  = flag.String("sqlite", "data/wc2022.db", "SQLite database for --source=sqlite")
		requireAuth = flag.Bool("require-auth", true, "require API key auth via WC_MCP_API_KEY")
		authHeader  = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
		warm        = flag.Bool("warm", true, "load the dataset before accepting requests")
		verbose     = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Explicit flags win over the config file and env.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = *addr
		case "path":
			cfg.Server.Path = *mcpPath
		case "source":
			cfg.Data.Source = *source
		case "raw-root":
			cfg.Data.RawRoot = *rawRoot
		case "sqlite":
			cfg.Data.SQLitePath = *sqlitePath
		case "require-auth":
			cfg.Server.RequireAuth = *requireAuth
		case "auth-header":
			cfg.Server.APIKeyHeader = *authHeader
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	scfg := ServerConfig{
		Addr:        cfg.Server.Addr,
		MCPPath:     cfg.Server.Path,
		APIKey:      strings.TrimSpace(cfg.Server.APIKey),
		AuthHeader:  cfg.Server.APIKeyHeader,
		RequireAuth: cfg.Server.RequireAuth,
	}
	if scfg.RequireAuth && scfg.APIKey == "" {
		logger.Fatal("WC_MCP_API_KEY is required (set env var or run with --require-auth=false)")
	}

	src, closeSrc, err := store.Open(cfg.Data.Source, cfg.Data.RawRoot, cfg.Data.SQLitePath)
	if err != nil {
		logger.Fatal("open data source", zap.Error(err))
	}
	defer func() { _ = closeSrc() }()

	cache := dataset.NewCache(dataset.NewLoader(src, logger))
	cat := summary.NewCatalogue(cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *warm {
		if _, _, err := cache.Get(ctx); err != nil {
			logger.Fatal("dataset load failed", zap.Error(err))
		}
	}

	server, registry := newMCPServer(cat)
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(scfg, cat, registry, handler, logger)

	httpServer := &http.Server{Addr: scfg.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("MCP HTTP server listening",
		zap.String("addr", scfg.Addr),
		zap.String("path", scfg.MCPPath),
		zap.String("source", cfg.Data.Source),
		zap.Bool("auth", scfg.APIKey != ""))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newMCPServer(cat *summary.Catalogue) (*mcp.Server, []toolInfo) {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "wc2022-eda",
			Version: "0.1.0",
		},
		nil,
	)
	registry := make([]toolInfo, 0, 16)
	registerTools(server, &registry, cat)
	return server, registry
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}
