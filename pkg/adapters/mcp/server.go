// Package mcp exposes a panel as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/rtxi/analysis-tools/pkg/ports"
)

// TreeURI is the resource holding the current tree.
const TreeURI = "analysis://tree"

// TreeResponse is the structured result of the tree tools.
type TreeResponse struct {
	FilePath    string       `json:"file_path" jsonschema_description:"Path of the open file"`
	Tree        *domain.Tree `json:"tree,omitempty" jsonschema_description:"Trials and their channels"`
	Selected    string       `json:"selected,omitempty" jsonschema_description:"Currently selected channel path"`
	PlotEnabled bool         `json:"plot_enabled" jsonschema_description:"Whether plotting is available"`
}

// ChannelResponse is the structured result of read_channel.
type ChannelResponse struct {
	Path    string    `json:"path" jsonschema_description:"Channel path"`
	Count   int       `json:"count" jsonschema_description:"Number of samples in the channel"`
	Samples []float64 `json:"samples" jsonschema_description:"Samples, truncated to limit when set"`
}

type openArgs struct {
	Path string `mapstructure:"path"`
}

type selectArgs struct {
	Channel string `mapstructure:"channel"`
}

type readArgs struct {
	Channel string `mapstructure:"channel"`
	Limit   int    `mapstructure:"limit"`
}

type plotArgs struct {
	Kind    string `mapstructure:"kind"`
	Enabled bool   `mapstructure:"enabled"`
}

// Server wraps a panel and exposes it as an MCP server.
type Server struct {
	panel     ports.Panel
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server for panel. A nil logger means slog.Default().
func NewServer(panel ports.Panel, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		panel:     panel,
		logger:    logger,
		mcpServer: server.NewMCPServer("analysis-tools-mcp", strings.TrimSpace(analysistools.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("open_file",
		mcp.WithDescription("Open an HDF5 recording and classify its trials and channels."),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path, absolute or relative to the data directory")),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleOpenFile))

	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the classified tree of the open file."),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetTree))

	s.mcpServer.AddTool(mcp.NewTool("select_channel",
		mcp.WithDescription("Select a channel of the open file."),
		mcp.WithString("channel", mcp.Required(), mcp.Description("Channel path as listed in the tree")),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectChannel))

	s.mcpServer.AddTool(mcp.NewTool("read_channel",
		mcp.WithDescription("Read the samples of a channel. Defaults to the selected channel."),
		mcp.WithString("channel", mcp.Description("Channel path (optional)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of samples to return (optional)")),
		mcp.WithOutputSchema[ChannelResponse](),
	), mcp.NewStructuredToolHandler(s.handleReadChannel))

	s.mcpServer.AddTool(mcp.NewTool("set_plot",
		mcp.WithDescription("Enable or disable a plot kind (ts, scatter, fft)."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Plot kind"), mcp.Enum("ts", "scatter", "fft")),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("New toggle state")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args plotArgs
		if err := decodeArgs(request.GetArguments(), &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kind, err := domain.ParsePlotKind(args.Kind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.panel.SetPlot(ctx, kind, args.Enabled); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		b, _ := json.Marshal(s.panel.Snapshot().Plots)
		return mcp.NewToolResultText(string(b)), nil
	})
}

func (s *Server) handleOpenFile(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (TreeResponse, error) {
	var args openArgs
	if err := decodeArgs(raw, &args); err != nil {
		return TreeResponse{}, err
	}
	if args.Path == "" {
		return TreeResponse{}, errors.New("path is required")
	}
	if _, err := s.panel.OpenFile(ctx, args.Path); err != nil {
		s.logger.Warn("MCP open_file failed", "path", args.Path, "err", err)
		return TreeResponse{}, fmt.Errorf("open failed: %w", err)
	}
	return s.treeResponse(), nil
}

func (s *Server) handleGetTree(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (TreeResponse, error) {
	resp := s.treeResponse()
	if resp.Tree == nil {
		return TreeResponse{}, domain.ErrNoFileOpen
	}
	return resp, nil
}

func (s *Server) handleSelectChannel(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (TreeResponse, error) {
	var args selectArgs
	if err := decodeArgs(raw, &args); err != nil {
		return TreeResponse{}, err
	}
	if err := s.panel.Select(ctx, args.Channel); err != nil {
		return TreeResponse{}, err
	}
	return s.treeResponse(), nil
}

func (s *Server) handleReadChannel(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (ChannelResponse, error) {
	var args readArgs
	if err := decodeArgs(raw, &args); err != nil {
		return ChannelResponse{}, err
	}
	if args.Channel == "" {
		args.Channel = s.panel.Snapshot().SelectedChannel
	}
	if args.Channel == "" {
		return ChannelResponse{}, domain.ErrNoFileOpen
	}

	samples, err := s.panel.ReadChannel(ctx, args.Channel)
	if err != nil {
		return ChannelResponse{}, err
	}
	resp := ChannelResponse{Path: args.Channel, Count: len(samples), Samples: samples}
	if args.Limit > 0 && args.Limit < len(samples) {
		resp.Samples = samples[:args.Limit]
	}
	return resp, nil
}

func (s *Server) treeResponse() TreeResponse {
	snap := s.panel.Snapshot()
	return TreeResponse{
		FilePath:    snap.FilePath,
		Tree:        snap.Tree,
		Selected:    snap.SelectedChannel,
		PlotEnabled: snap.PlotEnabled,
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TreeURI, "Classified tree of the open file",
		mcp.WithMIMEType("application/json"),
	), s.readTreeResource)
}

func (s *Server) readTreeResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(s.treeResponse())
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TreeURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

// decodeArgs converts loosely typed tool arguments into out.
func decodeArgs(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
