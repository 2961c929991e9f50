package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysistools "github.com/rtxi/analysis-tools"
	"github.com/rtxi/analysis-tools/pkg/adapters/memory"
	"github.com/rtxi/analysis-tools/pkg/domain"
)

func newTestServer(t *testing.T) (*Server, *analysistools.Panel) {
	t.Helper()
	tr := memory.NewTraverser().
		AddPaths("/data/rec.h5",
			"g:/Trial1",
			"g:/Trial1/Synchronous Data",
			"d:/Trial1/Synchronous Data/Ch0",
			"d:/Trial1/Synchronous Data/Ch1",
		).
		SetSamples("/data/rec.h5", "/Trial1/Synchronous Data/Ch0", []float64{4, 5, 6, 7})

	panel, err := analysistools.New(analysistools.WithTraverser(tr), analysistools.WithDataDir("/data"))
	require.NoError(t, err)
	s := NewServer(panel, nil)

	initialize := `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	s.MCPServer().HandleMessage(context.Background(), json.RawMessage(initialize))
	return s, panel
}

// rpc sends one JSON-RPC request and returns the decoded "result" member.
func rpc(t *testing.T, s *Server, method string, params any) map[string]any {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var out struct {
		Result map[string]any `json:"result"`
		Error  map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Nil(t, out.Error, string(b))
	return out.Result
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) map[string]any {
	t.Helper()
	return rpc(t, s, "tools/call", map[string]any{"name": name, "arguments": args})
}

func TestToolsList(t *testing.T) {
	s, _ := newTestServer(t)
	res := rpc(t, s, "tools/list", map[string]any{})

	var names []string
	for _, tool := range res["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"open_file", "get_tree", "select_channel", "read_channel", "set_plot"}, names)
}

func TestOpenFileTool(t *testing.T) {
	s, panel := newTestServer(t)

	res := callTool(t, s, "open_file", map[string]any{"path": "rec.h5"})
	assert.NotEqual(t, true, res["isError"])

	structured, ok := res["structuredContent"].(map[string]any)
	require.True(t, ok, "structured result expected: %v", res)
	assert.Equal(t, "/data/rec.h5", structured["file_path"])
	assert.Equal(t, "/Trial1/Synchronous Data/Ch0", structured["selected"])
	assert.Equal(t, true, structured["plot_enabled"])
	assert.True(t, panel.PlotEnabled())

	res = callTool(t, s, "open_file", map[string]any{"path": "missing.h5"})
	assert.Equal(t, true, res["isError"])
	assert.False(t, panel.PlotEnabled())
}

func TestHandlers(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	_, err := s.handleGetTree(ctx, req, nil)
	assert.ErrorIs(t, err, domain.ErrNoFileOpen)

	_, err = s.handleOpenFile(ctx, req, map[string]any{})
	assert.EqualError(t, err, "path is required")

	tree, err := s.handleOpenFile(ctx, req, map[string]any{"path": "/data/rec.h5"})
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Tree.ChannelCount())

	ch, err := s.handleReadChannel(ctx, req, map[string]any{"limit": "2"})
	require.NoError(t, err)
	assert.Equal(t, "/Trial1/Synchronous Data/Ch0", ch.Path)
	assert.Equal(t, 4, ch.Count)
	assert.Equal(t, []float64{4, 5}, ch.Samples)

	_, err = s.handleSelectChannel(ctx, req, map[string]any{"channel": "/nope"})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)

	sel, err := s.handleSelectChannel(ctx, req, map[string]any{"channel": "/Trial1/Synchronous Data/Ch1"})
	require.NoError(t, err)
	assert.Equal(t, "/Trial1/Synchronous Data/Ch1", sel.Selected)

	_, err = s.handleReadChannel(ctx, req, map[string]any{})
	assert.ErrorIs(t, err, domain.ErrChannelNotFound, "memory traverser has no samples for Ch1")
}

func TestSetPlotTool(t *testing.T) {
	s, panel := newTestServer(t)

	res := callTool(t, s, "set_plot", map[string]any{"kind": "scatter", "enabled": false})
	assert.NotEqual(t, true, res["isError"])
	assert.False(t, panel.PlotOptions().Scatter)

	res = callTool(t, s, "set_plot", map[string]any{"kind": "polar", "enabled": true})
	assert.Equal(t, true, res["isError"])
}

func TestTreeResource(t *testing.T) {
	s, panel := newTestServer(t)
	_, err := panel.OpenFile(context.Background(), "rec.h5")
	require.NoError(t, err)

	contents, err := s.readTreeResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, TreeURI, text.URI)

	var resp TreeResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	assert.Equal(t, "/data/rec.h5", resp.FilePath)
	assert.Len(t, resp.Tree.Trials, 1)
}

func TestDecodeArgs(t *testing.T) {
	var args readArgs
	require.NoError(t, decodeArgs(map[string]any{"channel": "/a", "limit": 3.0}, &args))
	assert.Equal(t, readArgs{Channel: "/a", Limit: 3}, args)

	var plot plotArgs
	require.NoError(t, decodeArgs(map[string]any{"kind": "ts", "enabled": "true"}, &plot))
	assert.True(t, plot.Enabled)

	assert.Error(t, decodeArgs(map[string]any{"limit": map[string]any{"x": 1}}, &args))
}
