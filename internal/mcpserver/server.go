// Package mcpserver exposes the fridge analysis session as MCP tools so an
// assistant can analyze photos and read the result the way the web UI does.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/fridge-chef/internal/imagedata"
	"github.com/fpang/fridge-chef/internal/recipe"
	"github.com/fpang/fridge-chef/internal/session"
)

// Tool names.
const (
	ToolAnalyze = "analyze_fridge_photo"
	ToolState   = "session_state"
	ToolReset   = "reset_session"
)

// AnalyzeInput is the argument of analyze_fridge_photo.
type AnalyzeInput struct {
	Path string `json:"path" jsonschema:"path to a JPEG, PNG, WebP, or HEIC photo of the fridge contents"`
}

// AnalyzeOutput is returned by a successful analysis.
type AnalyzeOutput struct {
	Summary string                 `json:"summary"`
	Result  *recipe.AnalysisResult `json:"result"`
}

// StateOutput describes the current session.
type StateOutput struct {
	Phase       string                 `json:"phase"`
	HasImage    bool                   `json:"has_image"`
	IsAnalyzing bool                   `json:"is_analyzing"`
	Error       string                 `json:"error,omitempty"`
	Result      *recipe.AnalysisResult `json:"result,omitempty"`
}

type emptyInput struct{}

type tools struct {
	sess *session.Session
}

// New builds an MCP server whose tools drive sess.
func New(sess *session.Session, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "fridge-chef", Version: version}, nil)
	t := &tools{sess: sess}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolAnalyze,
		Description: "Analyze a photo of fridge contents. Returns the detected ingredients, 2-3 recipe suggestions, and a shopping list.",
	}, t.analyze)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolState,
		Description: "Show the current analysis session: phase, latest result, and latest error.",
	}, t.state)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolReset,
		Description: "Clear the staged image, result, and error.",
	}, t.reset)

	return server
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the client
// disconnects.
func Run(ctx context.Context, server *mcp.Server) error {
	log.Info().Msg("MCP server listening on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server stopped: %w", err)
	}
	return nil
}

func (t *tools) analyze(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if in.Path == "" {
		return nil, AnalyzeOutput{}, errors.New("path is required")
	}
	path, err := filepath.Abs(in.Path)
	if err != nil {
		return nil, AnalyzeOutput{}, fmt.Errorf("invalid path: %w", err)
	}

	image, err := imagedata.LoadFile(path)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	log.Info().Str("path", path).Msg("Analyzing fridge photo")
	t.sess.SetImage(image)
	state, ok := t.sess.AnalyzeImage(ctx, image)
	if !ok {
		return nil, AnalyzeOutput{}, errors.New("analysis was superseded or reset before it finished")
	}
	if state.Error != "" {
		return nil, AnalyzeOutput{}, errors.New(state.Error)
	}
	return nil, AnalyzeOutput{Summary: recipe.Summary(state.Result), Result: state.Result}, nil
}

func (t *tools) state(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, StateOutput, error) {
	return nil, stateOutput(t.sess.Snapshot()), nil
}

func (t *tools) reset(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, StateOutput, error) {
	t.sess.Reset()
	return nil, stateOutput(t.sess.Snapshot()), nil
}

func stateOutput(s session.State) StateOutput {
	return StateOutput{
		Phase:       s.Phase().String(),
		HasImage:    s.Image != "",
		IsAnalyzing: s.IsAnalyzing,
		Error:       s.Error,
		Result:      s.Result,
	}
}
