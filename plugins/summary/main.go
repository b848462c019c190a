package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pluginrpc "actograph/internal/modules/plugin/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type activityStat struct {
	ActivityID    string  `json:"activityId"`
	Name          string  `json:"name"`
	ColorTag      string  `json:"colorTag"`
	DurationMS    int64   `json:"durationMs"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
	AvgDurationMS int64   `json:"avgDurationMs"`
}

type reportSummary struct {
	SessionID       string         `json:"sessionId"`
	SessionName     string         `json:"sessionName"`
	TotalDurationMS int64          `json:"totalDurationMs"`
	OpenCount       int            `json:"openCount"`
	Stats           []activityStat `json:"stats"`
}

type reportPayload struct {
	Snapshot json.RawMessage `json:"snapshot"`
	Summary  reportSummary   `json:"summary"`
}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:         "summary",
		Version:      "1.0.0",
		Capabilities: []string{"render", "analyze"},
	}, nil
}

func (s *server) ListCommands(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.ListCommandsResponse, error) {
	return &pluginrpc.ListCommandsResponse{Commands: []pluginrpc.CommandDescriptor{
		{ID: "markdown", Title: "Markdown Report", Description: "Renders a session summary as a markdown table", Kind: "render", TimeoutMS: 2500},
		{ID: "dominant", Title: "Dominant Activity", Description: "Returns the activity with the most recorded time", Kind: "analyze", TimeoutMS: 2000},
	}}, nil
}

func (s *server) Execute(_ context.Context, in *pluginrpc.ExecuteRequest) (*pluginrpc.ExecuteResponse, error) {
	payload := reportPayload{}
	if strings.TrimSpace(in.InputJSON) != "" {
		if err := json.Unmarshal([]byte(in.InputJSON), &payload); err != nil {
			return &pluginrpc.ExecuteResponse{Stderr: fmt.Sprintf("decode payload: %v", err), ExitCode: 1}, nil
		}
	}
	switch in.CommandID {
	case "markdown":
		return &pluginrpc.ExecuteResponse{Stdout: renderMarkdown(payload.Summary), ExitCode: 0}, nil
	case "dominant":
		raw, _ := json.Marshal(dominantActivity(payload.Summary))
		return &pluginrpc.ExecuteResponse{Stdout: "analysis complete", OutputJSON: string(raw), ExitCode: 0}, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", in.CommandID)
	}
}

func renderMarkdown(summary reportSummary) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "# %s\n\n", summary.SessionName)
	fmt.Fprintf(b, "Total recorded: %s\n\n", formatDuration(summary.TotalDurationMS))
	if summary.OpenCount > 0 {
		fmt.Fprintf(b, "Unfinished events: %d\n\n", summary.OpenCount)
	}
	b.WriteString("| Activity | Time | Share | Count |\n")
	b.WriteString("|----------|------|-------|-------|\n")
	for _, stat := range summary.Stats {
		fmt.Fprintf(b, "| %s | %s | %.1f%% | %d |\n", stat.Name, formatDuration(stat.DurationMS), stat.Percentage, stat.Count)
	}
	return b.String()
}

func dominantActivity(summary reportSummary) map[string]any {
	result := map[string]any{
		"session_id": summary.SessionID,
		"activities": len(summary.Stats),
	}
	best := activityStat{}
	for _, stat := range summary.Stats {
		if stat.DurationMS > best.DurationMS {
			best = stat
		}
	}
	if best.ActivityID != "" {
		result["dominant_activity_id"] = best.ActivityID
		result["dominant_activity_name"] = best.Name
		result["dominant_duration_ms"] = best.DurationMS
		result["dominant_percentage"] = best.Percentage
	}
	return result
}

func formatDuration(ms int64) string {
	seconds := ms / 1000
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %02ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
