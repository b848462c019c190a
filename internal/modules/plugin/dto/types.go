package dto

type PluginInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type CommandInfo struct {
	ID              string
	Title           string
	Description     string
	Kind            string
	InputSchemaJSON string
	TimeoutMS       int
}

type ExecuteInput struct {
	PluginName    string
	CommandID     string
	InputJSON     string
	SessionID     string
	WorkspacePath string
	Cwd           string
	Env           map[string]string
}

type ExecuteOutput struct {
	PluginName string
	CommandID  string
	Stdout     string
	Stderr     string
	OutputJSON string
	ExitCode   int
}

// RenderReportInput asks a plugin to render a session report. The host
// assembles the session snapshot and its aggregate stats into the plugin's
// input payload.
type RenderReportInput struct {
	PluginName    string
	CommandID     string
	SessionID     string
	WorkspacePath string
	Cwd           string
}
