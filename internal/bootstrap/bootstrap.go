package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	plugininadapter "actograph/internal/modules/plugin/adapter/in"
	pluginoutadapter "actograph/internal/modules/plugin/adapter/out"
	pluginservice "actograph/internal/modules/plugin/service"
	pluginusecase "actograph/internal/modules/plugin/usecase"
	reportinadapter "actograph/internal/modules/report/adapter/in"
	reportservice "actograph/internal/modules/report/service"
	reportusecase "actograph/internal/modules/report/usecase"
	trackerinadapter "actograph/internal/modules/tracker/adapter/in"
	trackeroutadapter "actograph/internal/modules/tracker/adapter/out"
	trackerservice "actograph/internal/modules/tracker/service"
	trackerusecase "actograph/internal/modules/tracker/usecase"
	workspaceinadapter "actograph/internal/modules/workspace/adapter/in"
	workspaceoutadapter "actograph/internal/modules/workspace/adapter/out"
	workspaceout "actograph/internal/modules/workspace/port/out"
	workspaceservice "actograph/internal/modules/workspace/service"
	workspaceusecase "actograph/internal/modules/workspace/usecase"
	"actograph/internal/platform/clock"
	"actograph/internal/platform/config"
	"actograph/internal/platform/id"
	uiapp "actograph/internal/ui/app"
)

type App struct {
	WorkspaceCLI workspaceinadapter.CLIHandler
	TrackerCLI   trackerinadapter.CLIHandler
	ReportCLI    reportinadapter.CLIHandler
	PluginCLI    plugininadapter.CLIHandler

	closeFn func() error
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	var sessions workspaceout.SessionStore
	closeFn := func() error { return nil }
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := workspaceoutadapter.NewSQLiteSessionStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("new session store: %w", err)
		}
		sessions = store
		closeFn = store.Close
	case config.BackendVault:
		sessions = workspaceoutadapter.NewVaultSessionStore(cfg.WorkspacePath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}

	workspaceSvc := workspaceservice.NewWorkspaceService(
		clk,
		ids,
		sessions,
		workspaceoutadapter.NewFileActivityCatalog(cfg.CatalogPath),
		workspaceoutadapter.NewFileStateStore(cfg.StatePath),
		workspaceoutadapter.NewVaultNoteWriter(cfg.WorkspacePath),
	)
	workspaceUC := workspaceusecase.NewInteractor(workspaceSvc)

	trackerUC := trackerusecase.NewInteractor(trackerservice.NewTrackerService(
		clk,
		workspaceUC,
		trackeroutadapter.NewFileStateStore(cfg.TrackingPath),
	))

	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(), workspaceUC)

	pluginUC := pluginusecase.NewInteractor(
		pluginservice.NewPluginService(
			pluginoutadapter.NewFileManifestStore(cfg.WorkspacePath),
			pluginoutadapter.NewGRPCHost(),
		),
		workspaceUC,
		reportUC,
	)

	return &App{
		WorkspaceCLI: workspaceinadapter.NewCLIHandler(workspaceUC),
		TrackerCLI:   trackerinadapter.NewCLIHandler(trackerUC),
		ReportCLI:    reportinadapter.NewCLIHandler(reportUC),
		PluginCLI:    plugininadapter.NewCLIHandler(pluginUC),
		closeFn:      closeFn,
	}, nil
}

func (a *App) Close() error {
	return a.closeFn()
}

func RunTUI(workspacePath string, app *App) error {
	model := uiapp.NewModel(workspacePath, app.WorkspaceCLI, app.TrackerCLI, app.ReportCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
