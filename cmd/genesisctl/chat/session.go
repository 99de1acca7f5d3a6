// Wiring and startup for the interactive console.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"genesisctl/cmd/genesisctl/ui"
	"genesisctl/internal/api"
	"genesisctl/internal/config"
	"genesisctl/internal/docload"
	"genesisctl/internal/logging"
	"genesisctl/internal/orchestrator"
	"genesisctl/internal/plugin"
	"genesisctl/internal/plugins/calculator"
	"genesisctl/internal/plugins/drivepicker"
	"genesisctl/internal/plugins/imageviewer"
	"genesisctl/internal/plugins/notes"
	"genesisctl/internal/store"
)

// Session owns everything the console needs at runtime and tears it down in
// reverse order on Close.
type Session struct {
	Model  Model
	cancel context.CancelFunc
	ctrl   *orchestrator.Controller
	loader *docload.Loader
	store  store.Store
}

// NewSession wires the console against the configured orchestrator.
func NewSession(workspace string, cfg *config.Config) (*Session, error) {
	if err := logging.Initialize(workspace, cfg.Debug); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	bootLog := logging.Get(logging.CategoryBoot)
	bootLog.Info("starting console",
		zap.String("api_url", cfg.APIURL),
		zap.String("model", cfg.Model))

	client := api.New(cfg.APIURL, cfg.RequestTimeout.Std(), logging.Get(logging.CategoryAPI))

	// Widget store: a read-only workspace degrades to the in-memory no-op
	// variant instead of failing startup.
	var st store.Store
	if local, err := store.Open(workspace); err != nil {
		bootLog.Warn("widget store unavailable", zap.Error(err))
		st = store.NullStore{}
	} else {
		st = local
	}

	// Last-used model/provider win over the config defaults.
	model, provider := cfg.Model, cfg.Provider
	if v, err := st.Get(keyLastModel); err == nil && v != "" {
		model = v
	}
	if v, err := st.Get(keyLastProvider); err == nil && v != "" {
		provider = v
	}

	ctrl := orchestrator.New(client, orchestrator.Options{
		PollInterval: cfg.PollInterval.Std(),
		Model:        model,
		Provider:     provider,
		RAGMode:      cfg.RAGMode,
	}, logging.Get(logging.CategorySync))

	explorer := orchestrator.NewExplorer(client, logging.Get(logging.CategorySession))

	reg := plugin.NewRegistry(logging.Get(logging.CategoryPlugin))
	w := widgets{
		calc:  calculator.New(logging.Get(logging.CategoryPlugin)),
		notes: notes.New(st, logging.Get(logging.CategoryPlugin)),
		image: imageviewer.New(logging.Get(logging.CategoryPlugin)),
		drive: drivepicker.New(nil, logging.Get(logging.CategoryPlugin)),
	}
	reg.Register(w.calc)
	reg.Register(w.notes)
	reg.Register(w.image)
	reg.Register(w.drive)
	host := plugin.NewHost(reg, logging.Get(logging.CategoryPlugin))

	docDir := filepath.Join(workspace, ".genesis", "documents")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}
	loader := docload.NewLoader(docDir, cfg.RequestTimeout.Std(), logging.Get(logging.CategoryDoc))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		bootLog.Warn("markdown renderer unavailable", zap.Error(err))
	}

	ta := textarea.New()
	ta.Placeholder = "Ask the swarm anything..."
	ta.Focus()
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	ctx, cancel := context.WithCancel(context.Background())
	ctrl.Start(ctx)

	// The watcher blocks until ctx is cancelled, so it runs on its own
	// goroutine; startup must not wait on it.
	cfgCh := make(chan config.Config, 1)
	go func() {
		err := config.Watch(ctx, workspace, logging.Get(logging.CategoryBoot), func(next *config.Config) {
			select {
			case cfgCh <- *next:
			default:
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			bootLog.Warn("config watch unavailable", zap.Error(err))
		}
	}()

	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	sp.Style = styles.Spinner

	m := Model{
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		styles:   styles,
		renderer: renderer,
		ctrl:     ctrl,
		explorer: explorer,
		loader:   loader,
		host:     host,
		widgets:  w,
		store:    st,
		cfg:      *cfg,
		cfgCh:    cfgCh,
		log:      bootLog,
		snap:     ctrl.Snapshot(),
	}
	return &Session{
		Model:  m,
		cancel: cancel,
		ctrl:   ctrl,
		loader: loader,
		store:  st,
	}, nil
}

// Close stops background work and releases resources.
func (s *Session) Close() {
	s.cancel()
	s.ctrl.Stop()
	s.loader.Close()
	if err := s.store.Close(); err != nil {
		logging.Get(logging.CategoryStore).Warn("close store", zap.Error(err))
	}
	logging.Sync()
}
