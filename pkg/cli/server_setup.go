package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/getmockd/recstore/pkg/apidoc"
	"github.com/getmockd/recstore/pkg/cliconfig"
	"github.com/getmockd/recstore/pkg/inventory"
	"github.com/getmockd/recstore/pkg/logging"
	"github.com/getmockd/recstore/pkg/memo"
	"github.com/getmockd/recstore/pkg/server"
	"github.com/getmockd/recstore/pkg/stateful"
)

// surfaceRuntime is one configured API surface and the port it binds.
type surfaceRuntime struct {
	name   string
	port   int
	server *server.Server
}

// buildSurfaces creates a server for every enabled surface and seeds its
// stores. A seed record that fails validation aborts start-up.
func buildSurfaces(cfg *cliconfig.Config, log *slog.Logger) ([]*surfaceRuntime, error) {
	var out []*surfaceRuntime

	if cfg.Memo.Enabled {
		srv, err := newMemoServer(cfg, log)
		if err != nil {
			return nil, err
		}
		out = append(out, &surfaceRuntime{name: apidoc.Memo, port: cfg.Memo.Port, server: srv})
	}
	if cfg.Inventory.Enabled {
		srv, err := newInventoryServer(cfg, log)
		if err != nil {
			return nil, err
		}
		out = append(out, &surfaceRuntime{name: apidoc.Inventory, port: cfg.Inventory.Port, server: srv})
	}
	return out, nil
}

func newMemoServer(cfg *cliconfig.Config, log *slog.Logger) (*server.Server, error) {
	log = logging.ForSurface(log, apidoc.Memo)
	obs := stateful.NewMetricsObserver()

	svc := memo.NewService(obs)
	if err := svc.Seed(cfg.Memo.Seed); err != nil {
		return nil, fmt.Errorf("failed to seed memo surface: %w", err)
	}
	if n := len(cfg.Memo.Seed); n > 0 {
		log.Info("seeded records", "resource", "memo", "count", n)
	}

	doc, err := apidoc.Load(apidoc.Memo)
	if err != nil {
		return nil, err
	}
	return server.New(memo.NewHandler(svc, log), serverOptions(cfg, log, obs, doc)...), nil
}

func newInventoryServer(cfg *cliconfig.Config, log *slog.Logger) (*server.Server, error) {
	log = logging.ForSurface(log, apidoc.Inventory)
	obs := stateful.NewMetricsObserver()

	items := inventory.NewItemService(obs)
	if err := items.Seed(cfg.Inventory.SeedItems); err != nil {
		return nil, fmt.Errorf("failed to seed inventory surface: %w", err)
	}
	users := inventory.NewUserService(obs)
	if err := users.Seed(cfg.Inventory.SeedUsers); err != nil {
		return nil, fmt.Errorf("failed to seed inventory surface: %w", err)
	}
	if n := len(cfg.Inventory.SeedItems) + len(cfg.Inventory.SeedUsers); n > 0 {
		log.Info("seeded records", "items", len(cfg.Inventory.SeedItems), "users", len(cfg.Inventory.SeedUsers))
	}

	doc, err := apidoc.Load(apidoc.Inventory)
	if err != nil {
		return nil, err
	}
	return server.New(inventory.NewHandler(items, users, log), serverOptions(cfg, log, obs, doc)...), nil
}

func serverOptions(cfg *cliconfig.Config, log *slog.Logger, obs *stateful.MetricsObserver, doc *apidoc.Doc) []server.Option {
	return []server.Option{
		server.WithLogger(log),
		server.WithMetrics(obs),
		server.WithAPIDoc(doc),
		server.WithMaxBodyBytes(cfg.MaxBodyBytes),
		server.WithTimeouts(
			time.Duration(cfg.ReadTimeout)*time.Second,
			time.Duration(cfg.WriteTimeout)*time.Second,
		),
	}
}

// startSurfaces starts every surface on host. If one fails to bind, the
// ones already started are shut down again.
func startSurfaces(surfaces []*surfaceRuntime, host string) error {
	for i, s := range surfaces {
		addr := net.JoinHostPort(host, strconv.Itoa(s.port))
		if err := s.server.Start(addr); err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = shutdownSurfaces(ctx, surfaces[:i])
			cancel()
			return fmt.Errorf("failed to start %s surface: %w", s.name, err)
		}
	}
	return nil
}

// shutdownSurfaces drains every surface and joins their errors.
func shutdownSurfaces(ctx context.Context, surfaces []*surfaceRuntime) error {
	var errs []error
	for _, s := range surfaces {
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s surface: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
