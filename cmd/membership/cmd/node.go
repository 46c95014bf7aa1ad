package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/MinterTeam/minter-membership/api"
	"github.com/MinterTeam/minter-membership/config"
	"github.com/MinterTeam/minter-membership/core/events"
	"github.com/MinterTeam/minter-membership/core/host"
	"github.com/MinterTeam/minter-membership/genesis"
	"github.com/MinterTeam/minter-membership/log"
	"github.com/MinterTeam/minter-membership/tree"
	"github.com/MinterTeam/minter-membership/version"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	tmLog "github.com/tendermint/tendermint/libs/log"
	tmOS "github.com/tendermint/tendermint/libs/os"
	db "github.com/tendermint/tm-db"
	"golang.org/x/sync/errgroup"
)

// RunNode is the command that allows the CLI to start a node.
var RunNode = &cobra.Command{
	Use:   "node",
	Short: "Run the Membership node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNode(cmd)
	},
}

func runNode(cmd *cobra.Command) error {
	logger, err := log.NewLogger(cfg)
	if err != nil {
		return err
	}
	log.SetLogger(logger.With("module", "main"))

	if err := tmOS.EnsureDir(cfg.DBDir(), 0777); err != nil {
		return err
	}

	g, err := genesis.Load(cfg.GenesisFile())
	if err != nil {
		return err
	}

	stateDB, err := db.NewDB("state", db.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return err
	}
	defer stateDB.Close()

	eventsDB, err := db.NewDB("events", db.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return err
	}
	defer eventsDB.Close()
	eventsStore := events.NewEventsStore(eventsDB)

	mtree, err := tree.NewMutableTree(0, stateDB, cfg.StateCacheSize)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := host.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return err
	}

	app, err := host.NewApp(mtree,
		host.WithLogger(logger.With("module", "host")),
		host.WithEvents(eventsStore),
		host.WithMetrics(metrics),
		host.WithGenesisTime(g.GenesisTime),
	)
	if err != nil {
		return err
	}

	membership, err := ensureMembership(app, g)
	if err != nil {
		return err
	}
	log.Info("Membership ready", "address", membership, "height", app.Height())

	group, ctx := errgroup.WithContext(cmd.Context())

	service := api.NewService(app, eventsStore, membership, version.Version, logger.With("module", "api"))
	group.Go(func() error {
		return service.Run(ctx, cfg.APIListenAddress)
	})

	if cfg.PrometheusListenAddress != "" {
		group.Go(func() error {
			return serveMetrics(ctx, registry, cfg.PrometheusListenAddress)
		})
	}

	group.Go(func() error {
		return produceBlocks(ctx, app, cfg, logger.With("module", "main"))
	})

	return group.Wait()
}

// ensureMembership bootstraps the genesis membership into an empty state, or finds
// the membership instance created by an earlier run.
func ensureMembership(app *host.App, g *genesis.Genesis) (string, error) {
	codes := genesis.StoreCodes(app)

	instances, err := app.ContractsByCode(codes.Membership)
	if err != nil {
		return "", err
	}
	if len(instances) > 0 {
		return instances[0].Address, nil
	}

	res, err := genesis.Bootstrap(app, codes, g)
	if err != nil {
		return "", errors.Wrap(err, "bootstrap genesis")
	}
	if _, err := app.NextBlock(0); err != nil {
		return "", err
	}

	for _, member := range res.Members {
		log.Info("Initial member admitted", "owner", member.OwnerAddr, "proxy", member.ProxyAddr)
	}
	return res.Membership, nil
}

// produceBlocks saves a block every interval. The block clock follows the wall clock.
func produceBlocks(ctx context.Context, app *host.App, cfg *config.Config, logger tmLog.Logger) error {
	ticker := time.NewTicker(cfg.BlockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(app.Time())
			if dt < 0 {
				dt = 0
			}
			if _, err := app.NextBlock(dt.Truncate(time.Second)); err != nil {
				logger.Error("Failed to save block", "height", app.Height(), "err", err)
				return err
			}
		}
	}
}

func serveMetrics(ctx context.Context, registry *prometheus.Registry, addr string) error {
	srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{})}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
