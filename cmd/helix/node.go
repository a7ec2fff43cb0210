package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"code.helixprotocol.io/helix/access"
	"code.helixprotocol.io/helix/broker"
	"code.helixprotocol.io/helix/config"
	"code.helixprotocol.io/helix/funding"
	"code.helixprotocol.io/helix/htime"
	"code.helixprotocol.io/helix/keeper"
	"code.helixprotocol.io/helix/logging"
	"code.helixprotocol.io/helix/metrics"
	"code.helixprotocol.io/helix/pricing"
	"code.helixprotocol.io/helix/vamm"

	"github.com/jessevdk/go-flags"
)

type NodeCmd struct {
	config.HomeFlag

	config.Config
}

var nodeCmd NodeCmd

func (cmd *NodeCmd) Execute(_ []string) error {
	confWatcher, err := config.NewFromFile(context.Background(),
		logging.NewLoggerFromEnv("dev"), cmd.RootPath())
	if err != nil {
		return err
	}
	cfg := confWatcher.Get()

	log := logging.NewLoggerFromEnv(cfg.Logging.Environment)
	defer log.AtExit()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bro, err := broker.New(ctx, log, cfg.Broker)
	if err != nil {
		log.Error("unable to initialise broker", logging.Error(err))
		return err
	}
	defer bro.Close()

	timeSvc := htime.New(cfg.Time, bro)
	timeSvc.NotifyOnTick(confWatcher.OnTimeUpdate)

	policy := access.NewPolicy(log, cfg.Access, cfg.Access.RootParty)
	// the keeper drives funding updates and curve re-anchoring on its own
	if err := policy.Grant(cfg.Access.RootParty, cfg.Keeper.Party, access.AdminCapability); err != nil {
		log.Error("unable to authorize the keeper party", logging.Error(err))
		return err
	}

	vammEngine := vamm.New(log, cfg.VAMM, policy, bro)
	fundingEngine := funding.New(log, cfg.Funding, policy, bro, timeSvc)
	pricingEngine := pricing.New(log, cfg.Pricing, policy, bro, timeSvc)

	keeperSvc := keeper.New(log, cfg.Keeper, pricingEngine, vammEngine, fundingEngine, timeSvc)

	confWatcher.OnConfigUpdate(
		func(c config.Config) { policy.ReloadConf(c.Access) },
		func(c config.Config) { vammEngine.ReloadConf(c.VAMM) },
		func(c config.Config) { fundingEngine.ReloadConf(c.Funding) },
		func(c config.Config) { pricingEngine.ReloadConf(c.Pricing) },
		func(c config.Config) { keeperSvc.ReloadConf(c.Keeper) },
	)

	metrics.Start(cfg.Metrics)

	go keeperSvc.Start(ctx)

	log.Info("node started", logging.String("home", cmd.RootPath()))
	waitSig(ctx, log)
	cancel()
	keeperSvc.Wait()
	return nil
}

// waitSig blocks until a shutdown signal arrives or the context is
// cancelled.
func waitSig(ctx context.Context, log *logging.Logger) {
	gracefulStop := make(chan os.Signal, 1)
	signal.Notify(gracefulStop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-gracefulStop:
		log.Info("caught signal", logging.String("name", sig.String()))
	case <-ctx.Done():
	}
}

func Node(ctx context.Context, parser *flags.Parser) error {
	nodeCmd = NodeCmd{
		Config: config.NewDefaultConfig(),
	}
	cmd, err := parser.AddCommand("node", "Runs a helix node", "Runs a helix node as defined by the config files", &nodeCmd)
	if err != nil {
		return err
	}

	// Print nested groups under parent's name using `::` as the separator.
	for _, parent := range cmd.Groups() {
		for _, grp := range parent.Groups() {
			grp.ShortDescription = parent.ShortDescription + "::" + grp.ShortDescription
		}
	}
	return nil
}
