// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepad/launchpool/api"
	"github.com/stakepad/launchpool/engine/configs"
	"github.com/stakepad/launchpool/log"
	"github.com/stakepad/launchpool/metrics"
	"github.com/stakepad/launchpool/node"
)

const (
	appName          = "Launchpool"
	clockCheckPeriod = time.Hour
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "launchpoold")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = appName
	app.Usage = "Staking launchpool node"
	app.Copyright = "2025 The VeChainThor developers"
	app.Flags = []cli.Flag{
		networkFlag,
		dataDirFlag,
		persistFlag,
		cacheFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		apiBacktraceLimitFlag,
		apiLogsLimitFlag,
		enableAPILogsFlag,
		verbosityFlag,
		jsonLogsFlag,
		pprofFlag,
		skipLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		ntpCheckFlag,
	}
	app.Action = defaultAction
	app.Commands = []cli.Command{
		{
			Name:  "dump",
			Usage: "Print the manager, configs and pools of a persisted instance",
			Flags: []cli.Flag{
				networkFlag,
				dataDirFlag,
				cacheFlag,
				verbosityFlag,
				outputFlag,
			},
			Action: dumpAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitCtx := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	n, instanceDir, closeDBs, err := openNode(ctx, gene, ctx.Bool(persistFlag.Name))
	if err != nil {
		return err
	}
	defer closeDBs()

	apiLogs := new(atomic.Bool)
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeAPI := api.New(n, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		BacktraceLimit:  ctx.Uint64(apiBacktraceLimitFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		SkipLogs:        ctx.Bool(skipLogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: apiLogs,
	})
	defer func() { logger.Info("closing API..."); closeAPI() }()

	apiURL, stopAPI, err := startAPIServer(ctx, handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	var metricsURL, adminURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		metricsURL = url
	}
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, n)
		if err != nil {
			return errors.WithMessage(err, "start admin server")
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	printStartupMessage(os.Stdout, gene, n, instanceDir, apiURL, metricsURL, adminURL)

	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error {
		return n.Run(groupCtx)
	})
	if ctx.Bool(ntpCheckFlag.Name) {
		group.Go(func() error {
			ticker := time.NewTicker(clockCheckPeriod)
			defer ticker.Stop()
			for {
				checkClockOffset(ntp.Query)
				select {
				case <-groupCtx.Done():
					return nil
				case <-ticker.C:
				}
			}
		})
	}
	return group.Wait()
}

func dumpAction(ctx *cli.Context) error {
	initLogger(ctx)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	n, _, closeDBs, err := openNode(ctx, gene, true)
	if err != nil {
		return err
	}
	defer closeDBs()

	out := io.Writer(os.Stdout)
	if path := ctx.String(outputFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create dump file")
		}
		defer f.Close()
		out = f
	}
	return writeDump(n, out, out != io.Writer(os.Stdout))
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func writeDump(n *node.Node, out io.Writer, progress bool) error {
	var manager *configs.Manager
	if err := n.Read(func(v *node.View) (err error) {
		manager, err = v.Engine.Manager()
		return
	}); err != nil {
		return err
	}
	cfgs, err := n.Configs()
	if err != nil {
		return err
	}
	pools, err := n.Pools(nil)
	if err != nil {
		return err
	}

	dumpConfig.Fdump(out, manager)
	for _, cfg := range cfgs {
		dumpConfig.Fdump(out, cfg)
	}

	var bar *pb.ProgressBar
	if progress {
		bar = pb.New(len(pools)).SetMaxWidth(90)
		bar.Output = os.Stderr
		bar.Start()
		defer bar.Finish()
	}
	for _, p := range pools {
		dumpConfig.Fdump(out, p)
		if bar != nil {
			bar.Increment()
		}
	}
	logger.Info("dump written", "configs", len(cfgs), "pools", len(pools))
	return nil
}
