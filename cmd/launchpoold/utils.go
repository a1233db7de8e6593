// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepad/launchpool/co"
	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/genesis"
	"github.com/stakepad/launchpool/log"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/metrics"
	"github.com/stakepad/launchpool/node"
)

const maxClockOffset = 5 * time.Second

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var (
		lvl     = ctx.Int(verbosityFlag.Name)
		level   = new(slog.LevelVar)
		handler slog.Handler
	)
	level.Set(log.FromLegacyLevel(lvl))

	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stdout, level)
	} else {
		useColor := (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandler(os.Stdout, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	network := ctx.String(networkFlag.Name)
	if network == "" || network == "dev" {
		return genesis.NewDevnet(), nil
	}
	custom, err := genesis.LoadCustomGenesis(network)
	if err != nil {
		return nil, err
	}
	gene, err := genesis.NewCustomNet(custom)
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	return gene, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.stakepad.launchpool")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.stakepad.launchpool")
		default:
			return filepath.Join(home, ".org.stakepad.launchpool")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// stateCacheEntries converts the state half of the cache budget into a record count.
func stateCacheEntries(cacheMB int) int {
	return cacheMB / 2 * 1024
}

func openMainDB(ctx *cli.Context, instanceDir string) (*lvldb.LevelDB, int, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	if instanceDir == "" {
		db, err := lvldb.NewMem()
		return db, cacheMB, err
	}

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
		SyncCommits:            true,
	})
	if err != nil {
		return nil, 0, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, cacheMB, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openEventDB(instanceDir string) (*eventdb.EventDB, error) {
	if instanceDir == "" {
		return eventdb.NewMem()
	}
	dir := filepath.Join(instanceDir, "events.db")
	db, err := eventdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", dir)
	}
	return db, nil
}

// openNode opens the databases and the node on top of them.
// The returned closer releases the databases.
func openNode(ctx *cli.Context, gene *genesis.Genesis, persist bool) (*node.Node, string, func(), error) {
	instanceDir := ""
	if persist {
		dir, err := makeInstanceDir(ctx, gene)
		if err != nil {
			return nil, "", nil, err
		}
		instanceDir = dir
	}

	mainDB, cacheMB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return nil, "", nil, err
	}
	eventDB, err := openEventDB(instanceDir)
	if err != nil {
		mainDB.Close()
		return nil, "", nil, err
	}
	closeDBs := func() {
		logger.Info("closing event database...")
		if err := eventDB.Close(); err != nil {
			logger.Warn("failed to close event database", "err", err)
		}
		logger.Info("closing main database...")
		if err := mainDB.Close(); err != nil {
			logger.Warn("failed to close main database", "err", err)
		}
	}

	n, err := node.New(mainDB, eventDB, gene, stateCacheEntries(cacheMB), node.Options{})
	if err != nil {
		closeDBs()
		return nil, "", nil, errors.WithMessage(err, "open node")
	}
	if instanceDir == "" {
		instanceDir = "Memory"
	}
	return n, instanceDir, closeDBs, nil
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// websocket connections outlive any request timeout
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			h.ServeHTTP(w, r)
			return
		}
		http.TimeoutHandler(h, timeout, "request timeout").ServeHTTP(w, r)
	})
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}

	router := http.NewServeMux()
	router.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: router, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// checkClockOffset warns when the local clock drifts from the ntp pool.
// Accrual runs on the node clock, so drift shifts every pool schedule.
func checkClockOffset(query func(host string) (*ntp.Response, error)) {
	resp, err := query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(w io.Writer, gene *genesis.Genesis, n *node.Node, instanceDir, apiURL, metricsURL, adminURL string) {
	optional := func(url string) string {
		if url == "" {
			return "Disabled"
		}
		return url
	}
	fmt.Fprintf(w, `Starting %v
    Network      [ %v %v ]
    Last seq     [ %v ]
    Node clock   [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		appName+" "+fullVersion(),
		gene.ID(), gene.Name(),
		n.LastSeq(),
		time.Unix(int64(n.Now()), 0).UTC().Format(time.RFC3339),
		instanceDir,
		apiURL,
		optional(metricsURL),
		optional(adminURL),
	)
}
