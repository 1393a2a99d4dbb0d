package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/http2"

	logging "github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/metrics"
	"boscoin.io/agora/lib/network"
	"boscoin.io/agora/lib/node"
	"boscoin.io/agora/lib/node/runner"
	"boscoin.io/agora/lib/storage"

	cmdcommon "boscoin.io/agora/cmd/agora/common"
)

const defaultBindScheme string = "https"
const defaultBindPort int = 12345
const defaultBindHost string = "0.0.0.0"
const defaultLogLevel logging.Lvl = logging.LvlInfo

// ntpSyncInterval is how often the clock offset is measured again while
// the node runs.
const ntpSyncInterval = 30 * time.Minute

var (
	flagKPSecretSeed string = common.GetENVValue("AGORA_SECRET_SEED", "")
	flagNetworkID    string = common.GetENVValue("AGORA_NETWORK_ID", "")
	flagLogLevel     string = common.GetENVValue("AGORA_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput    string = common.GetENVValue("AGORA_LOG_OUTPUT", "")
	flagVerbose      bool   = common.GetENVValue("AGORA_VERBOSE", "0") == "1"
	flagBindURL      string = common.GetENVValue(
		"AGORA_BIND",
		fmt.Sprintf("%s://%s:%d", defaultBindScheme, defaultBindHost, defaultBindPort),
	)
	flagPublishURL          string = common.GetENVValue("AGORA_PUBLISH", "")
	flagStorageConfigString string
	flagTLSCertFile         string = common.GetENVValue("AGORA_TLS_CERT", "agora.crt")
	flagTLSKeyFile          string = common.GetENVValue("AGORA_TLS_KEY", "agora.key")
	flagHTTPCacheAdapter    string = common.GetENVValue("AGORA_HTTP_CACHE_ADAPTER", "")
	flagHTTPCachePoolSize   string = common.GetENVValue("AGORA_HTTP_CACHE_POOL_SIZE", strconv.Itoa(common.HTTPCachePoolSize))
	flagHTTPCacheRedisAddrs string = common.GetENVValue("AGORA_HTTP_CACHE_REDIS_ADDRS", "")
	flagNTPServer           string = common.GetENVValue("AGORA_NTP_SERVER", "")
	flagJSONRPCBindURL      string = common.GetENVValue("AGORA_JSONRPC_BIND", runner.DefaultJSONRPCBindURL)
	flagDebugPProf          bool   = common.GetENVValue("AGORA_DEBUG_PPROF", "0") == "1"
	flagRateLimitAPI        cmdcommon.ListFlags
)

var (
	nodeCmd *cobra.Command

	kp               *keypair.Full
	localNode        *node.LocalNode
	nodeEndpoint     *common.Endpoint
	jsonrpcEndpoint  *common.Endpoint
	storageConfig    *storage.Config
	rateLimitRuleAPI common.RateLimitRule
	nodeConf         common.Config
	logLevel         logging.Lvl
	log              logging.Logger
)

func init() {
	var err error
	var flagGenesis string

	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run agora node",
		Run: func(c *cobra.Command, args []string) {
			// If `--genesis` was provided, perform `agora genesis` before
			// starting the node. This allows one-step startup from scratch,
			// quite useful for testing
			if len(flagGenesis) != 0 {
				csv := strings.Split(flagGenesis, ",")
				if len(csv) < 2 || len(csv) > 3 {
					cmdcommon.PrintFlagsError(nodeCmd, "--genesis",
						errors.New("--genesis expects '<registry manager>,<factory manager>[,voters.yml]'"))
				}

				var votersFile string
				if len(csv) == 3 {
					votersFile = csv[2]
				}

				genesis, flagName, err := MakeGenesis(csv[0], csv[1], flagStorageConfigString, votersFile)
				if len(flagName) != 0 || err != nil {
					cmdcommon.PrintFlagsError(c, flagName, err)
				}
				printGenesis(genesis)
			}

			parseFlagsNode()

			runNode()
			return
		},
	}

	// storage
	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	flagStorageConfigString = common.GetENVValue("AGORA_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	if v := common.GetENVValue("AGORA_RATE_LIMIT_API", ""); len(v) > 0 {
		flagRateLimitAPI.Set(v)
	}

	nodeCmd.Flags().StringVar(&flagGenesis, "genesis", flagGenesis, "performs the 'genesis' command before running node. Syntax: <registry manager>,<factory manager>[,voters.yml]")
	nodeCmd.Flags().StringVar(&flagKPSecretSeed, "secret-seed", flagKPSecretSeed, "secret seed of this node")
	nodeCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	nodeCmd.Flags().StringVar(&flagBindURL, "bind", flagBindURL, "url to listen on")
	nodeCmd.Flags().StringVar(&flagPublishURL, "publish", flagPublishURL, "url for other clients to connect to this node")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	nodeCmd.Flags().Var(&flagRateLimitAPI, "rate-limit-api", "set rate limit for api: [<ip address>=]<limit>-<period>, ex) '10-S' '3.3.3.3=1000-M'")
	nodeCmd.Flags().StringVar(&flagHTTPCacheAdapter, "http-cache-adapter", flagHTTPCacheAdapter, "http cache adapter: {mem, redis}")
	nodeCmd.Flags().StringVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "http cache pool size")
	nodeCmd.Flags().StringVar(&flagHTTPCacheRedisAddrs, "http-cache-redis-addrs", flagHTTPCacheRedisAddrs, "http cache redis addrs: <name>=<addr> [<name>=<addr>...]")
	nodeCmd.Flags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "ntp server to discipline the voting window clock")
	nodeCmd.Flags().StringVar(&flagJSONRPCBindURL, "jsonrpc-bind", flagJSONRPCBindURL, "url to listen on for jsonrpc")
	nodeCmd.Flags().BoolVar(&flagDebugPProf, "debug-pprof", flagDebugPProf, "set debug pprof")

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagRateLimit(l cmdcommon.ListFlags, defaultRate limiter.Rate) (rule common.RateLimitRule, err error) {
	if len(l) < 1 {
		rule = common.NewRateLimitRule(defaultRate)
		return
	}

	var givenRate limiter.Rate

	byIPAddress := map[string]limiter.Rate{}
	for _, s := range l {
		sl := strings.SplitN(s, "=", 2)

		var ip, r string
		if len(sl) < 2 {
			r = s
		} else {
			ip = sl[0]
			r = sl[1]
		}

		var rate limiter.Rate
		if rate, err = limiter.NewRateFromFormatted(strings.ToUpper(r)); err != nil {
			return
		}

		if len(ip) > 0 {
			byIPAddress[ip] = rate
		} else {
			givenRate = rate
		}
	}

	if givenRate.Period < 1 {
		givenRate = defaultRate
	}

	rule = common.NewRateLimitRule(givenRate)
	rule.ByIPAddress = byIPAddress

	return
}

func parseFlagHTTPCacheRedisAddrs(s string) (map[string]string, error) {
	addrs := map[string]string{}
	for _, pair := range strings.Fields(s) {
		sl := strings.SplitN(pair, "=", 2)
		if len(sl) < 2 || len(sl[0]) < 1 || len(sl[1]) < 1 {
			return nil, fmt.Errorf("expected '<name>=<addr>', got '%s'", pair)
		}
		addrs[sl[0]] = sl[1]
	}

	return addrs, nil
}

func parseFlagsNode() {
	var err error

	if len(flagNetworkID) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--network-id", errors.New("--network-id must be given"))
	}
	if len(flagKPSecretSeed) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--secret-seed", errors.New("must be given"))
	}

	var parsedKP keypair.KP
	parsedKP, err = keypair.Parse(flagKPSecretSeed)
	if err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--secret-seed", err)
	} else {
		kp = parsedKP.(*keypair.Full)
	}

	if p, err := common.ParseEndpoint(flagBindURL); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--bind", err)
	} else {
		nodeEndpoint = p
		flagBindURL = nodeEndpoint.String()
	}

	queries := nodeEndpoint.Query()
	if strings.ToLower(nodeEndpoint.Scheme) == "https" {
		if _, err = os.Stat(flagTLSCertFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(nodeCmd, "--tls-cert", err)
		}
		if _, err = os.Stat(flagTLSKeyFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(nodeCmd, "--tls-key", err)
		}

		queries.Add("TLSCertFile", flagTLSCertFile)
		queries.Add("TLSKeyFile", flagTLSKeyFile)
	}
	queries.Add("IdleTimeout", "3s")
	queries.Add("NodeName", node.MakeAlias(kp.Address()))
	nodeEndpoint.RawQuery = queries.Encode()

	var publishEndpoint *common.Endpoint
	if len(flagPublishURL) > 0 {
		if publishEndpoint, err = common.ParseEndpoint(flagPublishURL); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--publish", err)
		}
		flagPublishURL = publishEndpoint.String()
	}

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}

	if jsonrpcEndpoint, err = common.ParseEndpoint(flagJSONRPCBindURL); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--jsonrpc-bind", err)
	} else if err = common.CheckBindString(jsonrpcEndpoint.Host); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--jsonrpc-bind", err)
	}

	if rateLimitRuleAPI, err = parseFlagRateLimit(flagRateLimitAPI, common.RateLimitAPI); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--rate-limit-api", err)
	}

	var httpCachePoolSize int
	if httpCachePoolSize, err = strconv.Atoi(flagHTTPCachePoolSize); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-pool-size", err)
	}

	var httpCacheRedisAddrs map[string]string
	switch flagHTTPCacheAdapter {
	case "":
	case common.HTTPCacheMemoryAdapterName:
	case common.HTTPCacheRedisAdapterName:
		if httpCacheRedisAddrs, err = parseFlagHTTPCacheRedisAddrs(flagHTTPCacheRedisAddrs); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-redis-addrs", err)
		}
		if len(httpCacheRedisAddrs) < 1 {
			cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-redis-addrs", errors.New("must be given"))
		}
	default:
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-adapter", fmt.Errorf("unknown adapter, '%s'", flagHTTPCacheAdapter))
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--log-level", err)
	}

	var logHandler logging.Handler

	var formatter logging.Format
	if isatty.IsTerminal(os.Stdout.Fd()) {
		formatter = logging.TerminalFormat()
	} else {
		formatter = common.JsonFormatEx(false, true)
	}
	logHandler = logging.StreamHandler(os.Stdout, formatter)

	if len(flagLogOutput) < 1 {
		flagLogOutput = "<stdout>"
	} else {
		if logHandler, err = logging.FileHandler(flagLogOutput, common.JsonFormatEx(false, true)); err != nil {
			cmdcommon.PrintFlagsError(nodeCmd, "--log-output", err)
		}
	}

	if logLevel == logging.LvlDebug {
		logHandler = logging.CallerFileHandler(logHandler)
	}

	log = logging.New("module", "main")
	log.SetHandler(logging.LvlFilterHandler(logLevel, logHandler))
	common.SetLogging(logLevel, logHandler)
	network.SetLogging(logLevel, logHandler)
	runner.SetLogging(logLevel, logHandler)

	if localNode, err = node.NewLocalNode(kp, nodeEndpoint, ""); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--secret-seed", err)
	}
	if publishEndpoint != nil {
		localNode.SetPublishEndpoint(publishEndpoint)
	}

	nodeConf = common.NewConfig([]byte(flagNetworkID))
	nodeConf.RateLimitRuleAPI = rateLimitRuleAPI
	nodeConf.HTTPCacheAdapter = flagHTTPCacheAdapter
	nodeConf.HTTPCachePoolSize = httpCachePoolSize
	nodeConf.HTTPCacheRedisAddrs = httpCacheRedisAddrs
	nodeConf.NTPServer = flagNTPServer

	log.Info("Starting Agora")

	// print flags
	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tnetwork-id", flagNetworkID)
	parsedFlags = append(parsedFlags, "\n\tbind", flagBindURL)
	parsedFlags = append(parsedFlags, "\n\tpublish", flagPublishURL)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorageConfigString)
	parsedFlags = append(parsedFlags, "\n\ttls-cert", flagTLSCertFile)
	parsedFlags = append(parsedFlags, "\n\ttls-key", flagTLSKeyFile)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\trate-limit-api", rateLimitRuleAPI.Formatted())
	parsedFlags = append(parsedFlags, "\n\thttp-cache-adapter", flagHTTPCacheAdapter)
	parsedFlags = append(parsedFlags, "\n\tntp-server", flagNTPServer)
	parsedFlags = append(parsedFlags, "\n\tjsonrpc-bind", flagJSONRPCBindURL)

	log.Debug("parsed flags:", parsedFlags...)

	if flagVerbose {
		http2.VerboseLogs = true
	}
}

func runNode() {
	metrics.InitPrometheusMetrics()
	metrics.SetVersion()

	runner.DebugPProf = flagDebugPProf

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)

		os.Exit(1)
	}
	defer st.Close()

	networkConfig, err := network.NewHTTP2NetworkConfigFromEndpoint(localNode.Alias(), nodeEndpoint)
	if err != nil {
		log.Crit("transport error", "error", err)

		os.Exit(1)
	}
	nt := network.NewHTTP2Network(networkConfig)

	// Execution group.
	var g run.Group
	{
		nr, err := runner.NewNodeRunner(localNode, nt, st, nodeConf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		g.Add(func() error {
			if err := nr.Start(); err != nil {
				log.Crit("failed to start node", "error", err)
				return err
			}
			return nil
		}, func(error) {
			nr.Stop()
		})
	}
	{
		js := runner.NewJSONRPCServer(jsonrpcEndpoint, st)
		g.Add(func() error {
			return js.Start()
		}, func(error) {
			js.Stop()
		})
	}
	if len(nodeConf.NTPServer) > 0 {
		cancel := make(chan struct{})
		g.Add(func() error {
			return syncClock(nodeConf.NTPServer, cancel)
		}, func(error) {
			close(cancel)
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// syncClock measures the ntp clock offset once at startup and again on
// every tick until cancel is closed. A failed measurement keeps the last
// offset.
func syncClock(server string, cancel <-chan struct{}) error {
	if err := common.SyncClockOffset(server); err != nil {
		log.Error("ntp sync failed", "server", server, "error", err)
	}

	ticker := time.NewTicker(ntpSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := common.SyncClockOffset(server); err != nil {
				log.Error("ntp sync failed", "server", server, "error", err)
			}
		case <-cancel:
			return nil
		}
	}
}
