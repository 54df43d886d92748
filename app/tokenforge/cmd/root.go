// Package cmd implements the tokenforge command tree.
package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/history"
	"github.com/tokenforge/tokenforge/business/core/metadata"
	"github.com/tokenforge/tokenforge/business/core/token"
	"github.com/tokenforge/tokenforge/foundation/events"
	"github.com/tokenforge/tokenforge/foundation/keystore"
	"github.com/tokenforge/tokenforge/foundation/solana"
	"go.uber.org/zap"
)

// ErrHelp is returned when the user asked for configuration help. The
// help text has already been printed when this error is seen.
var ErrHelp = errors.New("help requested")

var (
	build = "develop"
	log   *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:           "tokenforge",
	Short:         "Console for SPL token operations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree with the specified build reference and logger.
func Execute(buildRef string, logger *zap.SugaredLogger) error {
	build = buildRef
	log = logger

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrHelp) {
			return nil
		}
		return err
	}

	return nil
}

// =============================================================================

// appConfig holds the settings the application needs to run. Values are
// sourced from the environment with the TOKENFORGE prefix.
type appConfig struct {
	conf.Version
	Network struct {
		Name       string `conf:"default:devnet"`
		RPCURL     string `conf:""`
		WSURL      string `conf:""`
		Commitment string `conf:"default:finalized"`
	}
	Submit struct {
		MaxRetries      int           `conf:"default:5"`
		RetryBase       time.Duration `conf:"default:500ms"`
		RetryMax        time.Duration `conf:"default:8s"`
		ConfirmTimeout  time.Duration `conf:"default:60s"`
		MinPayerBalance uint64        `conf:"default:10000000"`
	}
	Keys struct {
		Folder string `conf:"default:zforge/keys/"`
		Name   string `conf:"default:payer"`
	}
	History struct {
		Path string `conf:"default:zforge/history.jsonl"`
	}
}

// loadConfig parses the application configuration from the environment.
func loadConfig() (appConfig, error) {
	cfg := appConfig{
		Version: conf.Version{
			Build: build,
			Desc:  "SPL token operations console",
		},
	}

	const prefix = "TOKENFORGE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return cfg, ErrHelp
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Network.RPCURL == "" {
		url, err := solana.Endpoint(cfg.Network.Name)
		if err != nil {
			return cfg, err
		}
		cfg.Network.RPCURL = url
	}

	if cfg.Network.WSURL == "" {
		cfg.Network.WSURL = solana.WebsocketEndpoint(cfg.Network.RPCURL)
	}

	return cfg, nil
}

// =============================================================================

// runtime carries the constructed application state the commands operate
// against.
type runtime struct {
	cfg     appConfig
	traceID string
	client  *solana.Client
	evts    *events.Events
	token   *token.Core
	meta    *metadata.Core
	hist    *history.Log
	payer   types.Account
	done    chan struct{}
}

// newRuntime loads the configuration, the fee payer keypair and constructs
// the client and core APIs the commands use.
func newRuntime() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	payer, err := keystore.Load(keystore.Path(cfg.Keys.Folder, cfg.Keys.Name))
	if err != nil {
		return nil, fmt.Errorf("loading fee payer keypair: %w", err)
	}

	traceID := uuid.NewString()
	evts := events.New()

	// ev is the event handler the lower layers use to report progress. The
	// information is logged and sent to any event subscribers.
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", traceID)
		evts.Sendf(traceID, "progress", s)
	}

	// The console printer subscribes under the trace id and relays the
	// progress lines while an operation runs. Close waits on done so the
	// final output is not interleaved with progress lines.
	ch := evts.Acquire(traceID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range ch {
			fmt.Printf("=> %s\n", event.Message)
		}
	}()

	client, err := solana.New(solana.Config{
		RPCURL:         cfg.Network.RPCURL,
		WSURL:          cfg.Network.WSURL,
		Commitment:     cfg.Network.Commitment,
		MaxRetries:     cfg.Submit.MaxRetries,
		RetryBase:      cfg.Submit.RetryBase,
		RetryMax:       cfg.Submit.RetryMax,
		ConfirmTimeout: cfg.Submit.ConfirmTimeout,
		EvHandler:      ev,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing solana client: %w", err)
	}

	tokenCore := token.NewCore(token.Config{
		Log:             log,
		Client:          client,
		FeePayer:        payer,
		MinPayerBalance: cfg.Submit.MinPayerBalance,
		EvHandler:       ev,
	})

	metaCore := metadata.NewCore(metadata.Config{
		Log:             log,
		Client:          client,
		FeePayer:        payer,
		MinPayerBalance: cfg.Submit.MinPayerBalance,
		EvHandler:       ev,
	})

	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("opening history log: %w", err)
	}

	rt := runtime{
		cfg:     cfg,
		traceID: traceID,
		client:  client,
		evts:    evts,
		token:   tokenCore,
		meta:    metaCore,
		hist:    hist,
		payer:   payer,
		done:    done,
	}

	return &rt, nil
}

// Close releases the resources held by the runtime and waits for the
// console printer to drain.
func (rt *runtime) Close() {
	rt.hist.Close()
	rt.evts.Shutdown()
	<-rt.done
}

// record appends the outcome of a successful operation to the history log.
func (rt *runtime) record(op string, mint string, sig string) {
	rec := history.Record{
		TraceID:   rt.traceID,
		Op:        op,
		Mint:      mint,
		Signature: sig,
	}
	if err := rt.hist.Add(rec); err != nil {
		log.Errorw("recording history", "traceid", rt.traceID, "ERROR", err)
	}
}
