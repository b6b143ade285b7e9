package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/api"
	"github.com/frontdesk/frontdesk/pkg/audit"
	"github.com/frontdesk/frontdesk/pkg/cli"
	"github.com/frontdesk/frontdesk/pkg/config"
	"github.com/frontdesk/frontdesk/pkg/helpdesk"
	"github.com/frontdesk/frontdesk/pkg/knowledge"
	"github.com/frontdesk/frontdesk/pkg/mail"
	"github.com/frontdesk/frontdesk/pkg/metrics"
	"github.com/frontdesk/frontdesk/pkg/notify"
	"github.com/frontdesk/frontdesk/pkg/store"
	"github.com/frontdesk/frontdesk/pkg/system"
)

func main() {
	flags := cli.Parse()

	zl, err := system.NewLogger(flags.Debug)
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	log.With("version", system.Version).Info("Starting frontdesk")
	flags.Print(log)

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	applyFlagOverrides(&cfg, flags)

	if flags.Debug {
		log.Infof("%#v", cfg)
	}

	db, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Seed {
		if err := db.Seed(ctx); err != nil {
			log.Fatalf("Error seeding database: %v", err)
		}
	}

	// Mail delivery is optional; without an SMTP host escalations only go to
	// the log and webhook channels.
	var mailQueue *mail.Queue
	if cfg.Mail.Host != "" {
		mailQueue = mail.NewQueue(mail.NewSender(cfg, log), log, cfg.Mail.QueueSize)
		mailQueue.Start()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			_ = mailQueue.Stop(stopCtx)
		}()
	}

	sinks := []audit.Sink{audit.NewLogSink(zl)}
	if len(cfg.Audit.KafkaBrokers) > 0 {
		sinks = append(sinks, audit.NewKafkaSink(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic, zl))
		log.Infow("Kafka audit sink enabled", "brokers", cfg.Audit.KafkaBrokers, "topic", cfg.Audit.KafkaTopic)
	}
	auditSvc := audit.NewService(zl, cfg.Audit.QueueSize, sinks...)
	defer auditSvc.Close()

	kb := knowledge.NewStore(db.DB(), cfg.Knowledge.FuzzyThreshold, log)
	ledger := helpdesk.NewLedger(db.DB(), cfg.TTL(), log)
	notifier := notify.NewService(cfg, mailQueue, ledger, log)
	agent := helpdesk.NewAgent(kb, ledger, notifier, auditSvc, log)

	sweeper := &helpdesk.ExpiryRoutine{
		Ledger:   ledger,
		Notifier: notifier,
		Audit:    auditSvc,
		Log:      log,
		Interval: cfg.SweepInterval(),
		Backoff:  cfg.SweepBackoff(),
	}
	if flags.EnableSweeper {
		go sweeper.Run(ctx)
	}

	go serveMetrics(cfg.Server.MetricsAddress, log)

	if !flags.EnableAPI {
		log.Info("API disabled, running sweeper only")
		<-ctx.Done()
		return
	}

	server := api.NewServer(zl, cfg, flags.Debug, db)
	err = server.RegisterAll([]api.APIController{
		helpdesk.NewAPI(agent, ledger, sweeper, log),
		knowledge.NewAPI(kb, cfg.Knowledge.ListLimit, log),
	})
	if err != nil {
		log.Fatalf("Error registering controllers: %v", err)
	}

	log.Infow("Listening", "address", cfg.Server.ListenAddress)
	if err := server.Listen(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func applyFlagOverrides(cfg *config.Config, flags *cli.Config) {
	if flags.ListenAddr != "" {
		cfg.Server.ListenAddress = flags.ListenAddr
	}
	if flags.MetricsAddr != "" {
		cfg.Server.MetricsAddress = flags.MetricsAddr
	}
	if flags.DBPath != "" {
		cfg.Database.Path = flags.DBPath
	}
	if flags.Seed {
		cfg.Seed = true
	}
}

func serveMetrics(address string, log *zap.SugaredLogger) {
	if address == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.MetricsHandler())
	if err := http.ListenAndServe(address, mux); err != nil {
		log.Errorf("Metrics server stopped: %v", err)
	}
}
