package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/contact-form-service/api"
	"github.com/raushankrgupta/contact-form-service/config"
	"github.com/raushankrgupta/contact-form-service/notify"
	"github.com/raushankrgupta/contact-form-service/spreadsheet"
	"github.com/raushankrgupta/contact-form-service/store"
	"github.com/raushankrgupta/contact-form-service/utils"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize MongoDB
	client, err := utils.ConnectMongo(ctx, cfg.MongoURI, logger)
	if err != nil {
		logger.Error("failed to connect to MongoDB", zap.Error(err))
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()

	appenderOpts := []spreadsheet.Option{spreadsheet.WithLogger(logger)}
	if cfg.ArchiveEnabled() {
		archiver, err := utils.NewS3Archiver(ctx, cfg.AWSRegion, cfg.AWSBucketName, logger)
		if err != nil {
			logger.Error("failed to initialize S3 archiver", zap.Error(err))
			return err
		}
		appenderOpts = append(appenderOpts, spreadsheet.WithArchiver(archiver))
	}
	appender := spreadsheet.NewAppender(cfg.SpreadsheetPath, cfg.SheetName, appenderOpts...)
	defer appender.Close()

	handler := api.NewContactHandler(
		appender,
		store.NewContactStore(client.Database(cfg.DBName)),
		notify.NewNotifier(newMailer(cfg, logger), cfg.EmailFromName),
		logger,
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Error("failed to listen", zap.String("addr", srv.Addr), zap.Error(err))
		return err
	}

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("spreadsheet", cfg.SpreadsheetPath),
		zap.String("mail_provider", cfg.MailProvider),
	)
	if err := utils.Serve(ctx, srv, ln, 15*time.Second, logger); err != nil {
		logger.Error("server failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newMailer(cfg *config.Config, logger *zap.Logger) utils.Mailer {
	if cfg.MailProvider == config.MailProviderSendGrid {
		return utils.NewSendGridMailer(cfg.EmailPass, cfg.EmailFromName, cfg.EmailUser, logger)
	}
	return utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailFromName, logger)
}
