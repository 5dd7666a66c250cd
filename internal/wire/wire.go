// Package wire builds the application graph shared by the API server and
// the billctl command line.
package wire

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrstraders/paddybill/internal/application/service"
	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/config"
	domainRepo "github.com/mrstraders/paddybill/internal/domain/repository"
	"github.com/mrstraders/paddybill/internal/infrastructure/database"
	"github.com/mrstraders/paddybill/internal/infrastructure/repository"
	"github.com/mrstraders/paddybill/internal/infrastructure/storage"
	"github.com/mrstraders/paddybill/internal/printqueue"
	"github.com/mrstraders/paddybill/internal/receipt"
	"github.com/mrstraders/paddybill/pkg/pdf"
	"github.com/mrstraders/paddybill/pkg/printer"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds the wired services and the resources they own.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DB    *gorm.DB
	Redis *redis.Client
	Queue *printqueue.Queue

	IdempotencyRepo domainRepo.IdempotencyRepository

	Bills   *service.BillService
	Prints  *service.PrintService
	Records *service.RecordService

	printer printer.Printer
}

// Build opens storage, restores the print queue and creates the services.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	db, err := database.New(&cfg.Database, cfg.App.Debug, logger)
	if err != nil {
		return nil, err
	}
	c.DB = db
	if err := database.AutoMigrate(db, logger); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.Queue.Store == storage.BackendRedis {
		rdb, err := storage.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Redis = rdb
	}

	store, err := storage.New(cfg.Queue.Store, db, c.Redis)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Queue = printqueue.Open(ctx, store, logger.Named("queue"),
		printqueue.WithKey(cfg.Queue.Key),
		printqueue.WithWriteTimeout(cfg.Queue.WriteTimeout),
	)

	thermal, err := printer.New(printer.Config{
		Type:        cfg.Printer.Type,
		USBPath:     cfg.Printer.USBPath,
		Address:     cfg.Printer.Address,
		DialTimeout: cfg.Printer.DialTimeout,
	})
	if err != nil {
		logger.Warn("failed to initialize printer, using null printer", zap.Error(err))
		thermal = printer.NewNullPrinter()
	}
	c.printer = thermal

	formatter := receipt.NewFormatter(Labels(cfg.Receipt))
	assembler := billing.NewAssembler()
	recordRepo := repository.NewRecordRepository(db)
	c.IdempotencyRepo = repository.NewIdempotencyRepository(db)

	c.Bills = service.NewBillService(assembler, c.Queue, formatter, logger.Named("bills"))
	c.Records = service.NewRecordService(recordRepo, assembler, formatter, logger.Named("records"))
	c.Prints = service.NewPrintService(service.PrintServiceConfig{
		Queue:       c.Queue,
		Formatter:   formatter,
		Rasterizer:  Rasterizer(cfg.PDF),
		Printer:     thermal,
		PrinterType: cfg.Printer.Type,
		CharWidth:   cfg.Printer.CharWidth,
		Logger:      logger.Named("print"),
	})

	return c, nil
}

// Labels maps receipt configuration onto formatter labels.
func Labels(cfg config.ReceiptConfig) receipt.Labels {
	return receipt.Labels{
		Bags:            cfg.Bags,
		Tare:            cfg.Tare,
		Labour:          cfg.Labour,
		Rate:            cfg.Rate,
		AddedNote:       cfg.AddedNote,
		PaidNote:        cfg.PaidNote,
		InterestHeading: cfg.InterestHeading,
		Footer:          cfg.Footer,
	}
}

// Rasterizer builds the headless Chrome PDF rasterizer.
func Rasterizer(cfg config.PDFConfig) *pdf.Rasterizer {
	var flags []string
	if cfg.NoSandbox {
		flags = append(flags, "no-sandbox")
	}
	return pdf.NewRasterizer(pdf.Options{
		Timeout:    cfg.Timeout,
		ExecPath:   cfg.ChromePath,
		ExtraFlags: flags,
	})
}

// Close releases the printer, Redis and database handles.
func (c *Container) Close() error {
	var errs []error
	if c.printer != nil {
		errs = append(errs, c.printer.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
