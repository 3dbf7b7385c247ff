package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"stockroom/internal/config"
	"stockroom/internal/domain/entity"
	"stockroom/internal/infrastructure/memory"
	controller "stockroom/internal/interfaces/controller/items"
	"stockroom/internal/logger"
	"stockroom/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "stockroom",
		Short: "Interactive in-memory inventory manager",
		Long: `stockroom keeps a small product inventory in memory and drives it
through a numbered menu on standard input.

Items belong to one of three categories (Clothing, Electronics,
Entertainment) and can be added, updated, removed, searched, sorted by
quantity or price, and reported on when stock runs low.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd, cfg, verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "path to a config file (default ./config/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.Int("capacity", memory.DefaultCapacity, "maximum number of items, 0 for unbounded")
	flags.Int("low-stock-threshold", usecase.DefaultLowStockThreshold, "quantity at or below which an item is low on stock")
	flags.String("id-format", string(entity.IDFormatAlphanumeric), "item id format: alphanumeric or three_digits")

	_ = v.BindPFlag("inventory.capacity", flags.Lookup("capacity"))
	_ = v.BindPFlag("inventory.low_stock_threshold", flags.Lookup("low-stock-threshold"))
	_ = v.BindPFlag("ids.format", flags.Lookup("id-format"))

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config, verbose bool) error {
	log, err := logger.New(cfg.Logger, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	repo := memory.NewItemRepository(memory.Options{
		Capacity:         cfg.Inventory.Capacity,
		RejectDuplicates: cfg.IDs.RejectDuplicates,
		DuplicateMatch:   cfg.IDs.LookupMatch,
	})
	itemUsecase := usecase.NewItemUsecase(repo, usecase.Policy{
		IDs:               entity.IDPolicy{Format: cfg.IDs.Format},
		UpdateMatch:       cfg.IDs.UpdateMatch,
		LookupMatch:       cfg.IDs.LookupMatch,
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
	}, log)

	log.Debug("starting",
		zap.Int("capacity", repo.Capacity()),
		zap.Int("low_stock_threshold", cfg.Inventory.LowStockThreshold),
		zap.String("id_format", string(cfg.IDs.Format)),
	)

	handler := controller.NewItemHandler(itemUsecase, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	if err := handler.Run(cmd.Context()); err != nil {
		log.Error("menu stopped", zap.Error(err))
		return err
	}
	return nil
}
