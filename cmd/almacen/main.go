package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"go-almacen/internal/repository"
	"go-almacen/internal/service"
	"go-almacen/pkg/config"
	"go-almacen/pkg/database"
	"go-almacen/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "almacen",
	Short: "Sistema de inventario de escritorio",
	Long: "Almacén gestiona productos, movimientos de stock (entradas, salidas,\n" +
		"devoluciones y pérdidas) y reportes sobre una base de datos SQLite local.",
	SilenceUsage: true,
}

func init() {
	// Productos
	rootCmd.AddCommand(productAddCmd)
	rootCmd.AddCommand(productEditCmd)
	rootCmd.AddCommand(productRemoveCmd)
	rootCmd.AddCommand(productListCmd)
	rootCmd.AddCommand(productSearchCmd)
	rootCmd.AddCommand(categoriesCmd)

	// Movimientos
	rootCmd.AddCommand(stockReceiveCmd)
	rootCmd.AddCommand(stockIssueCmd)
	rootCmd.AddCommand(stockReturnCmd)
	rootCmd.AddCommand(stockLossCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(undoCmd)

	// Reportes
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(reportLowStockCmd)
	rootCmd.AddCommand(reportBestSellersCmd)
	rootCmd.AddCommand(reportLossesCmd)
	rootCmd.AddCommand(reportReturnsCmd)
	rootCmd.AddCommand(reportPDFCmd)
}

// app bundles the wired layers for one command invocation.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *gorm.DB
	inventory service.InventoryService
	reports   service.ReportService
}

// boot loads config, opens the database, ensures the schema and wires the
// layers, mirroring the application startup order.
func boot() (*app, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	db, err := database.Connect(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos %s: %w", cfg.DB.Path, err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("crear esquema: %w", err)
	}

	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		inventory: service.NewInventoryService(productRepo, movementRepo, categoryRepo, db, log),
		reports:   service.NewReportService(productRepo, movementRepo, categoryRepo),
	}, nil
}
