package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"go-almacen/internal/export"
	"go-almacen/internal/model"
)

// almacen report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reporte general del inventario",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		report, err := a.reports.Generate()
		if err != nil {
			return err
		}

		fmt.Println("REPORTE GENERAL")
		fmt.Printf("  Total de productos:   %d\n", report.ProductCount)
		fmt.Printf("  Categorías:           %d\n", report.CategoryCount)
		fmt.Printf("  Valor del inventario: $%s\n", report.InventoryValue.StringFixed(2))
		fmt.Printf("  Stock bajo:           %d\n", report.LowStockCount)
		fmt.Printf("  Movimientos:          %d\n", report.MovementCount)
		return nil
	},
}

// almacen report:low-stock
var reportLowStockCmd = &cobra.Command{
	Use:   "report:low-stock",
	Short: "Productos en o por debajo de su stock mínimo",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		products, err := a.reports.LowStockProducts()
		if err != nil {
			return err
		}

		if len(products) == 0 {
			fmt.Println("Stock suficiente en todos los productos.")
			return nil
		}
		printProducts(products)
		return nil
	},
}

// almacen report:best-sellers
var reportBestSellersCmd = &cobra.Command{
	Use:   "report:best-sellers",
	Short: "Productos más vendidos por cantidad de salidas",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		top, _ := cmd.Flags().GetInt("top")
		ranks, err := a.reports.BestSellers(top)
		if err != nil {
			return err
		}

		if len(ranks) == 0 {
			fmt.Println("No hay salidas registradas.")
			return nil
		}
		for i, r := range ranks {
			fmt.Printf("%2d. %-30s %6d unidades\n", i+1, r.Name, r.Quantity)
		}
		return nil
	},
}

// almacen report:losses
var reportLossesCmd = &cobra.Command{
	Use:   "report:losses",
	Short: "Totales de pérdidas por tipo (cantidad y valor)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		buckets, err := a.reports.LossSummary()
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %10s %14s\n", "TIPO", "CANTIDAD", "VALOR")
		for _, t := range model.LossTypes() {
			totals := buckets[t]
			fmt.Printf("%-12s %10d %14s\n", t, totals.Quantity, "$"+totals.Value.StringFixed(2))
		}
		return nil
	},
}

// almacen report:returns
var reportReturnsCmd = &cobra.Command{
	Use:   "report:returns",
	Short: "Total de devoluciones (cantidad y valor a precio de venta)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		totals, err := a.reports.ReturnSummary()
		if err != nil {
			return err
		}

		fmt.Printf("Devoluciones: %d unidades, $%s\n", totals.Quantity, totals.Value.StringFixed(2))
		return nil
	},
}

// almacen report:pdf
var reportPDFCmd = &cobra.Command{
	Use:   "report:pdf",
	Short: "Exportar el reporte general a un archivo PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		report, err := a.reports.Generate()
		if err != nil {
			return err
		}
		lowStock, err := a.reports.LowStockProducts()
		if err != nil {
			return err
		}

		bytes, err := export.NewReportPDF(a.cfg.App.Name).Generate(report, lowStock)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("reporte-%s.pdf", uuid.NewString()[:8])
		}
		if err := os.WriteFile(out, bytes, 0o644); err != nil {
			return err
		}

		fmt.Printf("Reporte exportado a %s\n", out)
		return nil
	},
}

func init() {
	reportBestSellersCmd.Flags().Int("top", 5, "cuántos productos mostrar")
	reportPDFCmd.Flags().String("out", "", "ruta del archivo PDF (por defecto reporte-<id>.pdf)")
}
