package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"go-almacen/internal/model"
)

// almacen stock:receive
var stockReceiveCmd = &cobra.Command{
	Use:   "stock:receive <código> <cantidad>",
	Short: "Registrar una entrada de stock",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		quantity, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		responsible, _ := cmd.Flags().GetString("responsible")

		product, err := a.inventory.ReceiveStock(args[0], quantity, responsible)
		if err != nil {
			return err
		}

		fmt.Printf("Entrada: +%d de %s (stock: %d)\n", quantity, product.Name, product.CurrentStock)
		return nil
	},
}

// almacen stock:issue
var stockIssueCmd = &cobra.Command{
	Use:   "stock:issue <código> <cantidad>",
	Short: "Registrar una salida de stock",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		quantity, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		responsible, _ := cmd.Flags().GetString("responsible")

		product, err := a.inventory.IssueStock(args[0], quantity, responsible)
		if err != nil {
			return err
		}

		fmt.Printf("Salida: -%d de %s (stock: %d)\n", quantity, product.Name, product.CurrentStock)
		return nil
	},
}

// almacen stock:return
var stockReturnCmd = &cobra.Command{
	Use:   "stock:return <código> <cantidad>",
	Short: "Registrar una devolución (el motivo es obligatorio)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		quantity, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")
		responsible, _ := cmd.Flags().GetString("responsible")

		product, err := a.inventory.ReturnStock(args[0], quantity, reason, responsible)
		if err != nil {
			return err
		}

		fmt.Printf("Devolución: +%d de %s (stock: %d)\n", quantity, product.Name, product.CurrentStock)
		return nil
	},
}

// almacen stock:loss
var stockLossCmd = &cobra.Command{
	Use:   "stock:loss <código> <cantidad>",
	Short: "Registrar una pérdida (robo, merma, caducidad o daño)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		quantity, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		lossType, _ := cmd.Flags().GetString("type")
		reason, _ := cmd.Flags().GetString("reason")
		responsible, _ := cmd.Flags().GetString("responsible")

		product, err := a.inventory.RecordLoss(args[0], quantity, model.LossType(lossType), reason, responsible)
		if err != nil {
			return err
		}

		fmt.Printf("Pérdida: -%d de %s (stock: %d)\n", quantity, product.Name, product.CurrentStock)
		return nil
	},
}

// almacen history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Mostrar los movimientos más recientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		var movements []model.Movement
		if kind != "" {
			movements, err = a.inventory.MovementsByKind(model.MovementKind(kind), limit)
		} else {
			movements, err = a.inventory.History(limit)
		}
		if err != nil {
			return err
		}

		printMovements(movements)
		return nil
	},
}

// almacen undo
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Cancelar la última operación registrada",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		movement, err := a.inventory.UndoLastOperation()
		if err != nil {
			return err
		}

		fmt.Printf("Operación cancelada: %s\n", movement.Kind)
		return nil
	},
}

func parseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("la cantidad debe ser un número entero: %s", raw)
	}
	return n, nil
}

func printMovements(movements []model.Movement) {
	if len(movements) == 0 {
		fmt.Println("No hay movimientos registrados.")
		return
	}
	fmt.Printf("%-20s %-11s %-12s %-25s %6s %-12s %s\n",
		"FECHA", "TIPO", "CÓDIGO", "PRODUCTO", "CANT.", "RESPONSABLE", "MOTIVO")
	for _, m := range movements {
		fmt.Printf("%-20s %-11s %-12s %-25s %6d %-12s %s\n",
			m.Timestamp.Format("2006-01-02 15:04:05"), m.Kind,
			m.ProductCode, m.ProductName, m.Quantity, m.Responsible, m.ReasonText())
	}
}

func init() {
	for _, c := range []*cobra.Command{stockReceiveCmd, stockIssueCmd, stockReturnCmd, stockLossCmd} {
		c.Flags().String("responsible", "Sistema", "responsable de la operación")
	}
	stockReturnCmd.Flags().String("reason", "", "motivo de la devolución")
	_ = stockReturnCmd.MarkFlagRequired("reason")

	stockLossCmd.Flags().String("type", "", "tipo de pérdida: robo, merma, caducidad o daño")
	stockLossCmd.Flags().String("reason", "", "descripción detallada")
	_ = stockLossCmd.MarkFlagRequired("type")
	_ = stockLossCmd.MarkFlagRequired("reason")

	historyCmd.Flags().Int("limit", 0, "máximo de movimientos a mostrar (0 = todos)")
	historyCmd.Flags().String("kind", "", "filtrar por tipo: ENTRADA, SALIDA, DEVOLUCION o PERDIDA")
}
