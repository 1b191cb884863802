package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"go-almacen/internal/model"
	"go-almacen/internal/repository"
)

// almacen product:add
var productAddCmd = &cobra.Command{
	Use:   "product:add",
	Short: "Registrar un producto nuevo",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		code, _ := flags.GetString("code")
		name, _ := flags.GetString("name")
		purchase, _ := flags.GetString("purchase")
		sale, _ := flags.GetString("sale")
		stock, _ := flags.GetInt("stock")
		minStock, _ := flags.GetInt("min")
		category, _ := flags.GetString("category")
		responsible, _ := flags.GetString("responsible")

		purchasePrice, err := decimal.NewFromString(purchase)
		if err != nil {
			return fmt.Errorf("precio de compra inválido: %s", purchase)
		}
		salePrice, err := decimal.NewFromString(sale)
		if err != nil {
			return fmt.Errorf("precio de venta inválido: %s", sale)
		}

		product, err := model.NewProduct(code, name, purchasePrice, salePrice, stock, minStock, category)
		if err != nil {
			return err
		}
		if err := a.inventory.AddProduct(product, responsible); err != nil {
			return err
		}

		fmt.Printf("Producto %s agregado\n", product.Name)
		return nil
	},
}

// almacen product:edit
var productEditCmd = &cobra.Command{
	Use:   "product:edit <código>",
	Short: "Modificar nombre, precios, stock mínimo o categoría",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		var changes model.ProductUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			changes.Name = &v
		}
		if flags.Changed("purchase") {
			raw, _ := flags.GetString("purchase")
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("precio de compra inválido: %s", raw)
			}
			changes.PurchasePrice = &v
		}
		if flags.Changed("sale") {
			raw, _ := flags.GetString("sale")
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("precio de venta inválido: %s", raw)
			}
			changes.SalePrice = &v
		}
		if flags.Changed("min") {
			v, _ := flags.GetInt("min")
			changes.MinStock = &v
		}
		if flags.Changed("category") {
			v, _ := flags.GetString("category")
			changes.Category = &v
		}

		if _, err := a.inventory.EditProduct(args[0], changes); err != nil {
			return err
		}

		fmt.Println("Producto actualizado")
		return nil
	},
}

// almacen product:remove
var productRemoveCmd = &cobra.Command{
	Use:   "product:remove <código>",
	Short: "Eliminar un producto (su historial de movimientos se conserva)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		product, err := a.inventory.RemoveProduct(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Producto %s eliminado\n", product.Name)
		return nil
	},
}

// almacen product:list
var productListCmd = &cobra.Command{
	Use:   "product:list",
	Short: "Listar todos los productos ordenados por código",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		products, err := a.inventory.ListProducts()
		if err != nil {
			return err
		}

		printProducts(products)
		return nil
	},
}

// almacen product:search
var productSearchCmd = &cobra.Command{
	Use:   "product:search <valor>",
	Short: "Buscar productos por código, nombre o categoría",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		by, _ := cmd.Flags().GetString("by")
		products, err := a.inventory.SearchProducts(repository.SearchCriterion(by), args[0])
		if err != nil {
			return err
		}

		if len(products) == 0 {
			fmt.Println("No se encontraron productos.")
			return nil
		}
		printProducts(products)
		return nil
	},
}

// almacen categories
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Listar las categorías registradas",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}

		names, err := a.inventory.ListCategories()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func printProducts(products []model.Product) {
	fmt.Printf("%-12s %-30s %10s %10s %7s %7s %-15s\n",
		"CÓDIGO", "NOMBRE", "P.COMPRA", "P.VENTA", "STOCK", "MÍNIMO", "CATEGORÍA")
	for _, p := range products {
		marker := ""
		if p.NeedsRestock() {
			marker = "  ⚠ stock bajo"
		}
		fmt.Printf("%-12s %-30s %10s %10s %7d %7d %-15s%s\n",
			p.Code, p.Name,
			"$"+p.PurchasePrice.StringFixed(2), "$"+p.SalePrice.StringFixed(2),
			p.CurrentStock, p.MinStock, p.Category, marker)
	}
}

func init() {
	f := productAddCmd.Flags()
	f.String("code", "", "código único del producto")
	f.String("name", "", "nombre del producto")
	f.String("purchase", "0", "precio de compra")
	f.String("sale", "0", "precio de venta")
	f.Int("stock", 0, "stock inicial")
	f.Int("min", 0, "stock mínimo (umbral de reabastecimiento)")
	f.String("category", "", "categoría")
	f.String("responsible", "Sistema", "responsable del registro")
	_ = productAddCmd.MarkFlagRequired("code")
	_ = productAddCmd.MarkFlagRequired("name")
	_ = productAddCmd.MarkFlagRequired("category")

	e := productEditCmd.Flags()
	e.String("name", "", "nuevo nombre")
	e.String("purchase", "", "nuevo precio de compra")
	e.String("sale", "", "nuevo precio de venta")
	e.Int("min", 0, "nuevo stock mínimo")
	e.String("category", "", "nueva categoría")

	productSearchCmd.Flags().String("by", "name", "criterio: code, name o category")
}
