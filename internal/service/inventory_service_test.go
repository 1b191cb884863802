package service_test

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-almacen/internal/model"
	"go-almacen/internal/repository"
	"go-almacen/internal/service"
	"go-almacen/pkg/database"
	"go-almacen/pkg/logger"
)

type testEnv struct {
	db        *gorm.DB
	products  repository.ProductRepository
	movements repository.MovementRepository
	inventory service.InventoryService
	reports   service.ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	pRepo := repository.NewProductRepo(db)
	mRepo := repository.NewMovementRepo(db)
	cRepo := repository.NewCategoryRepo(db)

	return &testEnv{
		db:        db,
		products:  pRepo,
		movements: mRepo,
		inventory: service.NewInventoryService(pRepo, mRepo, cRepo, db, logger.Nop()),
		reports:   service.NewReportService(pRepo, mRepo, cRepo),
	}
}

func (e *testEnv) addProduct(t *testing.T, code, name string, purchase, sale float64, stock, minStock int, category string) *model.Product {
	t.Helper()
	p, err := model.NewProduct(code, name, decimal.NewFromFloat(purchase), decimal.NewFromFloat(sale), stock, minStock, category)
	require.NoError(t, err)
	require.NoError(t, e.inventory.AddProduct(p, "tester"))
	return p
}

func (e *testEnv) stockOf(t *testing.T, code string) int {
	t.Helper()
	p, err := e.inventory.GetProduct(code)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func TestAddProduct_Roundtrip(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café molido", 7.50, 12.00, 5, 10, "Bebidas")

	got, err := env.inventory.GetProduct("P1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Café molido", got.Name)
	assert.True(t, got.PurchasePrice.Equal(decimal.NewFromFloat(7.50)))
	assert.True(t, got.SalePrice.Equal(decimal.NewFromFloat(12.00)))
	assert.Equal(t, 5, got.CurrentStock)
	assert.Equal(t, 10, got.MinStock)
	assert.Equal(t, "Bebidas", got.Category)
}

func TestAddProduct_LogsOpeningReceipt(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	history, err := env.inventory.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.KindReceipt, history[0].Kind)
	assert.Equal(t, 5, history[0].Quantity)
}

func TestAddProduct_ZeroStockLogsNothing(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 0, 0, "Bebidas")

	history, err := env.inventory.History(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAddProduct_DuplicateLeavesOriginal(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	dup, err := model.NewProduct("P1", "Otro", decimal.Zero, decimal.Zero, 9, 0, "Limpieza")
	require.NoError(t, err)
	err = env.inventory.AddProduct(dup, "tester")
	require.ErrorIs(t, err, model.ErrDuplicateCode)

	got, err := env.inventory.GetProduct("P1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Café", got.Name)
	assert.Equal(t, 5, got.CurrentStock)

	// the failed insert's opening movement must not survive the rollback
	history, err := env.inventory.History(0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAddProduct_RegistersCategoryOnce(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 0, 0, "Bebidas")
	env.addProduct(t, "P2", "Té", 1, 2, 0, 0, "Bebidas")
	env.addProduct(t, "P3", "Pan", 1, 2, 0, 0, "Panadería")

	categories, err := env.inventory.ListCategories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Bebidas", "Panadería"}, categories)
}

func TestEditProduct(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	name := "Café premium"
	sale := decimal.NewFromFloat(15.00)
	updated, err := env.inventory.EditProduct("P1", model.ProductUpdate{Name: &name, SalePrice: &sale})
	require.NoError(t, err)
	assert.Equal(t, "Café premium", updated.Name)
	assert.True(t, updated.SalePrice.Equal(sale))
	// untouched fields keep their values
	assert.Equal(t, 5, updated.CurrentStock)

	got, err := env.inventory.GetProduct("P1")
	require.NoError(t, err)
	assert.Equal(t, "Café premium", got.Name)
}

func TestEditProduct_UnknownCode(t *testing.T) {
	env := newTestEnv(t)

	name := "x"
	_, err := env.inventory.EditProduct("NOPE", model.ProductUpdate{Name: &name})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRemoveProduct_KeepsHistory(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	removed, err := env.inventory.RemoveProduct("P1")
	require.NoError(t, err)
	assert.Equal(t, "Café", removed.Name)

	got, err := env.inventory.GetProduct("P1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// the audit trail survives the delete
	history, err := env.inventory.History(0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = env.inventory.RemoveProduct("P1")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestReceiveStock(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	p, err := env.inventory.ReceiveStock("P1", 10, "tester")
	require.NoError(t, err)
	assert.Equal(t, 15, p.CurrentStock)

	entries, err := env.inventory.MovementsByKind(model.KindReceipt, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // opening plus this receipt
}

func TestIssueStock_InsufficientLeavesEverythingUntouched(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	_, err := env.inventory.IssueStock("P1", 6, "tester")
	require.ErrorIs(t, err, model.ErrInsufficientStock)

	assert.Equal(t, 5, env.stockOf(t, "P1"))

	issues, err := env.inventory.MovementsByKind(model.KindIssue, 0)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestIssueStock_ExactBalanceAllowed(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	p, err := env.inventory.IssueStock("P1", 5, "tester")
	require.NoError(t, err)
	assert.Equal(t, 0, p.CurrentStock)
}

func TestReturnStock(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	p, err := env.inventory.ReturnStock("P1", 2, "cliente insatisfecho", "tester")
	require.NoError(t, err)
	assert.Equal(t, 7, p.CurrentStock)

	returns, err := env.inventory.MovementsByKind(model.KindReturn, 0)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, "cliente insatisfecho", returns[0].ReasonText())
}

func TestReturnStock_RequiresReason(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	_, err := env.inventory.ReturnStock("P1", 2, "  ", "tester")
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 5, env.stockOf(t, "P1"))
}

func TestRecordLoss_TagsAndSubtracts(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")

	p, err := env.inventory.RecordLoss("P1", 2, model.LossTheft, "hurto en estantería", "tester")
	require.NoError(t, err)
	assert.Equal(t, 3, p.CurrentStock)

	losses, err := env.inventory.LossMovements("")
	require.NoError(t, err)
	require.Len(t, losses, 1)
	assert.Equal(t, "[ROBO] hurto en estantería", losses[0].ReasonText())
}

func TestRecordLoss_Insufficient(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 1, 0, "Bebidas")

	_, err := env.inventory.RecordLoss("P1", 2, model.LossWaste, "producto vencido", "tester")
	require.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 1, env.stockOf(t, "P1"))
}

func TestLossMovements_FilterBySubtype(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 10, 0, "Bebidas")

	_, err := env.inventory.RecordLoss("P1", 1, model.LossTheft, "hurto", "tester")
	require.NoError(t, err)
	_, err = env.inventory.RecordLoss("P1", 2, model.LossExpiry, "vencido", "tester")
	require.NoError(t, err)
	_, err = env.inventory.RecordLoss("P1", 3, model.LossDamage, "caja aplastada", "tester")
	require.NoError(t, err)

	thefts, err := env.inventory.LossMovements(model.LossTheft)
	require.NoError(t, err)
	require.Len(t, thefts, 1)
	assert.Equal(t, 1, thefts[0].Quantity)

	damages, err := env.inventory.LossMovements(model.LossDamage)
	require.NoError(t, err)
	require.Len(t, damages, 1)
	assert.Equal(t, 3, damages[0].Quantity)

	all, err := env.inventory.LossMovements("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMovementsByKind_InvalidKind(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inventory.MovementsByKind(model.MovementKind("AJUSTE"), 0)
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestUnknownProductOnMovements(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inventory.ReceiveStock("NOPE", 1, "tester")
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = env.inventory.IssueStock("NOPE", 1, "tester")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUndo_ReversesIssue(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 0, 0, "Bebidas")
	_, err := env.inventory.ReceiveStock("P1", 10, "tester")
	require.NoError(t, err)
	_, err = env.inventory.IssueStock("P1", 10, "tester")
	require.NoError(t, err)
	require.Equal(t, 0, env.stockOf(t, "P1"))

	undone, err := env.inventory.UndoLastOperation()
	require.NoError(t, err)
	assert.Equal(t, model.KindIssue, undone.Kind)
	assert.Equal(t, 10, env.stockOf(t, "P1"))

	// only the receipt remains in the log
	history, err := env.inventory.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.KindReceipt, history[0].Kind)
}

func TestUndo_ReversesReceipt(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 0, 0, "Bebidas")
	_, err := env.inventory.ReceiveStock("P1", 10, "tester")
	require.NoError(t, err)

	undone, err := env.inventory.UndoLastOperation()
	require.NoError(t, err)
	assert.Equal(t, model.KindReceipt, undone.Kind)
	assert.Equal(t, 0, env.stockOf(t, "P1"))
}

func TestUndo_ReversesLoss(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")
	_, err := env.inventory.RecordLoss("P1", 2, model.LossWaste, "vencido", "tester")
	require.NoError(t, err)
	require.Equal(t, 3, env.stockOf(t, "P1"))

	undone, err := env.inventory.UndoLastOperation()
	require.NoError(t, err)
	assert.Equal(t, model.KindLoss, undone.Kind)
	assert.Equal(t, 5, env.stockOf(t, "P1"))
}

func TestUndo_EmptyLog(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.inventory.UndoLastOperation()
	require.ErrorIs(t, err, model.ErrNothingToUndo)
}

func TestUndo_ProductDeletedRetainsMovement(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 5, 0, "Bebidas")
	_, err := env.inventory.RemoveProduct("P1")
	require.NoError(t, err)

	// the opening receipt is still the newest movement, but its product
	// is gone: the undo must fail and roll the pop back
	_, err = env.inventory.UndoLastOperation()
	require.ErrorIs(t, err, model.ErrNotFound)

	history, err := env.inventory.History(0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUndo_InsufficientStockRetainsMovement(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 3, 0, "Bebidas")

	// a receipt larger than the live stock cannot be reversed; insert it
	// straight into the log to simulate stock consumed elsewhere
	m, err := model.NewMovement(model.KindReceipt, "P1", "Café", 99, "tester", "")
	require.NoError(t, err)
	require.NoError(t, env.movements.Create(nil, m))

	_, err = env.inventory.UndoLastOperation()
	require.ErrorIs(t, err, model.ErrInsufficientStockToUndo)

	assert.Equal(t, 3, env.stockOf(t, "P1"))

	n, err := env.movements.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestHistory_Limit(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café", 1, 2, 0, 0, "Bebidas")
	for i := 0; i < 4; i++ {
		_, err := env.inventory.ReceiveStock("P1", 1, "tester")
		require.NoError(t, err)
	}

	history, err := env.inventory.History(2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSearchProducts(t *testing.T) {
	env := newTestEnv(t)

	env.addProduct(t, "P1", "Café molido", 1, 2, 0, 0, "Bebidas")
	env.addProduct(t, "P2", "Té verde", 1, 2, 0, 0, "Bebidas")

	byName, err := env.inventory.SearchProducts(repository.ByName, "verde")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "P2", byName[0].Code)

	byCategory, err := env.inventory.SearchProducts(repository.ByCategory, "Bebidas")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)
}
