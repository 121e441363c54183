package orders

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"primetop-backend/internal/models"
)

// testDB подключается к базе из TEST_DATABASE_URL. Без неё тесты
// пропускаются: блокировки SELECT ... FOR UPDATE проверяются только
// на настоящем Postgres.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Client{},
		&models.CoatingType{},
		&models.Product{},
		&models.Series{},
		&models.Stock{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE TABLE order_status_history, order_items, orders, stocks, series, products, coating_types, clients RESTART IDENTITY CASCADE",
	).Error)
	return db
}

type orderFixtures struct {
	client  models.Client
	product models.Product
	seriesA models.Series
	seriesB models.Series
}

func seedCatalog(t *testing.T, db *gorm.DB) orderFixtures {
	t.Helper()

	f := orderFixtures{client: models.Client{Name: "Альфа", Email: "alfa@test.ru"}}
	require.NoError(t, db.Create(&f.client).Error)

	ct := models.CoatingType{Name: "Полиэфир", Nomenclature: "ПЭ-01"}
	require.NoError(t, db.Create(&ct).Error)

	f.product = models.Product{CoatingTypeID: ct.ID, Name: "Эмаль", Color: 9016, Price: 1000}
	require.NoError(t, db.Create(&f.product).Error)

	nameA, nameB := "A-101", "A-102"
	f.seriesA = models.Series{ProductID: f.product.ID, Name: &nameA}
	f.seriesB = models.Series{ProductID: f.product.ID, Name: &nameB}
	require.NoError(t, db.Create(&f.seriesA).Error)
	require.NoError(t, db.Create(&f.seriesB).Error)

	return f
}

func seedPublicStock(t *testing.T, db *gorm.DB, seriesID uint, quantity float64) models.Stock {
	t.Helper()
	stock := models.Stock{SeriesID: &seriesID, Quantity: quantity, UpdatedAt: time.Now()}
	require.NoError(t, db.Create(&stock).Error)
	return stock
}

func createTestOrder(t *testing.T, db *gorm.DB, p CreateOrderParams) *models.Order {
	t.Helper()
	var created *models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		created, txErr = CreateOrder(tx, p)
		return txErr
	})
	require.NoError(t, err)
	return created
}

func TestCreateOrderWritesSingleHistoryRow(t *testing.T) {
	db := testDB(t)
	f := seedCatalog(t, db)

	created := createTestOrder(t, db, CreateOrderParams{
		ClientID: f.client.ID,
		Items:    []OrderItemInput{{ProductID: f.product.ID, Quantity: 2}},
	})
	assert.Equal(t, StatusPending, created.Status)

	var history []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", created.ID).Order("id").Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, StatusCreated, history[0].FromStatus)
	assert.Equal(t, StatusPending, history[0].ToStatus)
	require.NotNil(t, history[0].Note)
	assert.Equal(t, DefaultHistoryNote, *history[0].Note)
}

func TestCreateOrderRollsBackOnInsufficientStock(t *testing.T) {
	db := testDB(t)
	f := seedCatalog(t, db)
	stockA := seedPublicStock(t, db, f.seriesA.ID, 5)
	stockB := seedPublicStock(t, db, f.seriesB.ID, 2)

	// первая позиция списывается успешно, вторая упирается в нехватку,
	// откат должен вернуть всё к исходному состоянию
	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := CreateOrder(tx, CreateOrderParams{
			ClientID: f.client.ID,
			Items: []OrderItemInput{
				{ProductID: f.product.ID, SeriesID: &f.seriesA.ID, Quantity: 3},
				{ProductID: f.product.ID, SeriesID: &f.seriesB.ID, Quantity: 10},
			},
		})
		return txErr
	})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, f.seriesB.ID, insufficient.SeriesID)

	var orderCount, itemCount, historyCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.OrderStatusHistory{}).Count(&historyCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, historyCount)

	var a, b models.Stock
	require.NoError(t, db.First(&a, stockA.ID).Error)
	require.NoError(t, db.First(&b, stockB.ID).Error)
	assert.InDelta(t, 5, a.Quantity, 1e-9)
	assert.InDelta(t, 2, b.Quantity, 1e-9)
}

func TestUpdateOrderAppendsHistoryOnlyOnStatusChange(t *testing.T) {
	db := testDB(t)
	f := seedCatalog(t, db)

	created := createTestOrder(t, db, CreateOrderParams{
		ClientID: f.client.ID,
		Items:    []OrderItemInput{{ProductID: f.product.ID, Quantity: 1}},
	})

	var first models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", created.ID).Order("id").First(&first).Error)

	// тот же статус историю не трогает
	same := StatusPending
	err := db.Transaction(func(tx *gorm.DB) error {
		_, changed, txErr := UpdateOrder(tx, created.ID, UpdateOrderParams{Status: &same})
		assert.False(t, changed)
		return txErr
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// реальная смена дописывает ровно одну строку, без заметки
	delivered := "Доставлен"
	err = db.Transaction(func(tx *gorm.DB) error {
		_, changed, txErr := UpdateOrder(tx, created.ID, UpdateOrderParams{Status: &delivered})
		assert.True(t, changed)
		return txErr
	})
	require.NoError(t, err)

	var history []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", created.ID).Order("id").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, StatusPending, history[1].FromStatus)
	assert.Equal(t, delivered, history[1].ToStatus)
	assert.Nil(t, history[1].Note)

	// первая строка осталась как была
	assert.Equal(t, first.FromStatus, history[0].FromStatus)
	assert.Equal(t, first.ToStatus, history[0].ToStatus)
	assert.Equal(t, first.ChangedAt, history[0].ChangedAt)

	// правка дат историю не плодит
	shipped := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	err = db.Transaction(func(tx *gorm.DB) error {
		updated, changed, txErr := UpdateOrder(tx, created.ID, UpdateOrderParams{ShippedAt: &shipped})
		assert.False(t, changed)
		if txErr == nil {
			require.NotNil(t, updated.ShippedAt)
		}
		return txErr
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
