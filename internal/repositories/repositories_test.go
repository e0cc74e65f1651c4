package repositories_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"care4pets/internal/database"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open("sqlite", dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedProduct(t *testing.T, repo repositories.ProductRepository, name string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, repo.Create(p))
	return p
}

func newOrder(userID string, items ...models.OrderItem) *models.Order {
	now := time.Now()
	return &models.Order{
		OrderNumber:   "C4P" + uuid.New().String()[:8],
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodBankTransfer,
		PaymentStatus: models.PaymentStatusPending,
		Items:         items,
		ShippingAddress: models.ShippingAddress{
			FullName: "Nguyen Van A", Phone: "0901234567", Address: "1 Le Loi",
		},
		StatusHistory: []models.OrderStatusEntry{{Status: models.OrderStatusPending, Note: "created", Timestamp: now}},
		CreatedAt:     now,
	}
}

func TestGORMOrderRepository_CreateReservesStock(t *testing.T) {
	db := newTestDB(t)
	products := repositories.NewGORMProductRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	food := seedProduct(t, products, "Dog food", 120000, 5)

	order := newOrder("user-1", models.OrderItem{ProductID: food.ID, Name: food.Name, Price: food.Price, Quantity: 2})
	require.NoError(t, orders.Create(order))
	assert.NotEmpty(t, order.ID)

	stored, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
	assert.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, "Nguyen Van A", stored.ShippingAddress.FullName)

	reloaded, err := products.GetByID(food.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Stock)
}

func TestGORMOrderRepository_CreateFailsWithoutStock(t *testing.T) {
	db := newTestDB(t)
	products := repositories.NewGORMProductRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	toy := seedProduct(t, products, "Cat toy", 50000, 3)
	collar := seedProduct(t, products, "Collar", 80000, 1)

	order := newOrder("user-1",
		models.OrderItem{ProductID: toy.ID, Quantity: 2},
		models.OrderItem{ProductID: collar.ID, Quantity: 2},
	)
	err := orders.Create(order)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrInsufficientStock))

	// the first decrement was rolled back together with the failed one
	reloaded, err := products.GetByID(toy.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Stock)

	_, total, err := orders.List(repositories.OrderFilter{Pagination: repositories.NewPagination(1, 10)})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGORMOrderRepository_UpdateGuardAndRestock(t *testing.T) {
	db := newTestDB(t)
	products := repositories.NewGORMProductRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	food := seedProduct(t, products, "Dog food", 120000, 5)
	order := newOrder("user-1", models.OrderItem{ProductID: food.ID, Quantity: 4})
	require.NoError(t, orders.Create(order))

	now := time.Now()
	order.Status = models.OrderStatusCancelled
	order.CancelReason = "changed my mind"
	order.CancelledAt = &now
	entry := &models.OrderStatusEntry{Status: models.OrderStatusCancelled, Note: "changed my mind", Timestamp: now}
	require.NoError(t, orders.Update(order, repositories.OrderGuard{Status: models.OrderStatusPending}, entry, true))

	stored, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	assert.Equal(t, "changed my mind", stored.CancelReason)
	require.Len(t, stored.StatusHistory, 2)
	assert.Equal(t, models.OrderStatusCancelled, stored.StatusHistory[1].Status)

	reloaded, err := products.GetByID(food.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Stock)

	// a second cancel guarded on the old status matches nothing
	err = orders.Update(order, repositories.OrderGuard{Status: models.OrderStatusPending}, nil, true)
	assert.True(t, errors.Is(err, repositories.ErrStaleUpdate))
}

func TestGORMOrderRepository_ListAwaitingTransfer(t *testing.T) {
	db := newTestDB(t)
	products := repositories.NewGORMProductRepository(db)
	orders := repositories.NewGORMOrderRepository(db)
	food := seedProduct(t, products, "Dog food", 100000, 100)

	for i := 0; i < 12; i++ {
		o := newOrder("user-1", models.OrderItem{ProductID: food.ID, Quantity: 1})
		o.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, orders.Create(o))
	}
	cod := newOrder("user-1", models.OrderItem{ProductID: food.ID, Quantity: 1})
	cod.PaymentMethod = models.PaymentMethodCOD
	cod.PaymentStatus = models.PaymentStatusUnpaid
	require.NoError(t, orders.Create(cod))

	page1, total, err := orders.List(repositories.OrderFilter{AwaitingTransfer: true, Pagination: repositories.NewPagination(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, page1, 10)
	assert.True(t, page1[0].CreatedAt.After(page1[9].CreatedAt))

	page2, _, err := orders.List(repositories.OrderFilter{AwaitingTransfer: true, Pagination: repositories.NewPagination(2, 10)})
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	mine, total, err := orders.List(repositories.OrderFilter{UserID: "someone-else", Pagination: repositories.NewPagination(1, 10)})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, mine)
}

func TestGORMCartRepository_SaveMergesLine(t *testing.T) {
	db := newTestDB(t)
	products := repositories.NewGORMProductRepository(db)
	carts := repositories.NewGORMCartRepository(db)
	food := seedProduct(t, products, "Dog food", 100000, 10)

	require.NoError(t, carts.Save(&models.CartItem{UserID: "u1", ProductID: food.ID, Quantity: 1}))
	require.NoError(t, carts.Save(&models.CartItem{UserID: "u1", ProductID: food.ID, Quantity: 3}))

	items, err := carts.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Dog food", items[0].Product.Name)

	require.NoError(t, carts.Clear("u1"))
	items, err = carts.ListByUser("u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	err = carts.Delete("u1", food.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestGORMAppointmentRepository_SlotCounts(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMAppointmentRepository(db)

	book := func(pet, slot, status string) {
		require.NoError(t, repo.Create(&models.Appointment{
			UserID: "u1", PetID: pet, ServiceType: models.ServiceGrooming,
			AppointmentDate: "2030-01-10", TimeSlot: slot, Status: status,
		}))
	}
	book("p1", "08:00-09:00", models.AppointmentStatusPending)
	book("p2", "08:00-09:00", models.AppointmentStatusConfirmed)
	book("p3", "08:00-09:00", models.AppointmentStatusCancelled)
	book("p1", "09:00-10:00", models.AppointmentStatusPending)

	counts, err := repo.CountActiveBySlot("2030-01-10")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["08:00-09:00"])
	assert.Equal(t, int64(1), counts["09:00-10:00"])

	busy, err := repo.HasActiveForPet("p1", "2030-01-10", "08:00-09:00")
	require.NoError(t, err)
	assert.True(t, busy)
	busy, err = repo.HasActiveForPet("p3", "2030-01-10", "08:00-09:00")
	require.NoError(t, err)
	assert.False(t, busy)
}

func TestGORMNotificationRepository_ReadFlags(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMNotificationRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&models.Notification{UserID: "u1", Type: models.NotificationOrder, Title: fmt.Sprintf("n%d", i)}))
	}
	require.NoError(t, repo.Create(&models.Notification{UserID: "u2", Title: "other"}))

	count, err := repo.CountUnread("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	items, total, err := repo.List("u1", repositories.NewPagination(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	require.NoError(t, repo.MarkRead("u1", items[0].ID))
	assert.True(t, errors.Is(repo.MarkRead("u2", items[1].ID), repositories.ErrNotFound))

	updated, err := repo.MarkAllRead("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	count, err = repo.CountUnread("u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGORMPetRepository_DeleteRemovesRecords(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMPetRepository(db)

	pet := &models.Pet{OwnerID: "u1", Name: "Milo", Species: "cat"}
	require.NoError(t, repo.Create(pet))
	require.NoError(t, repo.AddVaccination(&models.Vaccination{PetID: pet.ID, VaccineName: "Rabies", Date: "2024-03-01"}))
	require.NoError(t, repo.AddMedicalRecord(&models.MedicalRecord{PetID: pet.ID, Date: "2024-04-01", Diagnosis: "Otitis"}))

	loaded, err := repo.GetByID(pet.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Vaccinations, 1)
	assert.Len(t, loaded.MedicalHistory, 1)

	require.NoError(t, repo.Delete(pet.ID))
	_, err = repo.GetByID(pet.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	var remaining int64
	require.NoError(t, db.Model(&models.Vaccination{}).Where("pet_id = ?", pet.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestProductRepositories_ListFilters(t *testing.T) {
	repos := map[string]repositories.ProductRepository{
		"gorm": repositories.NewGORMProductRepository(newTestDB(t)),
		"mock": repositories.NewMockProductRepository(),
	}
	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			for _, p := range []models.Product{
				{Name: "Royal Canin Mini", Category: "food", Price: 250000, Stock: 10},
				{Name: "Whiskas Tuna", Category: "food", Price: 45000, Stock: 0},
				{Name: "Cat tree", Category: "accessories", Price: 890000, Stock: 3},
			} {
				product := p
				require.NoError(t, repo.Create(&product))
			}

			items, total, err := repo.List(repositories.ProductFilter{Category: "food", Pagination: repositories.NewPagination(1, 10)})
			require.NoError(t, err)
			assert.EqualValues(t, 2, total)
			assert.Len(t, items, 2)

			items, total, err = repo.List(repositories.ProductFilter{Category: "food", InStock: true, Pagination: repositories.NewPagination(1, 10)})
			require.NoError(t, err)
			assert.EqualValues(t, 1, total)
			assert.Equal(t, "Royal Canin Mini", items[0].Name)

			items, _, err = repo.List(repositories.ProductFilter{Search: "CAT", Pagination: repositories.NewPagination(1, 10)})
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "Cat tree", items[0].Name)

			items, total, err = repo.List(repositories.ProductFilter{Pagination: repositories.NewPagination(2, 2)})
			require.NoError(t, err)
			assert.EqualValues(t, 3, total)
			assert.Len(t, items, 1)
		})
	}
}

func TestProductRepositories_AdjustStock(t *testing.T) {
	repos := map[string]repositories.ProductRepository{
		"gorm": repositories.NewGORMProductRepository(newTestDB(t)),
		"mock": repositories.NewMockProductRepository(),
	}
	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			toy := seedProduct(t, repo, "Chew toy", 30000, 2)

			require.NoError(t, repo.AdjustStock(toy.ID, -2))
			err := repo.AdjustStock(toy.ID, -1)
			assert.True(t, errors.Is(err, repositories.ErrInsufficientStock))
			require.NoError(t, repo.AdjustStock(toy.ID, 5))

			got, err := repo.GetByID(toy.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, got.Stock)

			err = repo.AdjustStock("missing", 1)
			assert.True(t, errors.Is(err, repositories.ErrNotFound))
		})
	}
}
