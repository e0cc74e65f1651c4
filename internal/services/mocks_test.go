package services_test

import (
	"context"
	"fmt"
	"sync"

	"care4pets/internal/events"
	"care4pets/internal/gateways"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(id string, delta int) error {
	args := m.Called(id, delta)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListByUser(userID string) ([]models.CartItem, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) Get(userID, productID string) (*models.CartItem, error) {
	args := m.Called(userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) Save(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(userID, productID string) error {
	args := m.Called(userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockAppointmentRepository is a mock implementation of repositories.AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(appointment *models.Appointment) error {
	args := m.Called(appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(id string) (*models.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(filter repositories.AppointmentFilter) ([]models.Appointment, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) Update(appointment *models.Appointment, expectedStatus string) error {
	args := m.Called(appointment, expectedStatus)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CountActiveBySlot(date string) (map[string]int64, error) {
	args := m.Called(date)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockAppointmentRepository) HasActiveForPet(petID, date, timeSlot string) (bool, error) {
	args := m.Called(petID, date, timeSlot)
	return args.Bool(0), args.Error(1)
}

// MockPetRepository is a mock implementation of repositories.PetRepository
type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) Create(pet *models.Pet) error {
	args := m.Called(pet)
	return args.Error(0)
}

func (m *MockPetRepository) GetByID(id string) (*models.Pet, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pet), args.Error(1)
}

func (m *MockPetRepository) ListByOwner(ownerID string) ([]models.Pet, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Pet), args.Error(1)
}

func (m *MockPetRepository) Update(pet *models.Pet) error {
	args := m.Called(pet)
	return args.Error(0)
}

func (m *MockPetRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPetRepository) AddVaccination(v *models.Vaccination) error {
	args := m.Called(v)
	return args.Error(0)
}

func (m *MockPetRepository) GetVaccination(petID, id string) (*models.Vaccination, error) {
	args := m.Called(petID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vaccination), args.Error(1)
}

func (m *MockPetRepository) UpdateVaccination(v *models.Vaccination) error {
	args := m.Called(v)
	return args.Error(0)
}

func (m *MockPetRepository) DeleteVaccination(petID, id string) error {
	args := m.Called(petID, id)
	return args.Error(0)
}

func (m *MockPetRepository) AddMedicalRecord(r *models.MedicalRecord) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockPetRepository) GetMedicalRecord(petID, id string) (*models.MedicalRecord, error) {
	args := m.Called(petID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MedicalRecord), args.Error(1)
}

func (m *MockPetRepository) UpdateMedicalRecord(r *models.MedicalRecord) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockPetRepository) DeleteMedicalRecord(petID, id string) error {
	args := m.Called(petID, id)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(userID string, p repositories.Pagination) ([]models.Notification, int64, error) {
	args := m.Called(userID, p)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(userID, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

// MockMoMoGateway is a mock implementation of services.MoMoGateway
type MockMoMoGateway struct {
	mock.Mock
}

func (m *MockMoMoGateway) CreatePayment(ctx context.Context, req gateways.MoMoRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockMoMoGateway) VerifyIPN(ipn gateways.MoMoIPN) bool {
	args := m.Called(ipn)
	return args.Bool(0)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memPaymentRepository is an in-memory repositories.PaymentRepository.
type memPaymentRepository struct {
	mu       sync.Mutex
	payments []models.Payment
	seq      int
}

func (r *memPaymentRepository) Create(p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if p.ID == "" {
		p.ID = fmt.Sprintf("pay-%d", r.seq)
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *memPaymentRepository) GetByReference(gateway, reference string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].Gateway == gateway && r.payments[i].Reference == reference {
			p := r.payments[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memPaymentRepository) ListByOrder(orderID string) ([]models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPaymentRepository) Update(p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payments {
		if r.payments[i].ID == p.ID {
			r.payments[i] = *p
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memPaymentRepository) all() []models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Payment(nil), r.payments...)
}
