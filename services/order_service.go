package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropx/dropx-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// sortColumns whitelists the dashboard sort keys and maps them to SQL.
// Prices are stored as text and need a numeric cast to sort correctly.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"scheduled_at": "scheduled_at",
	"price":        "CAST(price AS NUMERIC)",
	"status":       "status",
	"address":      "address",
}

// OrderService implements order creation, listing and role-scoped editing
type OrderService struct {
	db    *gorm.DB
	users *UserService
}

// NewOrderService creates a new order service instance
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, users: NewUserService(db)}
}

// CreateOrderInput carries validated creation fields
type CreateOrderInput struct {
	Address     string
	Target      string
	Phone       string
	ScheduledAt time.Time
	Price       string
	CourierID   string
	Status      models.OrderStatus
}

// Create stores a new order authored by the actor. Only customers create orders,
// and new orders may start as draft or pending.
func (s *OrderService) Create(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	if actor.Role != models.RoleCustomer {
		return nil, ErrForbidden
	}

	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if status != models.StatusDraft && status != models.StatusPending {
		return nil, ErrStatusNotAllowed
	}

	if _, err := s.users.RequireCourier(ctx, in.CourierID); err != nil {
		return nil, err
	}

	courierID := in.CourierID
	order := models.Order{
		Address:     in.Address,
		Target:      in.Target,
		Phone:       in.Phone,
		Status:      status,
		ScheduledAt: in.ScheduledAt.UTC(),
		Price:       in.Price,
		CourierID:   &courierID,
		AuthorID:    actor.UserID,
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return s.load(ctx, order.ID)
}

// Get returns an order the actor may access
func (s *OrderService) Get(ctx context.Context, actor Actor, id string) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, *order) {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOptions are the dashboard table controls
type ListOptions struct {
	Address  string
	Status   models.OrderStatus
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

// Normalize fills defaults and clamps paging values
func (o ListOptions) Normalize() ListOptions {
	if _, ok := sortColumns[o.Sort]; !ok {
		o.Sort = "created_at"
		o.Desc = true
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

// List returns one page of the orders visible to the actor plus the total count
func (s *OrderService) List(ctx context.Context, actor Actor, opts ListOptions) ([]models.Order, int64, error) {
	opts = opts.Normalize()
	scope := ScopeFor(actor)

	filter := func(db *gorm.DB) *gorm.DB {
		if needle := strings.TrimSpace(opts.Address); needle != "" {
			db = db.Where("LOWER(address) LIKE ?", "%"+strings.ToLower(needle)+"%")
		}
		if opts.Status != "" {
			db = db.Where("status = ?", opts.Status)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Scopes(scope.Apply, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Scopes(scope.Apply, filter).
		Preload("Author").
		Preload("Courier").
		Order(sortColumns[opts.Sort] + direction(opts.Desc)).
		Order("id").
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// Update applies a role-scoped edit. The author column is never written.
func (s *OrderService) Update(ctx context.Context, actor Actor, id string, edit OrderEdit) (*models.Order, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := ApplyEdit(actor, *current, edit)
	if err != nil {
		return nil, err
	}

	if !sameID(next.CourierID, current.CourierID) {
		if next.CourierID == nil {
			return nil, ErrInvalidCourier
		}
		if _, err := s.users.RequireCourier(ctx, *next.CourierID); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).
		Model(&models.Order{ID: id}).
		Select("address", "target", "phone", "scheduled_at", "price", "courier_id", "status").
		Updates(&models.Order{
			Address:     next.Address,
			Target:      next.Target,
			Phone:       next.Phone,
			ScheduledAt: next.ScheduledAt,
			Price:       next.Price,
			CourierID:   next.CourierID,
			Status:      next.Status,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	return s.load(ctx, id)
}

// Delete soft-deletes an order. It does nothing unless confirmed is true.
func (s *OrderService) Delete(ctx context.Context, actor Actor, id string, confirmed bool) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !CanDelete(actor, *current) {
		return ErrForbidden
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// SetImage stores the object key of the order photo. Only the author may set it.
func (s *OrderService) SetImage(ctx context.Context, actor Actor, id, key string) (*models.Order, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsAuthor(actor, *current) {
		return nil, ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{ID: id}).Update("image_s3_key", key).Error; err != nil {
		return nil, fmt.Errorf("set order image: %w", err)
	}
	return s.load(ctx, id)
}

func direction(desc bool) string {
	if desc {
		return " DESC"
	}
	return " ASC"
}

func (s *OrderService) load(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Author").Preload("Courier").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}
