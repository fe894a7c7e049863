package services

import (
	"slices"
	"time"

	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/utils"
	"gorm.io/gorm"
)

// Actor is the authenticated user an operation runs on behalf of.
// It is passed explicitly so that permission checks stay pure.
type Actor struct {
	UserID string
	Role   models.Role
}

// Field names an editable order field as it appears on the wire
type Field string

const (
	FieldAddress     Field = "address"
	FieldTarget      Field = "target"
	FieldPhone       Field = "phone"
	FieldScheduledAt Field = "scheduled_at"
	FieldPrice       Field = "price"
	FieldCourier     Field = "courier_id"
	FieldStatus      Field = "status"
)

// courierReadOnly is the field set a courier sees disabled in the editor
var courierReadOnly = []Field{FieldAddress, FieldTarget, FieldPhone, FieldScheduledAt, FieldPrice, FieldCourier}

// EditorView describes how the order editor is rendered for a role
type EditorView struct {
	EditableFields []Field              `json:"editable_fields"`
	ReadOnlyFields []Field              `json:"read_only_fields"`
	Statuses       []models.OrderStatus `json:"statuses"`
}

// EditorFor returns the editor layout for a role. Couriers may only change the
// status and never get the draft option.
func EditorFor(role models.Role) EditorView {
	if role.IsCourier() {
		return EditorView{
			EditableFields: []Field{FieldStatus},
			ReadOnlyFields: slices.Clone(courierReadOnly),
			Statuses:       SelectableStatuses(role),
		}
	}

	return EditorView{
		EditableFields: append(slices.Clone(courierReadOnly), FieldStatus),
		ReadOnlyFields: []Field{},
		Statuses:       SelectableStatuses(role),
	}
}

// SelectableStatuses is the status option list offered to a role
func SelectableStatuses(role models.Role) []models.OrderStatus {
	all := models.AllStatuses()
	if !role.IsCourier() {
		return all
	}
	return slices.DeleteFunc(all, func(s models.OrderStatus) bool { return s == models.StatusDraft })
}

// CanAccess reports whether the actor may view and edit the order:
// customers their own orders, couriers the orders assigned to them.
func CanAccess(actor Actor, order models.Order) bool {
	switch actor.Role {
	case models.RoleCustomer:
		return order.AuthorID == actor.UserID
	case models.RoleCourier:
		return order.CourierID != nil && *order.CourierID == actor.UserID
	}
	return false
}

// IsAuthor reports whether the actor created the order
func IsAuthor(actor Actor, order models.Order) bool {
	return actor.Role == models.RoleCustomer && order.AuthorID == actor.UserID
}

// CanDelete reports whether the actor may delete the order. Only the author can.
func CanDelete(actor Actor, order models.Order) bool {
	return IsAuthor(actor, order)
}

// OrderEdit is the full field set submitted by the order editor, already
// normalized (UTC schedule, canonical price, parsed status).
type OrderEdit struct {
	Address     string
	Target      string
	Phone       string
	ScheduledAt time.Time
	Price       string
	CourierID   *string
	Status      models.OrderStatus
}

// ApplyEdit computes the order that results from the actor submitting edit.
// The author is always carried over from current.
func ApplyEdit(actor Actor, current models.Order, edit OrderEdit) (models.Order, error) {
	if !CanAccess(actor, current) {
		return models.Order{}, ErrForbidden
	}
	if !edit.Status.Valid() {
		return models.Order{}, models.ErrInvalidStatus
	}

	if actor.Role.IsCourier() {
		if changed := changedFields(current, edit); len(changed) > 0 {
			return models.Order{}, &ReadOnlyFieldError{Fields: changed}
		}
	}

	// resubmitting the current status is always fine
	if edit.Status != current.Status && !slices.Contains(SelectableStatuses(actor.Role), edit.Status) {
		return models.Order{}, ErrStatusNotAllowed
	}

	next := current
	next.Status = edit.Status
	if actor.Role.IsCourier() {
		return next, nil
	}

	next.Address = edit.Address
	next.Target = edit.Target
	next.Phone = edit.Phone
	next.ScheduledAt = edit.ScheduledAt.UTC()
	next.Price = edit.Price
	next.CourierID = edit.CourierID
	return next, nil
}

// changedFields lists the courier read-only fields that differ between the stored order and the edit
func changedFields(current models.Order, edit OrderEdit) []Field {
	var changed []Field
	if edit.Address != current.Address {
		changed = append(changed, FieldAddress)
	}
	if edit.Target != current.Target {
		changed = append(changed, FieldTarget)
	}
	if edit.Phone != current.Phone {
		changed = append(changed, FieldPhone)
	}
	if !edit.ScheduledAt.Equal(current.ScheduledAt) {
		changed = append(changed, FieldScheduledAt)
	}
	if !utils.SamePrice(edit.Price, current.Price) {
		changed = append(changed, FieldPrice)
	}
	if !sameID(edit.CourierID, current.CourierID) {
		changed = append(changed, FieldCourier)
	}
	return changed
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// OrderScope restricts order queries to what an actor may see
type OrderScope struct {
	Column string
	UserID string
}

// ScopeFor picks the column that ties an order to the actor: the courier
// assignment for couriers, the author for everybody else.
func ScopeFor(actor Actor) OrderScope {
	if actor.Role.IsCourier() {
		return OrderScope{Column: "courier_id", UserID: actor.UserID}
	}
	return OrderScope{Column: "author_id", UserID: actor.UserID}
}

// Apply is a gorm scope
func (s OrderScope) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(s.Column+" = ?", s.UserID)
}
