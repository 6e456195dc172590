package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ortega-imprenta/orders-api/models"
)

const folioMaxAttempts = 5

// GenerateFolio builds a human-readable order code: ORD-{YYYYMMDD}-{NNN}
// with a random 3-digit suffix. Collisions are handled by the caller
// regenerating on a unique-constraint violation.
func GenerateFolio(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%03d", now.Format("20060102"), rand.IntN(1000))
}

// CreateOrderInput carries the fields required to open a work order.
type CreateOrderInput struct {
	Client      string
	Phone       string
	Email       string
	WorkType    string
	Priority    string
	DueDate     time.Time
	Description string
	Notes       string
	TotalAmount decimal.Decimal
	CreatedByID uint
}

// CreateOrder validates the input, generates a folio and inserts the order
// with every status at Pendiente. A folio collision regenerates and retries.
func CreateOrder(db *gorm.DB, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.Client) == "" {
		return nil, &ValidationError{Code: "MISSING_CLIENT", Message: "Client is required"}
	}
	if !models.IsValidWorkType(input.WorkType) {
		return nil, &ValidationError{Code: "INVALID_WORK_TYPE", Message: "Work type is not a recognized production category"}
	}
	if input.DueDate.IsZero() {
		return nil, &ValidationError{Code: "MISSING_DUE_DATE", Message: "Due date is required"}
	}
	if input.TotalAmount.IsNegative() {
		return nil, &ValidationError{Code: "INVALID_TOTAL_AMOUNT", Message: "Total amount must not be negative"}
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedia
	}
	if !models.IsValidPriority(priority) {
		return nil, &ValidationError{Code: "INVALID_PRIORITY", Message: "Priority must be Alta, Media or Baja"}
	}

	order := models.Order{
		Client:           strings.TrimSpace(input.Client),
		Phone:            input.Phone,
		Email:            input.Email,
		WorkType:         input.WorkType,
		Status:           models.StatusPendiente,
		ProductionStatus: models.ProductionPendiente,
		DeliveryStatus:   models.DeliveryPendiente,
		Priority:         priority,
		Description:      input.Description,
		Notes:            input.Notes,
		TotalAmount:      input.TotalAmount,
		AdvancePayment:   decimal.Zero,
		DueDate:          input.DueDate,
		CreatedByID:      input.CreatedByID,
	}

	var lastErr error
	for attempt := 0; attempt < folioMaxAttempts; attempt++ {
		order.Folio = GenerateFolio(time.Now())
		if err := db.Create(&order).Error; err != nil {
			if isDuplicateKey(err) {
				lastErr = err
				continue
			}
			return nil, &StoreError{Op: "create order", Err: err}
		}
		publishOrderEvent(&order, "created")
		return &order, nil
	}
	return nil, &StoreError{Op: "create order", Err: fmt.Errorf("could not generate a unique folio: %w", lastErr)}
}

// StartProductionInput identifies the order moved onto the production floor.
type StartProductionInput struct {
	OrderID uint
	ActorID uint
}

// StartProduction moves a pending order into production.
func StartProduction(db *gorm.DB, input StartProductionInput) (*models.Order, error) {
	order, err := findOrder(db, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeliveryTerminal() {
		return nil, &StateError{Code: "ORDER_CLOSED", Message: "Order has already been delivered or cancelled"}
	}
	if order.ProductionStatus == models.ProductionCompletado {
		return nil, &StateError{Code: "PRODUCTION_COMPLETED", Message: "Production has already been completed"}
	}

	updates := map[string]interface{}{
		"status":            models.StatusEnProceso,
		"production_status": models.ProductionEnProceso,
	}
	if err := applyOrderUpdates(db, order, updates); err != nil {
		return nil, err
	}
	publishOrderEvent(order, "production_started")
	return order, nil
}

// CompleteProductionInput identifies the order and the station user that
// finished it.
type CompleteProductionInput struct {
	OrderID uint
	ActorID uint
}

// CompleteProduction marks production finished and moves the order to
// Listo para Entrega. Fails once production is already completed.
func CompleteProduction(db *gorm.DB, input CompleteProductionInput) (*models.Order, error) {
	order, err := findOrder(db, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeliveryTerminal() {
		return nil, &StateError{Code: "ORDER_CLOSED", Message: "Order has already been delivered or cancelled"}
	}
	if order.ProductionStatus == models.ProductionCompletado {
		return nil, &StateError{Code: "PRODUCTION_COMPLETED", Message: "Production has already been completed"}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"production_status": models.ProductionCompletado,
		"completed_at":      now,
		"completed_by_id":   input.ActorID,
		"status":            models.StatusListoParaEntrega,
	}
	if err := applyOrderUpdates(db, order, updates); err != nil {
		return nil, err
	}
	publishOrderEvent(order, "production_completed")
	return order, nil
}

// RegisterPaymentInput carries a payment taken at the register.
type RegisterPaymentInput struct {
	OrderID uint
	ActorID uint
	Amount  decimal.Decimal
	Method  string
}

// PaymentResult reports the refreshed order and whether the payment
// completed the balance and delivered the order in the same update.
type PaymentResult struct {
	Order     *models.Order
	Delivered bool
}

// RegisterPayment adds to the cumulative advance. A payment covering the
// total also performs the deliver transition in the same update, so the
// combined change is atomic at the store layer.
func RegisterPayment(db *gorm.DB, input RegisterPaymentInput) (*PaymentResult, error) {
	if !input.Amount.IsPositive() {
		return nil, &ValidationError{Code: "INVALID_AMOUNT", Message: "Payment amount must be greater than zero"}
	}
	if !models.IsValidPaymentMethod(input.Method) {
		return nil, &ValidationError{Code: "INVALID_PAYMENT_METHOD", Message: "Payment method must be efectivo, tarjeta or transferencia"}
	}

	order, err := findOrder(db, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeliveryTerminal() {
		return nil, &StateError{Code: "ORDER_CLOSED", Message: "Order has already been delivered or cancelled"}
	}

	newAdvance := order.AdvancePayment.Add(input.Amount)
	newBalance := order.TotalAmount.Sub(newAdvance)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}

	updates := map[string]interface{}{
		"advance_payment":   newAdvance,
		"remaining_balance": newBalance,
		"payment_method":    input.Method,
	}

	delivered := newAdvance.GreaterThanOrEqual(order.TotalAmount)
	if delivered {
		now := time.Now()
		updates["delivery_status"] = models.DeliveryEntregado
		updates["delivered_at"] = now
		updates["delivered_by_id"] = input.ActorID
	}

	if err := applyOrderUpdates(db, order, updates); err != nil {
		return nil, err
	}
	if delivered {
		publishOrderEvent(order, "delivered")
	} else {
		publishOrderEvent(order, "payment_registered")
	}
	return &PaymentResult{Order: order, Delivered: delivered}, nil
}

// DeliverInput identifies the order handed over and the cashier doing it.
type DeliverInput struct {
	OrderID uint
	ActorID uint
}

// Deliver hands the order to the client. Rejected while any balance is
// pending; the payment path is the only way to deliver with one call.
func Deliver(db *gorm.DB, input DeliverInput) (*models.Order, error) {
	order, err := findOrder(db, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeliveryTerminal() {
		return nil, &StateError{Code: "ORDER_CLOSED", Message: "Order has already been delivered or cancelled"}
	}
	if order.ComputeRemainingBalance().IsPositive() {
		return nil, &BalanceError{Code: "PENDING_BALANCE", Message: "Order has a pending balance"}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"delivery_status": models.DeliveryEntregado,
		"delivered_at":    now,
		"delivered_by_id": input.ActorID,
	}
	if err := applyOrderUpdates(db, order, updates); err != nil {
		return nil, err
	}
	publishOrderEvent(order, "delivered")
	return order, nil
}

// CancelInput identifies the order being cancelled.
type CancelInput struct {
	OrderID uint
}

// Cancel sets the terminal Cancelado disposition. Cancelled orders are
// never hard-deleted and permit no further transitions.
func Cancel(db *gorm.DB, input CancelInput) (*models.Order, error) {
	order, err := findOrder(db, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeliveryTerminal() {
		return nil, &StateError{Code: "ORDER_CLOSED", Message: "Order has already been delivered or cancelled"}
	}

	updates := map[string]interface{}{
		"delivery_status": models.DeliveryCancelado,
	}
	if err := applyOrderUpdates(db, order, updates); err != nil {
		return nil, err
	}
	publishOrderEvent(order, "cancelled")
	return order, nil
}

func findOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, &StoreError{Op: "load order", Err: err}
	}
	return &order, nil
}

// applyOrderUpdates sends the transition as a single update call and
// refreshes the model from the store.
func applyOrderUpdates(db *gorm.DB, order *models.Order, updates map[string]interface{}) error {
	if err := db.Model(order).Updates(updates).Error; err != nil {
		return &StoreError{Op: "update order", Err: err}
	}
	if err := db.First(order, order.ID).Error; err != nil {
		return &StoreError{Op: "reload order", Err: err}
	}
	return nil
}

func publishOrderEvent(order *models.Order, action string) {
	events := GetEventsService()
	if events == nil {
		return
	}
	if err := events.PublishOrderEvent(OrderEvent{
		OrderID: order.ID,
		Folio:   order.Folio,
		Action:  action,
	}); err != nil {
		log.Warn().Err(err).Str("folio", order.Folio).Str("action", action).Msg("failed to publish order event")
	}
}

// isDuplicateKey detects unique-constraint violations for both PostgreSQL
// and SQLite without driver-specific error types.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
