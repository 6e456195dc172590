package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order status values as shown on the dashboards.
const (
	StatusPendiente        = "Pendiente"
	StatusEnProceso        = "En Proceso"
	StatusCompletado       = "Completado"
	StatusListoParaEntrega = "Listo para Entrega"
	StatusEntregado        = "Entregado"
)

// Production status values.
const (
	ProductionPendiente  = "Pendiente"
	ProductionEnProceso  = "En Proceso"
	ProductionCompletado = "Completado"
)

// Delivery status values. Entregado and Cancelado are terminal.
const (
	DeliveryPendiente = "Pendiente"
	DeliveryEntregado = "Entregado"
	DeliveryCancelado = "Cancelado"
)

// Priority values.
const (
	PriorityAlta  = "Alta"
	PriorityMedia = "Media"
	PriorityBaja  = "Baja"
)

// Payment methods accepted at the register.
const (
	PaymentEfectivo      = "efectivo"
	PaymentTarjeta       = "tarjeta"
	PaymentTransferencia = "transferencia"
)

// Work types, matching the production areas of the shop.
const (
	WorkTypeLonas          = "Impresión de Lonas"
	WorkTypeVinilImpresion = "Impresión de Vinil"
	WorkTypeVinilCorte     = "Vinil de Corte"
	WorkTypeSublimacion    = "Sublimación"
	WorkTypePloteo         = "Ploteo"
)

// WorkTypeFolders maps each work type to the production folder files are
// organized under in object storage.
var WorkTypeFolders = map[string]string{
	WorkTypeLonas:          "Lonas",
	WorkTypeVinilImpresion: "Vinil_Impresion",
	WorkTypeVinilCorte:     "Vinil_Corte",
	WorkTypeSublimacion:    "Sublimacion",
	WorkTypePloteo:         "Ploteo",
}

// IsValidWorkType reports whether the work type is one of the production categories.
func IsValidWorkType(workType string) bool {
	_, ok := WorkTypeFolders[workType]
	return ok
}

// IsValidPaymentMethod reports whether the payment method is accepted.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentEfectivo, PaymentTarjeta, PaymentTransferencia:
		return true
	}
	return false
}

// IsValidPriority reports whether the priority is one of Alta/Media/Baja.
func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityAlta, PriorityMedia, PriorityBaja:
		return true
	}
	return false
}

// Order represents a print-shop work order
type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Folio            string          `gorm:"uniqueIndex;not null" json:"folio"`
	Client           string          `gorm:"not null" json:"client"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	WorkType         string          `gorm:"not null" json:"work_type"`
	Status           string          `gorm:"not null;default:'Pendiente'" json:"status"`
	ProductionStatus string          `gorm:"not null;default:'Pendiente'" json:"production_status"`
	DeliveryStatus   string          `gorm:"not null;default:'Pendiente'" json:"delivery_status"`
	Priority         string          `gorm:"not null;default:'Media'" json:"priority"`
	Description      string          `gorm:"type:text" json:"description"`
	Notes            string          `gorm:"type:text" json:"notes"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	AdvancePayment   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"advance_payment"`
	RemainingBalance decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"remaining_balance"` // cache of ComputeRemainingBalance, refreshed on every write
	PaymentMethod    *string         `json:"payment_method"`
	DueDate          time.Time       `gorm:"not null" json:"due_date"`
	DeliveredAt      *time.Time      `json:"delivered_at"`
	CompletedAt      *time.Time      `json:"completed_at"`
	CreatedByID      uint            `gorm:"not null;index" json:"created_by_id"`
	CreatedBy        Profile         `gorm:"foreignKey:CreatedByID" json:"created_by"`
	DeliveredByID    *uint           `gorm:"index" json:"delivered_by_id"`
	DeliveredBy      *Profile        `gorm:"foreignKey:DeliveredByID" json:"delivered_by,omitempty"`
	CompletedByID    *uint           `gorm:"index" json:"completed_by_id"`
	CompletedBy      *Profile        `gorm:"foreignKey:CompletedByID" json:"completed_by,omitempty"`
	Files            []OrderFile     `gorm:"foreignKey:OrderID" json:"files,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ComputeRemainingBalance derives the balance still owed on the order.
// It is always total_amount - advance_payment, floored at zero so an
// overpayment never shows a negative balance.
func (o *Order) ComputeRemainingBalance() decimal.Decimal {
	balance := o.TotalAmount.Sub(o.AdvancePayment)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// BeforeCreate keeps the stored remaining_balance consistent on insert.
// Updates recompute it explicitly in their update sets.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.RemainingBalance = o.ComputeRemainingBalance()
	return nil
}

// IsDeliveryTerminal reports whether the order reached a terminal
// delivery disposition (delivered or cancelled).
func (o *Order) IsDeliveryTerminal() bool {
	return o.DeliveryStatus == DeliveryEntregado || o.DeliveryStatus == DeliveryCancelado
}
