package entity

import "time"

// Quotation (cotización) is a priced proposal tied to a client and
// optionally an order, subject to approval.
type Quotation struct {
	ID        string  `json:"id" gorm:"primaryKey;size:32"`
	Codigo    string  `json:"codigo" gorm:"size:32;uniqueIndex;not null"`
	ClienteID string  `json:"id_cliente" gorm:"size:32;not null;index"`
	OrdenID   *string `json:"id_orden" gorm:"size:32;index"`

	Mensaje     string  `json:"mensaje" gorm:"type:text"`
	Condiciones string  `json:"condiciones" gorm:"type:text"`
	Total       float64 `json:"total" gorm:"type:decimal(15,2);not null"`

	IDEstado            int        `json:"id_estado" gorm:"default:1;index"`
	DecididoPor         *string    `json:"decidido_por" gorm:"size:32"`
	FechaDecision       *time.Time `json:"fecha_decision"`
	ObservacionDecision string     `json:"observacion_decision" gorm:"type:text"`

	CreadoPor string    `json:"creado_por" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	ClienteNombre string `json:"cliente_nombre,omitempty" gorm:"-"`
}

func (Quotation) TableName() string {
	return "cotizaciones"
}

// Quotation statuses
const (
	QuotationStatusPendiente = 1
	QuotationStatusAprobada  = 2
	QuotationStatusRechazada = 3
)

// QuotationStatusNames maps the numeric status to its display label.
var QuotationStatusNames = map[int]string{
	QuotationStatusPendiente: "pendiente",
	QuotationStatusAprobada:  "aprobada",
	QuotationStatusRechazada: "rechazada",
}
