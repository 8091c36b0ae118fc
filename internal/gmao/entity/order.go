package entity

import "time"

// Order (orden) is the work order derived from an approved request.
// It can only be closed or annulled while open.
type Order struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	Codigo      string `json:"codigo" gorm:"size:32;uniqueIndex;not null"`
	SolicitudID string `json:"id_solicitud" gorm:"size:32;not null;index"`

	IDEstado            int        `json:"id_estado" gorm:"default:1;index"`
	FechaCierre         *time.Time `json:"fecha_cierre"`
	CerradoPor          *string    `json:"cerrado_por" gorm:"size:32"`
	RecibidoPor         string     `json:"recibido_por" gorm:"size:150"`
	RecibidoID          string     `json:"recibido_id" gorm:"size:30"`
	Total               *float64   `json:"total" gorm:"type:decimal(15,2)"`
	ObservacionesCierre string     `json:"observaciones_cierre" gorm:"type:text"`

	CreadoPor string    `json:"creado_por" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	SolicitudCodigo string `json:"solicitud_codigo,omitempty" gorm:"-"`
	CreadorNombre   string `json:"creado_por_nombre,omitempty" gorm:"-"`
}

func (Order) TableName() string {
	return "ordenes"
}

// Order statuses
const (
	OrderStatusAbierta = 1
	OrderStatusCerrada = 2
	OrderStatusAnulada = 3
)

// OrderStatusNames maps the numeric status to its display label.
var OrderStatusNames = map[int]string{
	OrderStatusAbierta: "abierta",
	OrderStatusCerrada: "cerrada",
	OrderStatusAnulada: "anulada",
}
