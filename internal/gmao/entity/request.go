package entity

import "time"

// Request (solicitud) is the initial service request raised against a piece
// of equipment. Status moves pendiente→aprobada or pendiente→rechazada and
// is terminal after that.
type Request struct {
	ID          string  `json:"id" gorm:"primaryKey;size:32"`
	Codigo      string  `json:"codigo" gorm:"size:32;uniqueIndex;not null"`
	ServicioID  int     `json:"id_servicio" gorm:"not null"`
	EquipoID    *string `json:"id_equipo" gorm:"size:32;index"`
	Aviso       string  `json:"aviso" gorm:"size:100"`
	Observacion string  `json:"observacion" gorm:"type:text"`

	IDEstado          int        `json:"id_estado" gorm:"default:1;index"`
	CambioEstado      *time.Time `json:"cambio_estado"`
	CambiadoPor       *string    `json:"cambiado_por" gorm:"size:32"`
	ObservacionCambio string     `json:"observacion_cambio" gorm:"type:text"`

	CreadoPor string    `json:"creado_por" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined display names, filled at read time.
	CreadorNombre string `json:"creado_por_nombre,omitempty" gorm:"-"`
	EquipoNombre  string `json:"equipo_nombre,omitempty" gorm:"-"`
}

func (Request) TableName() string {
	return "solicitudes"
}

// Request statuses
const (
	RequestStatusPendiente = 1
	RequestStatusAprobada  = 2
	RequestStatusRechazada = 3
)

// RequestStatusNames maps the numeric status to its display label.
var RequestStatusNames = map[int]string{
	RequestStatusPendiente: "pendiente",
	RequestStatusAprobada:  "aprobada",
	RequestStatusRechazada: "rechazada",
}
