package entity

import "time"

// Visit (visita) is a scheduled on-site visit tied to an order.
// pendiente→abierta (approve), pendiente→rechazada, abierta→cerrada.
// Field edits are allowed only while pendiente.
type Visit struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	OrdenID         string     `json:"id_orden" gorm:"size:32;not null;index"`
	ResponsableID   string     `json:"id_responsable" gorm:"size:32;not null"`
	FechaProgramada *time.Time `json:"fecha_programada"`
	DuracionHoras   *float64   `json:"duracion_horas" gorm:"type:decimal(5,2)"`
	Observacion     string     `json:"observacion" gorm:"type:text"`

	IDEstado int `json:"id_estado" gorm:"default:1;index"`

	AprobadoPor     *string    `json:"aprobado_por" gorm:"size:32"`
	FechaAprobacion *time.Time `json:"fecha_aprobacion"`

	RechazadoPor  *string    `json:"rechazado_por" gorm:"size:32"`
	FechaRechazo  *time.Time `json:"fecha_rechazo"`
	MotivoRechazo string     `json:"motivo_rechazo" gorm:"type:text"`

	CerradoPor          *string    `json:"cerrado_por" gorm:"size:32"`
	FechaCierre         *time.Time `json:"fecha_cierre"`
	ObservacionesCierre string     `json:"observaciones_cierre" gorm:"type:text"`

	CreadoPor string    `json:"creado_por" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	ResponsableNombre string `json:"responsable_nombre,omitempty" gorm:"-"`
	OrdenCodigo       string `json:"orden_codigo,omitempty" gorm:"-"`
}

func (Visit) TableName() string {
	return "visitas"
}

// Visit statuses
const (
	VisitStatusPendiente = 1
	VisitStatusAbierta   = 2
	VisitStatusCerrada   = 3
	VisitStatusRechazada = 4
)

// VisitStatusNames maps the numeric status to its display label.
var VisitStatusNames = map[int]string{
	VisitStatusPendiente: "pendiente",
	VisitStatusAbierta:   "abierta",
	VisitStatusCerrada:   "cerrada",
	VisitStatusRechazada: "rechazada",
}
