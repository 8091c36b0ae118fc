package entity

import "time"

// DecommissionRequest (solicitud de baja) asks to retire a piece of
// equipment. Equipment fields are denormalized on purpose: the row must
// survive the equipment being removed from the catalog.
type DecommissionRequest struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	Codigo string `json:"codigo" gorm:"size:32;uniqueIndex;not null"`

	EquipoNombre string `json:"equipo_nombre" gorm:"size:200;not null"`
	EquipoMarca  string `json:"equipo_marca" gorm:"size:100"`
	EquipoModelo string `json:"equipo_modelo" gorm:"size:100"`
	EquipoSerial string `json:"equipo_serial" gorm:"size:100"`

	Justificacion    string  `json:"justificacion" gorm:"type:text;not null"`
	ValorRecuperable float64 `json:"valor_recuperable" gorm:"type:decimal(15,2)"`

	Estado          string     `json:"estado" gorm:"size:20;default:pendiente;index"`
	EvaluadoPor     *string    `json:"evaluado_por" gorm:"size:32"`
	FechaEvaluacion *time.Time `json:"fecha_evaluacion"`
	Recomendaciones string     `json:"recomendaciones" gorm:"type:text"`
	ValorAprobado   *float64   `json:"valor_aprobado" gorm:"type:decimal(15,2)"`
	MotivoRechazo   string     `json:"motivo_rechazo" gorm:"type:text"`

	CreadoPor string    `json:"creado_por" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DecommissionRequest) TableName() string {
	return "solicitudes_baja"
}

// Decommission request statuses
const (
	DecommissionStatusPendiente = "pendiente"
	DecommissionStatusAprobada  = "aprobada"
	DecommissionStatusEjecutada = "ejecutada"
	DecommissionStatusRechazada = "rechazada"
	DecommissionStatusEnProceso = "en_proceso"
)

// ValidDecommissionStatuses is the allowed status set for solicitudes de baja.
var ValidDecommissionStatuses = []string{
	DecommissionStatusPendiente,
	DecommissionStatusAprobada,
	DecommissionStatusEjecutada,
	DecommissionStatusRechazada,
	DecommissionStatusEnProceso,
}
