package entity

import "time"

// WarehouseRequest (solicitud de bodega) is a parts/materials request tied
// to a service event. Each transition stamps its own actor/timestamp pair
// and appends a novelty row.
type WarehouseRequest struct {
	ID        string  `json:"id" gorm:"primaryKey;size:32"`
	Codigo    string  `json:"codigo" gorm:"size:32;uniqueIndex;not null"`
	ClienteID *string `json:"id_cliente" gorm:"size:32;index"`
	SedeID    *string `json:"id_sede" gorm:"size:32"`
	EquipoID  *string `json:"id_equipo" gorm:"size:32"`
	OrdenID   *string `json:"id_orden" gorm:"size:32;index"`

	Estado      string `json:"estado" gorm:"size:20;default:pendiente;index"`
	Observacion string `json:"observacion" gorm:"type:text"`

	AprobadaPor     *string    `json:"aprobada_por" gorm:"size:32"`
	FechaAprobacion *time.Time `json:"fecha_aprobacion"`

	DespachadaPor *string    `json:"despachada_por" gorm:"size:32"`
	FechaDespacho *time.Time `json:"fecha_despacho"`

	TerminadaPor *string    `json:"terminada_por" gorm:"size:32"`
	FechaTermino *time.Time `json:"fecha_termino"`

	RechazadaPor  *string    `json:"rechazada_por" gorm:"size:32"`
	FechaRechazo  *time.Time `json:"fecha_rechazo"`
	MotivoRechazo string     `json:"motivo_rechazo" gorm:"type:text"`

	CreadoPor string    `json:"creado_por" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Repuestos   []WarehousePart  `json:"repuestos,omitempty" gorm:"foreignKey:SolicitudID"`
	Adicionales []WarehouseExtra `json:"adicionales,omitempty" gorm:"foreignKey:SolicitudID"`

	ClienteNombre string `json:"cliente_nombre,omitempty" gorm:"-"`
}

func (WarehouseRequest) TableName() string {
	return "solicitudes_bodega"
}

// WarehousePart is a requested spare-part line.
type WarehousePart struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	SolicitudID string    `json:"id_solicitud" gorm:"size:32;not null;index"`
	Codigo      string    `json:"codigo" gorm:"size:50"`
	Descripcion string    `json:"descripcion" gorm:"size:300;not null"`
	Cantidad    float64   `json:"cantidad" gorm:"type:decimal(10,2);not null"`
	Unidad      string    `json:"unidad" gorm:"size:20;default:und"`
	CreatedAt   time.Time `json:"created_at"`
}

func (WarehousePart) TableName() string {
	return "solicitud_bodega_repuestos"
}

// WarehouseExtra is an additional non-catalog item line.
type WarehouseExtra struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	SolicitudID string    `json:"id_solicitud" gorm:"size:32;not null;index"`
	Descripcion string    `json:"descripcion" gorm:"size:300;not null"`
	Cantidad    float64   `json:"cantidad" gorm:"type:decimal(10,2);not null"`
	Notas       string    `json:"notas" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (WarehouseExtra) TableName() string {
	return "solicitud_bodega_adicionales"
}

// Warehouse request statuses
const (
	WarehouseStatusPendiente  = "pendiente"
	WarehouseStatusAprobada   = "aprobada"
	WarehouseStatusDespachada = "despachada"
	WarehouseStatusTerminada  = "terminada"
	WarehouseStatusRechazada  = "rechazada"
)

// ValidWarehouseTransitions lists the reachable target statuses per current
// status. Absent keys are terminal.
var ValidWarehouseTransitions = map[string][]string{
	WarehouseStatusPendiente:  {WarehouseStatusAprobada, WarehouseStatusRechazada},
	WarehouseStatusAprobada:   {WarehouseStatusDespachada},
	WarehouseStatusDespachada: {WarehouseStatusTerminada},
}
