package entity

import "time"

// Novelty (novedad) is an audit row attached to a workflow entity. One row
// is appended on creation and on every status transition.
type Novelty struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	EntityType string `json:"entity_type" gorm:"size:50;not null;index:idx_novedades_entity"` // solicitud/orden/visita/cotizacion/bodega/baja
	EntityID   string `json:"entity_id" gorm:"size:32;not null;index:idx_novedades_entity"`
	EntityCode string `json:"entity_code" gorm:"size:50"`

	Accion         string `json:"accion" gorm:"size:50;not null"` // create/status_change/close/dispatch...
	EstadoAnterior string `json:"estado_anterior" gorm:"size:20"`
	EstadoNuevo    string `json:"estado_nuevo" gorm:"size:20"`

	Contenido string `json:"contenido" gorm:"type:text"`

	OperadorID     string    `json:"operador_id" gorm:"size:32"`
	OperadorNombre string    `json:"operador_nombre" gorm:"size:150"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Novelty) TableName() string {
	return "novedades"
}
