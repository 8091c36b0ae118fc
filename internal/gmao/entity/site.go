package entity

import "time"

// Site is a client location where equipment is installed.
type Site struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ClienteID string    `json:"id_cliente" gorm:"size:32;not null;index"`
	Nombre    string    `json:"nombre" gorm:"size:200;not null"`
	Direccion string    `json:"direccion" gorm:"size:300"`
	Contacto  string    `json:"contacto" gorm:"size:150"`
	Telefono  string    `json:"telefono" gorm:"size:30"`
	Activo    bool      `json:"activo" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Equipos []Equipment `json:"equipos,omitempty" gorm:"foreignKey:SedeID"`
}

func (Site) TableName() string {
	return "sedes"
}
