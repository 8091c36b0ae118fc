package entity

import "time"

// Client owns zero or more sites.
type Client struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Nombre    string    `json:"nombre" gorm:"size:200;not null"`
	Nit       string    `json:"nit" gorm:"size:30;uniqueIndex"`
	Telefono  string    `json:"telefono" gorm:"size:30"`
	Email     string    `json:"email" gorm:"size:150"`
	Direccion string    `json:"direccion" gorm:"size:300"`
	Activo    bool      `json:"activo" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sedes []Site `json:"sedes,omitempty" gorm:"foreignKey:ClienteID"`
}

func (Client) TableName() string {
	return "clientes"
}
