package entity

import "time"

// User is an operator of the back office. Users are never hard-deleted;
// deactivation flips the Activo flag.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Nombre      string     `json:"nombre" gorm:"size:150;not null"`
	Email       string     `json:"email" gorm:"size:150;uniqueIndex;not null"`
	Clave       string     `json:"-" gorm:"size:100;not null"` // bcrypt hash
	Rol         string     `json:"rol" gorm:"size:20;not null"`
	Activo      bool       `json:"activo" gorm:"default:true"`
	UltimoLogin *time.Time `json:"ultimo_login"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "usuarios"
}

// Roles
const (
	RolAdmin       = "admin"
	RolTecnico     = "tecnico"
	RolAnalista    = "analista"
	RolCoordinador = "coordinador"
	RolComercial   = "comercial"
)

// ValidRoles is the closed role set.
var ValidRoles = []string{RolAdmin, RolTecnico, RolAnalista, RolCoordinador, RolComercial}

// IsValidRole reports whether rol belongs to the closed role set.
func IsValidRole(rol string) bool {
	for _, r := range ValidRoles {
		if r == rol {
			return true
		}
	}
	return false
}
