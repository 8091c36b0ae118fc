package entity

import "time"

// Equipment is a serviceable asset installed at a site.
type Equipment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	SedeID    string    `json:"id_sede" gorm:"size:32;not null;index"`
	Nombre    string    `json:"nombre" gorm:"size:200;not null"`
	Marca     string    `json:"marca" gorm:"size:100"`
	Modelo    string    `json:"modelo" gorm:"size:100"`
	Serial    string    `json:"serial" gorm:"size:100;index"`
	Categoria string    `json:"categoria" gorm:"size:20;default:correctivo"`
	Activo    bool      `json:"activo" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Equipment) TableName() string {
	return "equipos"
}

// Maintenance categories
const (
	CategoriaCorrectivo  = "correctivo"
	CategoriaPreventivo  = "preventivo"
	CategoriaCalibracion = "calibracion"
)

// ValidCategories is the allowed maintenance-category set.
var ValidCategories = []string{CategoriaCorrectivo, CategoriaPreventivo, CategoriaCalibracion}

// IsValidCategory reports whether categoria is an allowed maintenance category.
func IsValidCategory(categoria string) bool {
	for _, c := range ValidCategories {
		if c == categoria {
			return true
		}
	}
	return false
}
