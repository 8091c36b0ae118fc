package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories holds every data-access component.
type Repositories struct {
	User         *UserRepository
	Client       *ClientRepository
	Site         *SiteRepository
	Equipment    *EquipmentRepository
	Request      *RequestRepository
	Order        *OrderRepository
	Visit        *VisitRepository
	Quotation    *QuotationRepository
	Warehouse    *WarehouseRepository
	Decommission *DecommissionRepository
	Novelty      *NoveltyRepository
}

// NewRepositories wires every repository onto the shared gorm handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Site:         NewSiteRepository(db),
		Equipment:    NewEquipmentRepository(db),
		Request:      NewRequestRepository(db),
		Order:        NewOrderRepository(db),
		Visit:        NewVisitRepository(db),
		Quotation:    NewQuotationRepository(db),
		Warehouse:    NewWarehouseRepository(db),
		Decommission: NewDecommissionRepository(db),
		Novelty:      NewNoveltyRepository(db),
	}
}

// applyOrder validates caller-supplied sort columns against the repository's
// allow-list; anything else falls back to newest-first. The column name is
// never interpolated unless it passed the allow-list.
func applyOrder(query *gorm.DB, filters map[string]string, allowed map[string]bool) *gorm.DB {
	col := filters["sort_by"]
	if col == "" || !allowed[col] {
		return query.Order("created_at DESC")
	}
	dir := "ASC"
	if strings.EqualFold(filters["sort_dir"], "desc") {
		dir = "DESC"
	}
	return query.Order(col + " " + dir)
}

// applyDateRange filters on the creation timestamp. Dates are parsed as
// ISO dates (2006-01-02); hasta is inclusive of the whole day.
func applyDateRange(query *gorm.DB, filters map[string]string) *gorm.DB {
	if desde := filters["desde"]; desde != "" {
		if t, err := time.Parse("2006-01-02", desde); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if hasta := filters["hasta"]; hasta != "" {
		if t, err := time.Parse("2006-01-02", hasta); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}
	return query
}

// nextCode generates the next sequential entity code with the pattern
// <prefix>-<year>-<4 digits>, scanning MAX(codigo) for the current year.
func nextCode(ctx context.Context, db *gorm.DB, model interface{}, prefix string) (string, error) {
	year := time.Now().Format("2006")
	like := fmt.Sprintf("%s-%s-", prefix, year)

	var maxCode string
	err := db.WithContext(ctx).
		Model(model).
		Select("COALESCE(MAX(codigo), '')").
		Where("codigo LIKE ?", like+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, prefix+"-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("%s-%s-%04d", prefix, year, seq), nil
}
