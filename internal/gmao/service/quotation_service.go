package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// QuotationService manages quotations (cotizaciones).
type QuotationService struct {
	quotationRepo *repository.QuotationRepository
	clientRepo    *repository.ClientRepository
	orderRepo     *repository.OrderRepository
	noveltyRepo   *repository.NoveltyRepository
}

func NewQuotationService(quotationRepo *repository.QuotationRepository, clientRepo *repository.ClientRepository, orderRepo *repository.OrderRepository, noveltyRepo *repository.NoveltyRepository) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		clientRepo:    clientRepo,
		orderRepo:     orderRepo,
		noveltyRepo:   noveltyRepo,
	}
}

func (s *QuotationService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Quotation, int64, error) {
	return s.quotationRepo.FindAll(ctx, page, limit, filters)
}

// Get loads one quotation and resolves the client name.
func (s *QuotationService) Get(ctx context.Context, id string) (*entity.Quotation, error) {
	quo, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client, err := s.clientRepo.FindByID(ctx, quo.ClienteID); err == nil {
		quo.ClienteNombre = client.Nombre
	}
	return quo, nil
}

// CreateQuotationData is the quotation-creation payload.
type CreateQuotationData struct {
	ClienteID   string  `json:"id_cliente" binding:"required"`
	OrdenID     *string `json:"id_orden"`
	Mensaje     string  `json:"mensaje"`
	Condiciones string  `json:"condiciones"`
	Total       float64 `json:"total" binding:"required,gt=0"`
}

func (s *QuotationService) Create(ctx context.Context, userID string, data *CreateQuotationData) (*entity.Quotation, error) {
	if _, err := s.clientRepo.FindByID(ctx, data.ClienteID); err != nil {
		return nil, err
	}
	if data.OrdenID != nil {
		if _, err := s.orderRepo.FindByID(ctx, *data.OrdenID); err != nil {
			return nil, err
		}
	}

	code, err := s.quotationRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation code: %w", err)
	}

	quo := &entity.Quotation{
		ID:          uuid.New().String()[:32],
		Codigo:      code,
		ClienteID:   data.ClienteID,
		OrdenID:     data.OrdenID,
		Mensaje:     data.Mensaje,
		Condiciones: data.Condiciones,
		Total:       data.Total,
		IDEstado:    entity.QuotationStatusPendiente,
		CreadoPor:   userID,
	}
	if err := s.quotationRepo.Create(ctx, quo); err != nil {
		return nil, err
	}

	s.noveltyRepo.LogNovelty(ctx, "cotizacion", quo.ID, quo.Codigo, "create",
		"", entity.QuotationStatusNames[quo.IDEstado],
		fmt.Sprintf("cotización creada por %.2f", quo.Total), userID, "")

	return quo, nil
}

// Decide moves a pending quotation to aprobada or rechazada.
func (s *QuotationService) Decide(ctx context.Context, id, userID string, data *ChangeStatusData) (*entity.Quotation, error) {
	if data.IDEstado != entity.QuotationStatusAprobada && data.IDEstado != entity.QuotationStatusRechazada {
		return nil, NewValidationError("estado inválido: %d", data.IDEstado)
	}

	quo, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"id_estado":            data.IDEstado,
		"decidido_por":         userID,
		"fecha_decision":       now,
		"observacion_decision": data.Observacion,
	}
	ok, err := s.quotationRepo.UpdateStatusGuarded(ctx, id, entity.QuotationStatusPendiente, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden decidir cotizaciones pendientes")
	}

	s.noveltyRepo.LogNovelty(ctx, "cotizacion", quo.ID, quo.Codigo, "status_change",
		entity.QuotationStatusNames[entity.QuotationStatusPendiente], entity.QuotationStatusNames[data.IDEstado],
		data.Observacion, userID, "")

	return s.quotationRepo.FindByID(ctx, id)
}

// Stats returns the dashboard aggregate for quotations.
func (s *QuotationService) Stats(ctx context.Context) (*repository.QuotationStats, error) {
	return s.quotationRepo.Stats(ctx)
}
