package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// OrderService manages work orders (órdenes).
type OrderService struct {
	orderRepo   *repository.OrderRepository
	requestRepo *repository.RequestRepository
	noveltyRepo *repository.NoveltyRepository
}

func NewOrderService(orderRepo *repository.OrderRepository, requestRepo *repository.RequestRepository, noveltyRepo *repository.NoveltyRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
		noveltyRepo: noveltyRepo,
	}
}

func (s *OrderService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Order, int64, error) {
	return s.orderRepo.FindAll(ctx, page, limit, filters)
}

// Get loads one order and resolves its request code.
func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req, err := s.requestRepo.FindByID(ctx, order.SolicitudID); err == nil {
		order.SolicitudCodigo = req.Codigo
	}
	return order, nil
}

// CreateOrderData is the order-creation payload.
type CreateOrderData struct {
	SolicitudID string `json:"id_solicitud" binding:"required"`
	RecibidoPor string `json:"recibido_por"`
	RecibidoID  string `json:"recibido_id"`
}

// Create opens a work order from an approved request.
func (s *OrderService) Create(ctx context.Context, userID string, data *CreateOrderData) (*entity.Order, error) {
	req, err := s.requestRepo.FindByID(ctx, data.SolicitudID)
	if err != nil {
		return nil, err
	}
	if req.IDEstado != entity.RequestStatusAprobada {
		return nil, NewStateError("solo se pueden crear órdenes desde solicitudes aprobadas")
	}

	code, err := s.orderRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order code: %w", err)
	}

	order := &entity.Order{
		ID:          uuid.New().String()[:32],
		Codigo:      code,
		SolicitudID: req.ID,
		IDEstado:    entity.OrderStatusAbierta,
		RecibidoPor: data.RecibidoPor,
		RecibidoID:  data.RecibidoID,
		CreadoPor:   userID,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.noveltyRepo.LogNovelty(ctx, "orden", order.ID, order.Codigo, "create",
		"", entity.OrderStatusNames[order.IDEstado],
		fmt.Sprintf("orden creada desde solicitud %s", req.Codigo), userID, "")

	return order, nil
}

// CloseOrderData is the closing payload.
type CloseOrderData struct {
	Total               *float64 `json:"total"`
	RecibidoPor         string   `json:"recibido_por"`
	RecibidoID          string   `json:"recibido_id"`
	ObservacionesCierre string   `json:"observaciones_cierre"`
}

// Close moves an open order to cerrada, stamping the closing metadata. The
// guarded update rejects a second close with a state error.
func (s *OrderService) Close(ctx context.Context, id, userID string, data *CloseOrderData) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"id_estado":            entity.OrderStatusCerrada,
		"fecha_cierre":         now,
		"cerrado_por":          userID,
		"observaciones_cierre": data.ObservacionesCierre,
	}
	if data.Total != nil {
		updates["total"] = *data.Total
	}
	if data.RecibidoPor != "" {
		updates["recibido_por"] = data.RecibidoPor
	}
	if data.RecibidoID != "" {
		updates["recibido_id"] = data.RecibidoID
	}

	ok, err := s.orderRepo.UpdateStatusGuarded(ctx, id, entity.OrderStatusAbierta, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden cerrar órdenes que estén abiertas")
	}

	s.noveltyRepo.LogNovelty(ctx, "orden", order.ID, order.Codigo, "close",
		entity.OrderStatusNames[entity.OrderStatusAbierta], entity.OrderStatusNames[entity.OrderStatusCerrada],
		data.ObservacionesCierre, userID, "")

	return s.orderRepo.FindByID(ctx, id)
}

// ChangeStatus handles the generic transition endpoint. Only anulada is
// reachable through it; closing carries mandatory metadata and has its own
// operation.
func (s *OrderService) ChangeStatus(ctx context.Context, id, userID string, data *ChangeStatusData) (*entity.Order, error) {
	if data.IDEstado != entity.OrderStatusAnulada {
		return nil, NewValidationError("estado inválido: %d", data.IDEstado)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"id_estado": entity.OrderStatusAnulada,
	}
	ok, err := s.orderRepo.UpdateStatusGuarded(ctx, id, entity.OrderStatusAbierta, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden anular órdenes que estén abiertas")
	}

	s.noveltyRepo.LogNovelty(ctx, "orden", order.ID, order.Codigo, "status_change",
		entity.OrderStatusNames[entity.OrderStatusAbierta], entity.OrderStatusNames[entity.OrderStatusAnulada],
		data.Observacion, userID, "")

	return s.orderRepo.FindByID(ctx, id)
}

// Stats returns the dashboard aggregate for orders.
func (s *OrderService) Stats(ctx context.Context) (*repository.OrderStats, error) {
	return s.orderRepo.Stats(ctx)
}
