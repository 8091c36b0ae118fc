package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// WarehouseService manages warehouse requests (solicitudes de bodega) and
// their pendiente→aprobada→despachada→terminada chain.
type WarehouseService struct {
	warehouseRepo *repository.WarehouseRepository
	clientRepo    *repository.ClientRepository
	orderRepo     *repository.OrderRepository
	noveltyRepo   *repository.NoveltyRepository
}

func NewWarehouseService(warehouseRepo *repository.WarehouseRepository, clientRepo *repository.ClientRepository, orderRepo *repository.OrderRepository, noveltyRepo *repository.NoveltyRepository) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		clientRepo:    clientRepo,
		orderRepo:     orderRepo,
		noveltyRepo:   noveltyRepo,
	}
}

func (s *WarehouseService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.WarehouseRequest, int64, error) {
	return s.warehouseRepo.FindAll(ctx, page, limit, filters)
}

// Get loads one warehouse request with its lines and the client name.
func (s *WarehouseService) Get(ctx context.Context, id string) (*entity.WarehouseRequest, error) {
	req, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClienteID != nil {
		if client, err := s.clientRepo.FindByID(ctx, *req.ClienteID); err == nil {
			req.ClienteNombre = client.Nombre
		}
	}
	return req, nil
}

// WarehousePartData is one requested spare-part line.
type WarehousePartData struct {
	Codigo      string  `json:"codigo"`
	Descripcion string  `json:"descripcion" binding:"required"`
	Cantidad    float64 `json:"cantidad" binding:"required,gt=0"`
	Unidad      string  `json:"unidad"`
}

// WarehouseExtraData is one additional non-catalog item line.
type WarehouseExtraData struct {
	Descripcion string  `json:"descripcion" binding:"required"`
	Cantidad    float64 `json:"cantidad" binding:"required,gt=0"`
	Notas       string  `json:"notas"`
}

// CreateWarehouseData is the warehouse-request payload.
type CreateWarehouseData struct {
	ClienteID   *string              `json:"id_cliente"`
	SedeID      *string              `json:"id_sede"`
	EquipoID    *string              `json:"id_equipo"`
	OrdenID     *string              `json:"id_orden"`
	Observacion string               `json:"observacion"`
	Repuestos   []WarehousePartData  `json:"repuestos"`
	Adicionales []WarehouseExtraData `json:"adicionales"`
}

// Create opens a warehouse request with its line items in one insert.
func (s *WarehouseService) Create(ctx context.Context, userID string, data *CreateWarehouseData) (*entity.WarehouseRequest, error) {
	if len(data.Repuestos) == 0 && len(data.Adicionales) == 0 {
		return nil, NewValidationError("la solicitud debe incluir al menos un repuesto o adicional")
	}
	if data.ClienteID != nil {
		if _, err := s.clientRepo.FindByID(ctx, *data.ClienteID); err != nil {
			return nil, err
		}
	}
	if data.OrdenID != nil {
		if _, err := s.orderRepo.FindByID(ctx, *data.OrdenID); err != nil {
			return nil, err
		}
	}

	code, err := s.warehouseRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate warehouse request code: %w", err)
	}

	req := &entity.WarehouseRequest{
		ID:          uuid.New().String()[:32],
		Codigo:      code,
		ClienteID:   data.ClienteID,
		SedeID:      data.SedeID,
		EquipoID:    data.EquipoID,
		OrdenID:     data.OrdenID,
		Estado:      entity.WarehouseStatusPendiente,
		Observacion: data.Observacion,
		CreadoPor:   userID,
	}
	for _, p := range data.Repuestos {
		unidad := p.Unidad
		if unidad == "" {
			unidad = "und"
		}
		req.Repuestos = append(req.Repuestos, entity.WarehousePart{
			ID:          uuid.New().String()[:32],
			SolicitudID: req.ID,
			Codigo:      p.Codigo,
			Descripcion: p.Descripcion,
			Cantidad:    p.Cantidad,
			Unidad:      unidad,
		})
	}
	for _, a := range data.Adicionales {
		req.Adicionales = append(req.Adicionales, entity.WarehouseExtra{
			ID:          uuid.New().String()[:32],
			SolicitudID: req.ID,
			Descripcion: a.Descripcion,
			Cantidad:    a.Cantidad,
			Notas:       a.Notas,
		})
	}

	if err := s.warehouseRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.noveltyRepo.LogNovelty(ctx, "bodega", req.ID, req.Codigo, "create",
		"", req.Estado,
		fmt.Sprintf("solicitud de bodega creada con %d repuestos y %d adicionales",
			len(req.Repuestos), len(req.Adicionales)), userID, "")

	return req, nil
}

// TransitionWarehouseData is the transition payload. Motivo is required only
// when rejecting.
type TransitionWarehouseData struct {
	Estado string `json:"estado" binding:"required"`
	Motivo string `json:"motivo"`
}

// Transition moves a warehouse request along its chain, stamping the
// actor/timestamp pair of the step taken.
func (s *WarehouseService) Transition(ctx context.Context, id, userID string, data *TransitionWarehouseData) (*entity.WarehouseRequest, error) {
	req, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !warehouseTransitionAllowed(req.Estado, data.Estado) {
		return nil, NewStateError("transición inválida: %s → %s", req.Estado, data.Estado)
	}

	now := time.Now()
	updates := map[string]interface{}{"estado": data.Estado}
	var accion string
	switch data.Estado {
	case entity.WarehouseStatusAprobada:
		accion = "approve"
		updates["aprobada_por"] = userID
		updates["fecha_aprobacion"] = now
	case entity.WarehouseStatusDespachada:
		accion = "dispatch"
		updates["despachada_por"] = userID
		updates["fecha_despacho"] = now
	case entity.WarehouseStatusTerminada:
		accion = "finish"
		updates["terminada_por"] = userID
		updates["fecha_termino"] = now
	case entity.WarehouseStatusRechazada:
		if data.Motivo == "" {
			return nil, NewValidationError("el motivo de rechazo es obligatorio")
		}
		accion = "reject"
		updates["rechazada_por"] = userID
		updates["fecha_rechazo"] = now
		updates["motivo_rechazo"] = data.Motivo
	}

	ok, err := s.warehouseRepo.UpdateStatusGuarded(ctx, id, req.Estado, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("la solicitud de bodega ya no está en estado %s", req.Estado)
	}

	s.noveltyRepo.LogNovelty(ctx, "bodega", req.ID, req.Codigo, accion,
		req.Estado, data.Estado, data.Motivo, userID, "")

	return s.warehouseRepo.FindByID(ctx, id)
}

func warehouseTransitionAllowed(from, to string) bool {
	for _, t := range entity.ValidWarehouseTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Stats returns the dashboard aggregate for warehouse requests.
func (s *WarehouseService) Stats(ctx context.Context) (*repository.WarehouseStats, error) {
	return s.warehouseRepo.Stats(ctx)
}
