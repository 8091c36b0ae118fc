package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// RequestService manages service requests (solicitudes).
type RequestService struct {
	requestRepo   *repository.RequestRepository
	equipmentRepo *repository.EquipmentRepository
	userRepo      *repository.UserRepository
	noveltyRepo   *repository.NoveltyRepository
}

func NewRequestService(requestRepo *repository.RequestRepository, equipmentRepo *repository.EquipmentRepository, userRepo *repository.UserRepository, noveltyRepo *repository.NoveltyRepository) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		noveltyRepo:   noveltyRepo,
	}
}

func (s *RequestService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Request, int64, error) {
	return s.requestRepo.FindAll(ctx, page, limit, filters)
}

// Get loads one request and resolves its display names.
func (s *RequestService) Get(ctx context.Context, id string) (*entity.Request, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if creator, err := s.userRepo.FindByID(ctx, req.CreadoPor); err == nil {
		req.CreadorNombre = creator.Nombre
	}
	if req.EquipoID != nil {
		if eq, err := s.equipmentRepo.FindByID(ctx, *req.EquipoID); err == nil {
			req.EquipoNombre = eq.Nombre
		}
	}
	return req, nil
}

// CreateRequestData is the request-creation payload.
type CreateRequestData struct {
	ServicioID  int     `json:"id_servicio" binding:"required"`
	EquipoID    *string `json:"id_equipo"`
	Aviso       string  `json:"aviso"`
	Observacion string  `json:"observacion"`
}

// Create opens a new request in pendiente and writes the create novelty.
func (s *RequestService) Create(ctx context.Context, userID string, data *CreateRequestData) (*entity.Request, error) {
	if data.EquipoID != nil {
		if _, err := s.equipmentRepo.FindByID(ctx, *data.EquipoID); err != nil {
			return nil, err
		}
	}

	code, err := s.requestRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate request code: %w", err)
	}

	req := &entity.Request{
		ID:          uuid.New().String()[:32],
		Codigo:      code,
		ServicioID:  data.ServicioID,
		EquipoID:    data.EquipoID,
		Aviso:       data.Aviso,
		Observacion: data.Observacion,
		IDEstado:    entity.RequestStatusPendiente,
		CreadoPor:   userID,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.noveltyRepo.LogNovelty(ctx, "solicitud", req.ID, req.Codigo, "create",
		"", entity.RequestStatusNames[req.IDEstado],
		fmt.Sprintf("solicitud creada, aviso: %s", req.Aviso), userID, "")

	return req, nil
}

// ChangeStatusData is the transition payload.
type ChangeStatusData struct {
	IDEstado    int    `json:"id_estado" binding:"required"`
	Observacion string `json:"observacion"`
}

// ChangeStatus moves a pending request to aprobada or rechazada. The guarded
// update makes concurrent decisions resolve to exactly one winner.
func (s *RequestService) ChangeStatus(ctx context.Context, id, userID string, data *ChangeStatusData) (*entity.Request, error) {
	if data.IDEstado != entity.RequestStatusAprobada && data.IDEstado != entity.RequestStatusRechazada {
		return nil, NewValidationError("estado inválido: %d", data.IDEstado)
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"id_estado":          data.IDEstado,
		"cambio_estado":      now,
		"cambiado_por":       userID,
		"observacion_cambio": data.Observacion,
	}

	ok, err := s.requestRepo.UpdateStatusGuarded(ctx, id, entity.RequestStatusPendiente, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden aprobar o rechazar solicitudes pendientes")
	}

	s.noveltyRepo.LogNovelty(ctx, "solicitud", req.ID, req.Codigo, "status_change",
		entity.RequestStatusNames[entity.RequestStatusPendiente], entity.RequestStatusNames[data.IDEstado],
		data.Observacion, userID, "")

	return s.requestRepo.FindByID(ctx, id)
}

// Stats returns the dashboard aggregate for requests.
func (s *RequestService) Stats(ctx context.Context) (*repository.RequestStats, error) {
	return s.requestRepo.Stats(ctx)
}
