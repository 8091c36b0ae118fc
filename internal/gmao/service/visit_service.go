package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// VisitService manages scheduled visits (visitas).
type VisitService struct {
	visitRepo   *repository.VisitRepository
	orderRepo   *repository.OrderRepository
	userRepo    *repository.UserRepository
	noveltyRepo *repository.NoveltyRepository
}

func NewVisitService(visitRepo *repository.VisitRepository, orderRepo *repository.OrderRepository, userRepo *repository.UserRepository, noveltyRepo *repository.NoveltyRepository) *VisitService {
	return &VisitService{
		visitRepo:   visitRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		noveltyRepo: noveltyRepo,
	}
}

func (s *VisitService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Visit, int64, error) {
	return s.visitRepo.FindAll(ctx, page, limit, filters)
}

// Get loads one visit and resolves its display names.
func (s *VisitService) Get(ctx context.Context, id string) (*entity.Visit, error) {
	visit, err := s.visitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resp, err := s.userRepo.FindByID(ctx, visit.ResponsableID); err == nil {
		visit.ResponsableNombre = resp.Nombre
	}
	if order, err := s.orderRepo.FindByID(ctx, visit.OrdenID); err == nil {
		visit.OrdenCodigo = order.Codigo
	}
	return visit, nil
}

// CreateVisitData is the visit-creation payload.
type CreateVisitData struct {
	OrdenID         string     `json:"id_orden" binding:"required"`
	ResponsableID   string     `json:"id_responsable" binding:"required"`
	FechaProgramada *time.Time `json:"fecha_programada"`
	DuracionHoras   *float64   `json:"duracion_horas"`
	Observacion     string     `json:"observacion"`
}

// Create schedules a visit against an open order.
func (s *VisitService) Create(ctx context.Context, userID string, data *CreateVisitData) (*entity.Visit, error) {
	order, err := s.orderRepo.FindByID(ctx, data.OrdenID)
	if err != nil {
		return nil, err
	}
	if order.IDEstado != entity.OrderStatusAbierta {
		return nil, NewStateError("solo se pueden programar visitas sobre órdenes abiertas")
	}
	if _, err := s.userRepo.FindByID(ctx, data.ResponsableID); err != nil {
		return nil, err
	}

	visit := &entity.Visit{
		ID:              uuid.New().String()[:32],
		OrdenID:         data.OrdenID,
		ResponsableID:   data.ResponsableID,
		FechaProgramada: data.FechaProgramada,
		DuracionHoras:   data.DuracionHoras,
		Observacion:     data.Observacion,
		IDEstado:        entity.VisitStatusPendiente,
		CreadoPor:       userID,
	}
	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, err
	}

	s.noveltyRepo.LogNovelty(ctx, "visita", visit.ID, order.Codigo, "create",
		"", entity.VisitStatusNames[visit.IDEstado],
		fmt.Sprintf("visita programada sobre orden %s", order.Codigo), userID, "")

	return visit, nil
}

// UpdateVisitData is the schedule-edit payload. Edits are allowed only while
// the visit is pendiente.
type UpdateVisitData struct {
	ResponsableID   *string    `json:"id_responsable"`
	FechaProgramada *time.Time `json:"fecha_programada"`
	DuracionHoras   *float64   `json:"duracion_horas"`
	Observacion     *string    `json:"observacion"`
}

func (s *VisitService) Update(ctx context.Context, id string, data *UpdateVisitData) (*entity.Visit, error) {
	if _, err := s.visitRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if data.ResponsableID != nil {
		if _, err := s.userRepo.FindByID(ctx, *data.ResponsableID); err != nil {
			return nil, err
		}
		updates["responsable_id"] = *data.ResponsableID
	}
	if data.FechaProgramada != nil {
		updates["fecha_programada"] = *data.FechaProgramada
	}
	if data.DuracionHoras != nil {
		updates["duracion_horas"] = *data.DuracionHoras
	}
	if data.Observacion != nil {
		updates["observacion"] = *data.Observacion
	}
	if len(updates) == 0 {
		return s.visitRepo.FindByID(ctx, id)
	}

	ok, err := s.visitRepo.UpdateFieldsWhilePending(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden editar visitas pendientes")
	}
	return s.visitRepo.FindByID(ctx, id)
}

// Approve moves pendiente→abierta.
func (s *VisitService) Approve(ctx context.Context, id, userID string) (*entity.Visit, error) {
	visit, err := s.visitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"id_estado":        entity.VisitStatusAbierta,
		"aprobado_por":     userID,
		"fecha_aprobacion": now,
	}
	ok, err := s.visitRepo.UpdateStatusGuarded(ctx, id, entity.VisitStatusPendiente, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden aprobar visitas pendientes")
	}

	s.noveltyRepo.LogNovelty(ctx, "visita", visit.ID, "", "approve",
		entity.VisitStatusNames[entity.VisitStatusPendiente], entity.VisitStatusNames[entity.VisitStatusAbierta],
		"", userID, "")

	return s.visitRepo.FindByID(ctx, id)
}

// RejectVisitData carries the rejection reason.
type RejectVisitData struct {
	MotivoRechazo string `json:"motivo_rechazo" binding:"required"`
}

// Reject moves pendiente→rechazada.
func (s *VisitService) Reject(ctx context.Context, id, userID string, data *RejectVisitData) (*entity.Visit, error) {
	visit, err := s.visitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"id_estado":      entity.VisitStatusRechazada,
		"rechazado_por":  userID,
		"fecha_rechazo":  now,
		"motivo_rechazo": data.MotivoRechazo,
	}
	ok, err := s.visitRepo.UpdateStatusGuarded(ctx, id, entity.VisitStatusPendiente, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden rechazar visitas pendientes")
	}

	s.noveltyRepo.LogNovelty(ctx, "visita", visit.ID, "", "reject",
		entity.VisitStatusNames[entity.VisitStatusPendiente], entity.VisitStatusNames[entity.VisitStatusRechazada],
		data.MotivoRechazo, userID, "")

	return s.visitRepo.FindByID(ctx, id)
}

// CloseVisitData carries the closing notes.
type CloseVisitData struct {
	ObservacionesCierre string `json:"observaciones_cierre"`
}

// Close moves abierta→cerrada.
func (s *VisitService) Close(ctx context.Context, id, userID string, data *CloseVisitData) (*entity.Visit, error) {
	visit, err := s.visitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"id_estado":            entity.VisitStatusCerrada,
		"cerrado_por":          userID,
		"fecha_cierre":         now,
		"observaciones_cierre": data.ObservacionesCierre,
	}
	ok, err := s.visitRepo.UpdateStatusGuarded(ctx, id, entity.VisitStatusAbierta, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden cerrar visitas que estén abiertas")
	}

	s.noveltyRepo.LogNovelty(ctx, "visita", visit.ID, "", "close",
		entity.VisitStatusNames[entity.VisitStatusAbierta], entity.VisitStatusNames[entity.VisitStatusCerrada],
		data.ObservacionesCierre, userID, "")

	return s.visitRepo.FindByID(ctx, id)
}

// Stats returns the dashboard aggregate for visits.
func (s *VisitService) Stats(ctx context.Context) (*repository.VisitStats, error) {
	return s.visitRepo.Stats(ctx)
}
