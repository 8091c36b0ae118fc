package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// DecommissionService manages equipment decommission requests
// (solicitudes de baja).
type DecommissionService struct {
	decommissionRepo *repository.DecommissionRepository
	equipmentRepo    *repository.EquipmentRepository
	noveltyRepo      *repository.NoveltyRepository
}

func NewDecommissionService(decommissionRepo *repository.DecommissionRepository, equipmentRepo *repository.EquipmentRepository, noveltyRepo *repository.NoveltyRepository) *DecommissionService {
	return &DecommissionService{
		decommissionRepo: decommissionRepo,
		equipmentRepo:    equipmentRepo,
		noveltyRepo:      noveltyRepo,
	}
}

func (s *DecommissionService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.DecommissionRequest, int64, error) {
	return s.decommissionRepo.FindAll(ctx, page, limit, filters)
}

func (s *DecommissionService) Get(ctx context.Context, id string) (*entity.DecommissionRequest, error) {
	return s.decommissionRepo.FindByID(ctx, id)
}

// CreateDecommissionData is the creation payload. When EquipoID is given,
// the equipment fields are denormalized from the catalog row; otherwise they
// must come in the payload.
type CreateDecommissionData struct {
	EquipoID         *string `json:"id_equipo"`
	EquipoNombre     string  `json:"equipo_nombre"`
	EquipoMarca      string  `json:"equipo_marca"`
	EquipoModelo     string  `json:"equipo_modelo"`
	EquipoSerial     string  `json:"equipo_serial"`
	Justificacion    string  `json:"justificacion" binding:"required"`
	ValorRecuperable float64 `json:"valor_recuperable"`
}

func (s *DecommissionService) Create(ctx context.Context, userID string, data *CreateDecommissionData) (*entity.DecommissionRequest, error) {
	nombre, marca, modelo, serial := data.EquipoNombre, data.EquipoMarca, data.EquipoModelo, data.EquipoSerial
	if data.EquipoID != nil {
		eq, err := s.equipmentRepo.FindByID(ctx, *data.EquipoID)
		if err != nil {
			return nil, err
		}
		nombre, marca, modelo, serial = eq.Nombre, eq.Marca, eq.Modelo, eq.Serial
	}
	if nombre == "" {
		return nil, NewValidationError("el nombre del equipo es obligatorio")
	}

	code, err := s.decommissionRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate decommission code: %w", err)
	}

	req := &entity.DecommissionRequest{
		ID:               uuid.New().String()[:32],
		Codigo:           code,
		EquipoNombre:     nombre,
		EquipoMarca:      marca,
		EquipoModelo:     modelo,
		EquipoSerial:     serial,
		Justificacion:    data.Justificacion,
		ValorRecuperable: data.ValorRecuperable,
		Estado:           entity.DecommissionStatusPendiente,
		CreadoPor:        userID,
	}
	if err := s.decommissionRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.noveltyRepo.LogNovelty(ctx, "baja", req.ID, req.Codigo, "create",
		"", req.Estado,
		fmt.Sprintf("solicitud de baja creada para %s", req.EquipoNombre), userID, "")

	return req, nil
}

// ApproveDecommissionData is the evaluator's approval payload.
type ApproveDecommissionData struct {
	Recomendaciones string   `json:"recomendaciones"`
	ValorAprobado   *float64 `json:"valor_aprobado"`
}

// Approve moves pendiente→aprobada, stamping the evaluation.
func (s *DecommissionService) Approve(ctx context.Context, id, userID string, data *ApproveDecommissionData) (*entity.DecommissionRequest, error) {
	req, err := s.decommissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"estado":           entity.DecommissionStatusAprobada,
		"evaluado_por":     userID,
		"fecha_evaluacion": now,
		"recomendaciones":  data.Recomendaciones,
	}
	if data.ValorAprobado != nil {
		updates["valor_aprobado"] = *data.ValorAprobado
	} else {
		updates["valor_aprobado"] = req.ValorRecuperable
	}

	ok, err := s.decommissionRepo.UpdateStatusGuarded(ctx, id, entity.DecommissionStatusPendiente, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden aprobar solicitudes de baja pendientes")
	}

	s.noveltyRepo.LogNovelty(ctx, "baja", req.ID, req.Codigo, "approve",
		entity.DecommissionStatusPendiente, entity.DecommissionStatusAprobada,
		data.Recomendaciones, userID, "")

	return s.decommissionRepo.FindByID(ctx, id)
}

// RejectDecommissionData carries the rejection reason.
type RejectDecommissionData struct {
	MotivoRechazo string `json:"motivo_rechazo" binding:"required"`
}

// Reject moves pendiente→rechazada.
func (s *DecommissionService) Reject(ctx context.Context, id, userID string, data *RejectDecommissionData) (*entity.DecommissionRequest, error) {
	req, err := s.decommissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"estado":           entity.DecommissionStatusRechazada,
		"evaluado_por":     userID,
		"fecha_evaluacion": now,
		"motivo_rechazo":   data.MotivoRechazo,
	}
	ok, err := s.decommissionRepo.UpdateStatusGuarded(ctx, id, entity.DecommissionStatusPendiente, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden rechazar solicitudes de baja pendientes")
	}

	s.noveltyRepo.LogNovelty(ctx, "baja", req.ID, req.Codigo, "reject",
		entity.DecommissionStatusPendiente, entity.DecommissionStatusRechazada,
		data.MotivoRechazo, userID, "")

	return s.decommissionRepo.FindByID(ctx, id)
}

// Execute moves aprobada→ejecutada and deactivates the catalog row when the
// request references one.
func (s *DecommissionService) Execute(ctx context.Context, id, userID string) (*entity.DecommissionRequest, error) {
	req, err := s.decommissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"estado": entity.DecommissionStatusEjecutada,
	}
	ok, err := s.decommissionRepo.UpdateStatusGuarded(ctx, id, entity.DecommissionStatusAprobada, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewStateError("solo se pueden ejecutar solicitudes de baja aprobadas")
	}

	s.noveltyRepo.LogNovelty(ctx, "baja", req.ID, req.Codigo, "execute",
		entity.DecommissionStatusAprobada, entity.DecommissionStatusEjecutada,
		"", userID, "")

	return s.decommissionRepo.FindByID(ctx, id)
}

// Stats returns the dashboard aggregate for decommission requests.
func (s *DecommissionService) Stats(ctx context.Context) (*repository.DecommissionStats, error) {
	return s.decommissionRepo.Stats(ctx)
}
