package service

import (
	"context"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// EquipmentService manages the asset catalog.
type EquipmentService struct {
	equipmentRepo *repository.EquipmentRepository
	siteRepo      *repository.SiteRepository
}

func NewEquipmentService(equipmentRepo *repository.EquipmentRepository, siteRepo *repository.SiteRepository) *EquipmentService {
	return &EquipmentService{equipmentRepo: equipmentRepo, siteRepo: siteRepo}
}

func (s *EquipmentService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Equipment, int64, error) {
	return s.equipmentRepo.FindAll(ctx, page, limit, filters)
}

func (s *EquipmentService) Get(ctx context.Context, id string) (*entity.Equipment, error) {
	return s.equipmentRepo.FindByID(ctx, id)
}

// CreateEquipmentRequest is the asset-creation payload.
type CreateEquipmentRequest struct {
	SedeID    string `json:"id_sede"`
	Nombre    string `json:"nombre" binding:"required"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Serial    string `json:"serial"`
	Categoria string `json:"categoria"`
}

func (s *EquipmentService) Create(ctx context.Context, req *CreateEquipmentRequest) (*entity.Equipment, error) {
	if req.SedeID == "" {
		return nil, NewValidationError("id_sede es obligatorio")
	}
	if _, err := s.siteRepo.FindByID(ctx, req.SedeID); err != nil {
		return nil, err
	}

	categoria := req.Categoria
	if categoria == "" {
		categoria = entity.CategoriaCorrectivo
	}
	if !entity.IsValidCategory(categoria) {
		return nil, NewValidationError("categoría inválida: %s", categoria)
	}

	eq := &entity.Equipment{
		ID:        uuid.New().String()[:32],
		SedeID:    req.SedeID,
		Nombre:    req.Nombre,
		Marca:     req.Marca,
		Modelo:    req.Modelo,
		Serial:    req.Serial,
		Categoria: categoria,
		Activo:    true,
	}
	if err := s.equipmentRepo.Create(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

// UpdateEquipmentRequest is the partial-update payload.
type UpdateEquipmentRequest struct {
	Nombre    *string `json:"nombre"`
	Marca     *string `json:"marca"`
	Modelo    *string `json:"modelo"`
	Serial    *string `json:"serial"`
	Categoria *string `json:"categoria"`
	Activo    *bool   `json:"activo"`
}

func (s *EquipmentService) Update(ctx context.Context, id string, req *UpdateEquipmentRequest) (*entity.Equipment, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Categoria != nil {
		if !entity.IsValidCategory(*req.Categoria) {
			return nil, NewValidationError("categoría inválida: %s", *req.Categoria)
		}
		eq.Categoria = *req.Categoria
	}
	if req.Nombre != nil {
		eq.Nombre = *req.Nombre
	}
	if req.Marca != nil {
		eq.Marca = *req.Marca
	}
	if req.Modelo != nil {
		eq.Modelo = *req.Modelo
	}
	if req.Serial != nil {
		eq.Serial = *req.Serial
	}
	if req.Activo != nil {
		eq.Activo = *req.Activo
	}

	if err := s.equipmentRepo.Update(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}
