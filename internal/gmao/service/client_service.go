package service

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/google/uuid"
)

// ClientService manages clients and their sites.
type ClientService struct {
	clientRepo *repository.ClientRepository
	siteRepo   *repository.SiteRepository
}

func NewClientService(clientRepo *repository.ClientRepository, siteRepo *repository.SiteRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo, siteRepo: siteRepo}
}

func (s *ClientService) List(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Client, int64, error) {
	return s.clientRepo.FindAll(ctx, page, limit, filters)
}

func (s *ClientService) Get(ctx context.Context, id string) (*entity.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// CreateClientRequest is the client-creation payload.
type CreateClientRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Nit       string `json:"nit" binding:"required"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
}

func (s *ClientService) Create(ctx context.Context, req *CreateClientRequest) (*entity.Client, error) {
	if _, err := s.clientRepo.FindByNit(ctx, req.Nit); err == nil {
		return nil, NewConflictError("ya existe un cliente con el nit %s", req.Nit)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	client := &entity.Client{
		ID:        uuid.New().String()[:32],
		Nombre:    req.Nombre,
		Nit:       req.Nit,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateClientRequest is the partial-update payload. Nil fields are untouched.
type UpdateClientRequest struct {
	Nombre    *string `json:"nombre"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	Direccion *string `json:"direccion"`
	Activo    *bool   `json:"activo"`
}

func (s *ClientService) Update(ctx context.Context, id string, req *UpdateClientRequest) (*entity.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		client.Nombre = *req.Nombre
	}
	if req.Telefono != nil {
		client.Telefono = *req.Telefono
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Direccion != nil {
		client.Direccion = *req.Direccion
	}
	if req.Activo != nil {
		client.Activo = *req.Activo
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// === Sedes ===

func (s *ClientService) ListSites(ctx context.Context, clienteID string, page, limit int) ([]entity.Site, int64, error) {
	if _, err := s.clientRepo.FindByID(ctx, clienteID); err != nil {
		return nil, 0, err
	}
	return s.siteRepo.FindByClient(ctx, clienteID, page, limit)
}

func (s *ClientService) GetSite(ctx context.Context, id string) (*entity.Site, error) {
	return s.siteRepo.FindByID(ctx, id)
}

// CreateSiteRequest is the site-creation payload.
type CreateSiteRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Direccion string `json:"direccion"`
	Contacto  string `json:"contacto"`
	Telefono  string `json:"telefono"`
}

func (s *ClientService) CreateSite(ctx context.Context, clienteID string, req *CreateSiteRequest) (*entity.Site, error) {
	if _, err := s.clientRepo.FindByID(ctx, clienteID); err != nil {
		return nil, err
	}

	site := &entity.Site{
		ID:        uuid.New().String()[:32],
		ClienteID: clienteID,
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Contacto:  req.Contacto,
		Telefono:  req.Telefono,
		Activo:    true,
	}
	if err := s.siteRepo.Create(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// UpdateSiteRequest is the site partial-update payload.
type UpdateSiteRequest struct {
	Nombre    *string `json:"nombre"`
	Direccion *string `json:"direccion"`
	Contacto  *string `json:"contacto"`
	Telefono  *string `json:"telefono"`
	Activo    *bool   `json:"activo"`
}

func (s *ClientService) UpdateSite(ctx context.Context, id string, req *UpdateSiteRequest) (*entity.Site, error) {
	site, err := s.siteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		site.Nombre = *req.Nombre
	}
	if req.Direccion != nil {
		site.Direccion = *req.Direccion
	}
	if req.Contacto != nil {
		site.Contacto = *req.Contacto
	}
	if req.Telefono != nil {
		site.Telefono = *req.Telefono
	}
	if req.Activo != nil {
		site.Activo = *req.Activo
	}

	if err := s.siteRepo.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}
