package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"estatehub-backend/internal/model"
	"estatehub-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrForbidden covers ownership violations and the "unknown role ⇒ deny"
	// rule: if an authenticated caller's role cannot be resolved, the request
	// is denied rather than treated as a server fault.
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidPayload = errors.New("invalid payload")
)

// PropertyStore is what the service needs from the listing repository.
type PropertyStore interface {
	FindMany(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error)
	CountFindMany(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) (int64, error)
	FindManyWithCount(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, int64, error)
	FindManyRelated(ctx context.Context, subjectID int32, f *model.PropertyFilter) ([]model.PropertyWithAgent, error)
	FindOneByID(ctx context.Context, id int32) (*model.PropertyWithAgent, error)
	Create(ctx context.Context, userID uuid.UUID, rec *model.PropertyRecord) (*model.Property, error)
	Update(ctx context.Context, id int32, rec *model.PropertyRecord) (*model.Property, error)
	Delete(ctx context.Context, id int32, role model.AgentRole) (*model.Property, error)
	UpdateConfigurations(ctx context.Context, id int32, configurations json.RawMessage) (*model.Property, error)
	DistinctSitePaths(ctx context.Context) ([]string, error)
	DistinctBuildingTypePaths(ctx context.Context) ([]repository.BuildingTypePath, error)
	DistinctProvincePaths(ctx context.Context) ([]repository.ProvincePath, error)
	DistinctRegencyPaths(ctx context.Context) ([]repository.RegencyPath, error)
}

type AgentStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Agent, error)
	FindByName(ctx context.Context, fullname string) (*model.Agent, error)
	FindAll(ctx context.Context) ([]model.Agent, error)
}

type PropertyService struct {
	properties PropertyStore
	agents     AgentStore

	// strictConsistency pins search rows and count to one snapshot. Off by
	// default: the reported total may then diverge by a few rows from the
	// returned page under concurrent writes, which the API contract accepts.
	strictConsistency bool
}

func NewPropertyService(properties PropertyStore, agents AgentStore, strictConsistency bool) *PropertyService {
	return &PropertyService{properties: properties, agents: agents, strictConsistency: strictConsistency}
}

// ResolveIdentity turns a raw authenticated user id into a caller identity.
// A nil id is an anonymous caller. A failed role lookup denies the request.
func (s *PropertyService) ResolveIdentity(ctx context.Context, userID *uuid.UUID) (*model.Identity, error) {
	if userID == nil {
		return nil, nil
	}
	agent, err := s.agents.FindByUserID(ctx, *userID)
	if err != nil {
		return nil, fmt.Errorf("%w: role lookup failed: %v", ErrForbidden, err)
	}
	return &model.Identity{UserID: agent.ID, Role: agent.Role}, nil
}

// Search runs the retrieval and count queries and assembles the response
// envelope. No retries: store failures surface to the caller immediately.
func (s *PropertyService) Search(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) (*model.FindResponse, error) {
	var (
		rows  []model.PropertyWithAgent
		total int64
		err   error
	)
	if s.strictConsistency {
		rows, total, err = s.properties.FindManyWithCount(ctx, ident, f)
		if err != nil {
			return nil, err
		}
	} else {
		rows, err = s.properties.FindMany(ctx, ident, f)
		if err != nil {
			return nil, err
		}
		total, err = s.properties.CountFindMany(ctx, ident, f)
		if err != nil {
			return nil, err
		}
	}
	return &model.FindResponse{
		Data:       rows,
		TotalData:  total,
		TotalPages: TotalPages(total, f.Limit),
	}, nil
}

func (s *PropertyService) FindOne(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
	return s.properties.FindOneByID(ctx, id)
}

// Related returns listings sharing the subject's street, excluding the
// subject itself, restricted to available non-deleted rows.
func (s *PropertyService) Related(ctx context.Context, id int32) ([]model.PropertyWithAgent, error) {
	subject, err := s.properties.FindOneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	street := subject.Property.Street
	return s.properties.FindManyRelated(ctx, id, &model.PropertyFilter{Street: &street})
}

// ByAgentName resolves a hyphen-encoded display name and returns the agent
// with every listing they own.
func (s *PropertyService) ByAgentName(ctx context.Context, name string) (*model.AgentWithProperties, error) {
	fullname := strings.ReplaceAll(name, "-", " ")
	agent, err := s.agents.FindByName(ctx, fullname)
	if err != nil {
		return nil, fmt.Errorf("%w: agent %q: %v", ErrNotFound, fullname, err)
	}
	ident := &model.Identity{UserID: agent.ID, Role: model.RoleAgent}
	properties, err := s.properties.FindMany(ctx, ident, &model.PropertyFilter{})
	if err != nil {
		return nil, err
	}
	return &model.AgentWithProperties{Agent: *agent, Properties: properties}, nil
}

func (s *PropertyService) AllAgents(ctx context.Context) ([]model.Agent, error) {
	return s.agents.FindAll(ctx)
}

// SitePaths assembles the crawlable slug catalog: purchase-status roots, then
// each distinct building-type, province and regency prefix, then the stored
// listing slugs themselves.
func (s *PropertyService) SitePaths(ctx context.Context) ([]string, error) {
	paths := []string{
		"/" + model.ForSale.Slug(),
		"/" + model.ForRent.Slug(),
	}

	buildingTypes, err := s.properties.DistinctBuildingTypePaths(ctx)
	if err != nil {
		return nil, err
	}
	for _, bt := range buildingTypes {
		paths = append(paths, "/"+bt.PurchaseStatus.Slug()+"/"+model.Slugify(bt.BuildingType))
	}

	provinces, err := s.properties.DistinctProvincePaths(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range provinces {
		paths = append(paths, "/"+p.PurchaseStatus.Slug()+"/"+model.Slugify(p.BuildingType)+"/"+model.Slugify(p.Province))
	}

	regencies, err := s.properties.DistinctRegencyPaths(ctx)
	if err != nil {
		return nil, err
	}
	for _, rg := range regencies {
		paths = append(paths,
			"/"+rg.PurchaseStatus.Slug()+"/"+model.Slugify(rg.BuildingType)+"/"+model.Slugify(rg.Province)+"/"+model.Slugify(rg.Regency))
	}

	stored, err := s.properties.DistinctSitePaths(ctx)
	if err != nil {
		return nil, err
	}
	return append(paths, stored...), nil
}

func (s *PropertyService) Create(ctx context.Context, ident *model.Identity, req *model.SavePropertyRequest) (*model.Property, error) {
	rec, err := req.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s.properties.Create(ctx, ident.UserID, rec)
}

// Update rewrites a listing, recomputing its site path from the payload.
// Only the owner or an admin may update.
func (s *PropertyService) Update(ctx context.Context, ident *model.Identity, id int32, req *model.SavePropertyRequest) (*model.Property, error) {
	current, err := s.properties.FindOneByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if current.Property.UserID != ident.UserID && ident.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	rec, err := req.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s.properties.Update(ctx, id, rec)
}

func (s *PropertyService) Delete(ctx context.Context, ident *model.Identity, id int32) (*model.Property, error) {
	current, err := s.properties.FindOneByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if current.Property.UserID != ident.UserID && ident.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.properties.Delete(ctx, id, ident.Role)
}

func (s *PropertyService) UpdateConfigurations(ctx context.Context, ident *model.Identity, id int32, configurations json.RawMessage) (*model.Property, error) {
	if !json.Valid(configurations) {
		return nil, fmt.Errorf("%w: configurations must be valid JSON", ErrInvalidPayload)
	}
	current, err := s.properties.FindOneByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if current.Property.UserID != ident.UserID && ident.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.properties.UpdateConfigurations(ctx, id, configurations)
}
