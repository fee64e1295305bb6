package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"estatehub-backend/internal/model"
	"estatehub-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePropertyStore struct {
	findMany          func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error)
	countFindMany     func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) (int64, error)
	findManyWithCount func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, int64, error)
	findManyRelated   func(ctx context.Context, subjectID int32, f *model.PropertyFilter) ([]model.PropertyWithAgent, error)
	findOneByID       func(ctx context.Context, id int32) (*model.PropertyWithAgent, error)
	create            func(ctx context.Context, userID uuid.UUID, rec *model.PropertyRecord) (*model.Property, error)
	update            func(ctx context.Context, id int32, rec *model.PropertyRecord) (*model.Property, error)
	del               func(ctx context.Context, id int32, role model.AgentRole) (*model.Property, error)
	updateConfigs     func(ctx context.Context, id int32, configurations json.RawMessage) (*model.Property, error)
}

func (s *fakePropertyStore) FindMany(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
	return s.findMany(ctx, ident, f)
}

func (s *fakePropertyStore) CountFindMany(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) (int64, error) {
	return s.countFindMany(ctx, ident, f)
}

func (s *fakePropertyStore) FindManyWithCount(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, int64, error) {
	return s.findManyWithCount(ctx, ident, f)
}

func (s *fakePropertyStore) FindManyRelated(ctx context.Context, subjectID int32, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
	return s.findManyRelated(ctx, subjectID, f)
}

func (s *fakePropertyStore) FindOneByID(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
	return s.findOneByID(ctx, id)
}

func (s *fakePropertyStore) Create(ctx context.Context, userID uuid.UUID, rec *model.PropertyRecord) (*model.Property, error) {
	return s.create(ctx, userID, rec)
}

func (s *fakePropertyStore) Update(ctx context.Context, id int32, rec *model.PropertyRecord) (*model.Property, error) {
	return s.update(ctx, id, rec)
}

func (s *fakePropertyStore) Delete(ctx context.Context, id int32, role model.AgentRole) (*model.Property, error) {
	return s.del(ctx, id, role)
}

func (s *fakePropertyStore) UpdateConfigurations(ctx context.Context, id int32, configurations json.RawMessage) (*model.Property, error) {
	return s.updateConfigs(ctx, id, configurations)
}

func (s *fakePropertyStore) DistinctSitePaths(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (s *fakePropertyStore) DistinctBuildingTypePaths(ctx context.Context) ([]repository.BuildingTypePath, error) {
	return nil, nil
}

func (s *fakePropertyStore) DistinctProvincePaths(ctx context.Context) ([]repository.ProvincePath, error) {
	return nil, nil
}

func (s *fakePropertyStore) DistinctRegencyPaths(ctx context.Context) ([]repository.RegencyPath, error) {
	return nil, nil
}

type fakeAgentStore struct {
	findByUserID func(ctx context.Context, userID uuid.UUID) (*model.Agent, error)
	findByName   func(ctx context.Context, fullname string) (*model.Agent, error)
	findAll      func(ctx context.Context) ([]model.Agent, error)
}

func (s *fakeAgentStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Agent, error) {
	return s.findByUserID(ctx, userID)
}

func (s *fakeAgentStore) FindByName(ctx context.Context, fullname string) (*model.Agent, error) {
	return s.findByName(ctx, fullname)
}

func (s *fakeAgentStore) FindAll(ctx context.Context) ([]model.Agent, error) {
	return s.findAll(ctx)
}

func validSaveRequest() *model.SavePropertyRequest {
	return &model.SavePropertyRequest{
		Title:             "Villa Canggu",
		Province:          "Bali",
		Regency:           "Badung",
		Street:            "Sunset Road",
		PurchaseStatus:    "for_sale",
		BuildingType:      "villa",
		BuildingCondition: "new",
		Currency:          "idr",
	}
}

func TestResolveIdentityAnonymous(t *testing.T) {
	svc := NewPropertyService(&fakePropertyStore{}, &fakeAgentStore{}, false)

	ident, err := svc.ResolveIdentity(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, ident)
}

func TestResolveIdentityLookupFailureDenies(t *testing.T) {
	agents := &fakeAgentStore{
		findByUserID: func(ctx context.Context, userID uuid.UUID) (*model.Agent, error) {
			return nil, errors.New("no rows")
		},
	}
	svc := NewPropertyService(&fakePropertyStore{}, agents, false)

	id := uuid.New()
	_, err := svc.ResolveIdentity(context.Background(), &id)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestResolveIdentityCarriesRole(t *testing.T) {
	id := uuid.New()
	agents := &fakeAgentStore{
		findByUserID: func(ctx context.Context, userID uuid.UUID) (*model.Agent, error) {
			assert.Equal(t, id, userID)
			return &model.Agent{ID: id, Role: model.RoleAdmin}, nil
		},
	}
	svc := NewPropertyService(&fakePropertyStore{}, agents, false)

	ident, err := svc.ResolveIdentity(context.Background(), &id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, ident.Role)
	assert.Equal(t, id, ident.UserID)
}

func TestSearchAssemblesEnvelope(t *testing.T) {
	limit := int64(5)
	store := &fakePropertyStore{
		findMany: func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
			return []model.PropertyWithAgent{{}, {}}, nil
		},
		countFindMany: func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) (int64, error) {
			return 12, nil
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	res, err := svc.Search(context.Background(), nil, &model.PropertyFilter{Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, int64(12), res.TotalData)
	assert.Equal(t, int64(3), res.TotalPages)
}

func TestSearchStrictConsistencyUsesSingleSnapshot(t *testing.T) {
	snapshotCalled := false
	store := &fakePropertyStore{
		findManyWithCount: func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, int64, error) {
			snapshotCalled = true
			return []model.PropertyWithAgent{{}}, 1, nil
		},
		findMany: func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
			t.Fatal("two-query path must not run in strict mode")
			return nil, nil
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, true)

	res, err := svc.Search(context.Background(), nil, &model.PropertyFilter{})
	require.NoError(t, err)
	assert.True(t, snapshotCalled)
	assert.Equal(t, int64(1), res.TotalData)
}

func TestSearchCountFailurePropagates(t *testing.T) {
	store := &fakePropertyStore{
		findMany: func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
			return nil, nil
		},
		countFindMany: func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) (int64, error) {
			return 0, errors.New("connection reset")
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	_, err := svc.Search(context.Background(), nil, &model.PropertyFilter{})
	assert.Error(t, err)
}

func TestRelatedUsesSubjectStreet(t *testing.T) {
	store := &fakePropertyStore{
		findOneByID: func(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
			return &model.PropertyWithAgent{Property: model.Property{ID: id, Street: "sunset road"}}, nil
		},
		findManyRelated: func(ctx context.Context, subjectID int32, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
			assert.Equal(t, int32(7), subjectID)
			require.NotNil(t, f.Street)
			assert.Equal(t, "sunset road", *f.Street)
			return []model.PropertyWithAgent{{}}, nil
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	rows, err := svc.Related(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestByAgentNameDecodesHyphens(t *testing.T) {
	agentID := uuid.New()
	agents := &fakeAgentStore{
		findByName: func(ctx context.Context, fullname string) (*model.Agent, error) {
			assert.Equal(t, "jane doe", fullname)
			return &model.Agent{ID: agentID, Fullname: fullname, Role: model.RoleAgent}, nil
		},
	}
	store := &fakePropertyStore{
		findMany: func(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
			// Listings are fetched under the agent's own visibility.
			require.NotNil(t, ident)
			assert.Equal(t, agentID, ident.UserID)
			assert.Equal(t, model.RoleAgent, ident.Role)
			return []model.PropertyWithAgent{{}}, nil
		},
	}
	svc := NewPropertyService(store, agents, false)

	res, err := svc.ByAgentName(context.Background(), "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, "jane doe", res.Agent.Fullname)
	assert.Len(t, res.Properties, 1)
}

func TestByAgentNameUnknownAgent(t *testing.T) {
	agents := &fakeAgentStore{
		findByName: func(ctx context.Context, fullname string) (*model.Agent, error) {
			return nil, errors.New("no rows")
		},
	}
	svc := NewPropertyService(&fakePropertyStore{}, agents, false)

	_, err := svc.ByAgentName(context.Background(), "jane-doe")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSitePathsAssemblesCatalog(t *testing.T) {
	store := &fakePropertyStore{}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	// Fakes return nothing, so only the purchase-status roots remain.
	paths, err := svc.SitePaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/for-sale", "/for-rent"}, paths)
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	svc := NewPropertyService(&fakePropertyStore{}, &fakeAgentStore{}, false)

	req := validSaveRequest()
	req.PurchaseStatus = "buy"
	ident := &model.Identity{UserID: uuid.New(), Role: model.RoleAgent}
	_, err := svc.Create(context.Background(), ident, req)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestCreatePersistsUnderCaller(t *testing.T) {
	callerID := uuid.New()
	store := &fakePropertyStore{
		create: func(ctx context.Context, userID uuid.UUID, rec *model.PropertyRecord) (*model.Property, error) {
			assert.Equal(t, callerID, userID)
			assert.Equal(t, "/for-sale/villa/bali/badung/sunset-road", rec.SitePath)
			return &model.Property{ID: 1}, nil
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	ident := &model.Identity{UserID: callerID, Role: model.RoleAgent}
	created, err := svc.Create(context.Background(), ident, validSaveRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(1), created.ID)
}

func TestUpdateOwnershipCheck(t *testing.T) {
	ownerID := uuid.New()
	store := &fakePropertyStore{
		findOneByID: func(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
			return &model.PropertyWithAgent{Property: model.Property{ID: id, UserID: ownerID}}, nil
		},
		update: func(ctx context.Context, id int32, rec *model.PropertyRecord) (*model.Property, error) {
			return &model.Property{ID: id}, nil
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	// Another agent is rejected.
	intruder := &model.Identity{UserID: uuid.New(), Role: model.RoleAgent}
	_, err := svc.Update(context.Background(), intruder, 7, validSaveRequest())
	assert.ErrorIs(t, err, ErrForbidden)

	// The owner may update.
	owner := &model.Identity{UserID: ownerID, Role: model.RoleAgent}
	_, err = svc.Update(context.Background(), owner, 7, validSaveRequest())
	assert.NoError(t, err)

	// So may any admin.
	admin := &model.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = svc.Update(context.Background(), admin, 7, validSaveRequest())
	assert.NoError(t, err)
}

func TestUpdateMissingListing(t *testing.T) {
	store := &fakePropertyStore{
		findOneByID: func(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
			return nil, errors.New("no rows")
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	ident := &model.Identity{UserID: uuid.New(), Role: model.RoleAgent}
	_, err := svc.Update(context.Background(), ident, 7, validSaveRequest())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePassesCallerRole(t *testing.T) {
	ownerID := uuid.New()
	var gotRole model.AgentRole
	store := &fakePropertyStore{
		findOneByID: func(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
			return &model.PropertyWithAgent{Property: model.Property{ID: id, UserID: ownerID}}, nil
		},
		del: func(ctx context.Context, id int32, role model.AgentRole) (*model.Property, error) {
			gotRole = role
			return &model.Property{ID: id}, nil
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	owner := &model.Identity{UserID: ownerID, Role: model.RoleAgent}
	_, err := svc.Delete(context.Background(), owner, 7)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAgent, gotRole, "agents soft-delete")

	admin := &model.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = svc.Delete(context.Background(), admin, 7)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, gotRole, "admins hard-delete")
}

func TestUpdateConfigurationsRejectsMalformedJSON(t *testing.T) {
	svc := NewPropertyService(&fakePropertyStore{}, &fakeAgentStore{}, false)

	ident := &model.Identity{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err := svc.UpdateConfigurations(context.Background(), ident, 7, json.RawMessage(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestUpdateConfigurationsOwnerOnly(t *testing.T) {
	ownerID := uuid.New()
	store := &fakePropertyStore{
		findOneByID: func(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
			return &model.PropertyWithAgent{Property: model.Property{ID: id, UserID: ownerID}}, nil
		},
		updateConfigs: func(ctx context.Context, id int32, configurations json.RawMessage) (*model.Property, error) {
			return &model.Property{ID: id, Configurations: configurations}, nil
		},
	}
	svc := NewPropertyService(store, &fakeAgentStore{}, false)

	intruder := &model.Identity{UserID: uuid.New(), Role: model.RoleAgent}
	_, err := svc.UpdateConfigurations(context.Background(), intruder, 7, json.RawMessage(`{"is_popular":true}`))
	assert.ErrorIs(t, err, ErrForbidden)

	owner := &model.Identity{UserID: ownerID, Role: model.RoleAgent}
	updated, err := svc.UpdateConfigurations(context.Background(), owner, 7, json.RawMessage(`{"is_popular":true}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_popular":true}`, string(updated.Configurations))
}
