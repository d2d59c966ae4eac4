package mcp

import (
	"context"

	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/client"
	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (in-process)
// and client.HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
	ListBodyPartProfiles(ctx context.Context, archived *bool) ([]models.BodyPartProfile, error)
	GetProfile(ctx context.Context, id int) (models.BodyPartProfile, error)
	ListSessions(ctx context.Context, f models.SessionFilter) ([]models.Session, error)
	ListWellnessLogs(ctx context.Context, f models.WellnessFilter) ([]models.WellnessLog, error)
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*client.HTTPClient)(nil)

// Store is the subset of the backend storage LocalSource reads from.
type Store interface {
	ListBodyPartProfiles(ctx context.Context, archived *bool) ([]models.BodyPartProfile, error)
	GetProfile(ctx context.Context, id int) (models.BodyPartProfile, error)
	ListSessions(ctx context.Context, f models.SessionFilter) ([]models.APISession, error)
	ListWellnessLogs(ctx context.Context, f models.WellnessFilter) ([]models.APIWellnessLog, error)
}

var _ Store = (*storage.DB)(nil)

// LocalSource serves MCP tools straight from the server's own storage and
// loaded catalog.
type LocalSource struct {
	Store   Store
	Catalog *catalog.Catalog
}

var _ DataSource = LocalSource{}

func (s LocalSource) FetchCatalog(context.Context) (*catalog.Catalog, error) {
	return s.Catalog, nil
}

func (s LocalSource) ListBodyPartProfiles(ctx context.Context, archived *bool) ([]models.BodyPartProfile, error) {
	return s.Store.ListBodyPartProfiles(ctx, archived)
}

func (s LocalSource) GetProfile(ctx context.Context, id int) (models.BodyPartProfile, error) {
	return s.Store.GetProfile(ctx, id)
}

func (s LocalSource) ListSessions(ctx context.Context, f models.SessionFilter) ([]models.Session, error) {
	sessions, err := s.Store.ListSessions(ctx, f)
	if err != nil {
		return nil, err
	}
	return models.SessionsToDomain(sessions), nil
}

func (s LocalSource) ListWellnessLogs(ctx context.Context, f models.WellnessFilter) ([]models.WellnessLog, error) {
	logs, err := s.Store.ListWellnessLogs(ctx, f)
	if err != nil {
		return nil, err
	}
	return models.WellnessLogsToDomain(logs), nil
}
