package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/popis/internal/model"
)

// Repository binds the store functions to one database so they can be
// handed to components that depend on interfaces.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository backed by db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListEquipmentByRoom(ctx context.Context, roomID int64) ([]model.Equipment, error) {
	return ListEquipmentByRoom(ctx, r.db, roomID)
}

func (r *Repository) GetEquipment(ctx context.Context, id int64) (*model.Equipment, error) {
	return GetEquipment(ctx, r.db, id)
}

func (r *Repository) ListTypes(ctx context.Context) ([]model.EquipmentType, error) {
	return ListTypes(ctx, r.db)
}

func (r *Repository) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	return GetRoom(ctx, r.db, id)
}

func (r *Repository) CreateSession(ctx context.Context, in model.NewSession) (*model.Session, error) {
	return CreateSession(ctx, r.db, in)
}

func (r *Repository) GetSession(ctx context.Context, id int64) (*model.Session, error) {
	return GetSession(ctx, r.db, id)
}

func (r *Repository) ReplaceResults(ctx context.Context, sessionID int64, rows []model.ResultRow, status model.SessionStatus) error {
	return ReplaceResults(ctx, r.db, sessionID, rows, status)
}

func (r *Repository) ListResults(ctx context.Context, sessionID int64) ([]model.Result, error) {
	return ListResults(ctx, r.db, sessionID)
}

func (r *Repository) AddAdditionalItem(ctx context.Context, item model.AdditionalItem) (*model.AdditionalItem, error) {
	return AddAdditionalItem(ctx, r.db, item)
}

func (r *Repository) RemoveAdditionalItem(ctx context.Context, sessionID, itemID int64) error {
	return RemoveAdditionalItem(ctx, r.db, sessionID, itemID)
}

func (r *Repository) ListAdditionalItems(ctx context.Context, sessionID int64) ([]model.AdditionalItem, error) {
	return ListAdditionalItems(ctx, r.db, sessionID)
}

func (r *Repository) DeleteSession(ctx context.Context, id int64) (bool, error) {
	return DeleteSession(ctx, r.db, id)
}
