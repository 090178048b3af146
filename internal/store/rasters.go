package store

import (
	"context"
	"database/sql"

	"bluescan/internal/apperr"
	"bluescan/internal/model"
)

type rasterTable string

const (
	tableTemplates rasterTable = "templates"
	tableGrounds   rasterTable = "grounds"
	tableBaselines rasterTable = "baselines"
	tableMasks     rasterTable = "masks"
)

func (s *Store) saveRaster(ctx context.Context, table rasterTable, artworkID int64, r *model.Raster) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+string(table)+` (artwork_id, w, h, pix) VALUES (?, ?, ?, ?)
		 ON CONFLICT(artwork_id) DO UPDATE SET w = excluded.w, h = excluded.h, pix = excluded.pix`,
		artworkID, r.W, r.H, r.Pix)
	if err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "saving "+string(table)+" raster", err)
	}
	return nil
}

func (s *Store) loadRaster(ctx context.Context, table rasterTable, artworkID int64) (*model.Raster, error) {
	var r model.Raster
	row := s.db.QueryRowContext(ctx,
		`SELECT w, h, pix FROM `+string(table)+` WHERE artwork_id = ?`, artworkID)
	if err := row.Scan(&r.W, &r.H, &r.Pix); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Internal, "loading "+string(table)+" raster", err)
	}
	return &r, nil
}

func (s *Store) SaveTemplate(ctx context.Context, id int64, r *model.Raster) error {
	return s.saveRaster(ctx, tableTemplates, id, r)
}
func (s *Store) LoadTemplate(ctx context.Context, id int64) (*model.Raster, error) {
	return s.loadRaster(ctx, tableTemplates, id)
}

func (s *Store) SaveGround(ctx context.Context, id int64, r *model.Raster) error {
	return s.saveRaster(ctx, tableGrounds, id, r)
}
func (s *Store) LoadGround(ctx context.Context, id int64) (*model.Raster, error) {
	return s.loadRaster(ctx, tableGrounds, id)
}

func (s *Store) SaveBaseline(ctx context.Context, id int64, r *model.Raster) error {
	return s.saveRaster(ctx, tableBaselines, id, r)
}
func (s *Store) LoadBaseline(ctx context.Context, id int64) (*model.Raster, error) {
	return s.loadRaster(ctx, tableBaselines, id)
}

func (s *Store) SaveMask(ctx context.Context, id int64, r *model.Raster) error {
	return s.saveRaster(ctx, tableMasks, id, r)
}
func (s *Store) LoadMask(ctx context.Context, id int64) (*model.Raster, error) {
	return s.loadRaster(ctx, tableMasks, id)
}
