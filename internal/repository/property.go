package repository

import (
	"context"
	"encoding/json"

	"estatehub-backend/internal/model"
	"estatehub-backend/internal/query"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const propertyColumns = `id, user_id, created_at, updated_at, site_path, title, description,
	province, regency, street, gmap_iframe, price, images, purchase_status, sold_status,
	measurements, building_type, building_condition, building_furniture_capacity,
	building_certificate, specifications, facilities, is_deleted, sold_channel,
	configurations, currency, rent_time, description_seo, price_down_payment,
	developer_id, bank_id`

const joinedColumns = `p.id, p.user_id, p.created_at, p.updated_at, p.site_path, p.title, p.description,
	p.province, p.regency, p.street, p.gmap_iframe, p.price, p.images, p.purchase_status, p.sold_status,
	p.measurements, p.building_type, p.building_condition, p.building_furniture_capacity,
	p.building_certificate, p.specifications, p.facilities, p.is_deleted, p.sold_channel,
	p.configurations, p.currency, p.rent_time, p.description_seo, p.price_down_payment,
	p.developer_id, p.bank_id,
	a.id, a.created_at, a.updated_at, a.fullname, a.email, a.phone_number,
	a.profile_picture_url, a.role, a.instagram, a.description`

const joinAgents = ` FROM properties p INNER JOIN agents a ON a.id = p.user_id`

type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the snapshot
// variant can reuse the same query paths.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PropertyRepository) FindMany(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
	spec, _ := query.Compose(ident, f)
	return r.findBySpec(ctx, r.pool, spec)
}

func (r *PropertyRepository) CountFindMany(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) (int64, error) {
	_, count := query.Compose(ident, f)
	return r.countWhere(ctx, r.pool, count)
}

// FindManyWithCount pins the fetch and the count to one repeatable-read
// snapshot, for callers that cannot tolerate the two diverging under
// concurrent writes.
func (r *PropertyRepository) FindManyWithCount(ctx context.Context, ident *model.Identity, f *model.PropertyFilter) ([]model.PropertyWithAgent, int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	spec, count := query.Compose(ident, f)
	rows, err := r.findBySpec(ctx, tx, spec)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.countWhere(ctx, tx, count)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *PropertyRepository) FindManyRelated(ctx context.Context, subjectID int32, f *model.PropertyFilter) ([]model.PropertyWithAgent, error) {
	return r.findBySpec(ctx, r.pool, query.ComposeRelated(subjectID, f))
}

func (r *PropertyRepository) findBySpec(ctx context.Context, q querier, spec query.Spec) ([]model.PropertyWithAgent, error) {
	sel := "SELECT "
	if spec.DistinctOnSlug {
		sel += "DISTINCT ON (p.site_path) "
	}
	tail, args := spec.Clauses()

	rows, err := q.Query(ctx, sel+joinedColumns+joinAgents+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PropertyWithAgent
	for rows.Next() {
		var pa model.PropertyWithAgent
		if err := scanPropertyWithAgent(rows, &pa); err != nil {
			return nil, err
		}
		result = append(result, pa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		result = []model.PropertyWithAgent{}
	}
	return result, nil
}

func (r *PropertyRepository) countWhere(ctx context.Context, q querier, where query.Expr) (int64, error) {
	sql := "SELECT COUNT(*) FROM properties p"
	cond, args := query.Render(where)
	if cond != "" {
		sql += " WHERE " + cond
	}
	var total int64
	err := q.QueryRow(ctx, sql, args...).Scan(&total)
	return total, err
}

func (r *PropertyRepository) FindOneByID(ctx context.Context, id int32) (*model.PropertyWithAgent, error) {
	var pa model.PropertyWithAgent
	row := r.pool.QueryRow(ctx, "SELECT "+joinedColumns+joinAgents+" WHERE p.id = $1", id)
	if err := scanPropertyWithAgent(row, &pa); err != nil {
		return nil, err
	}
	return &pa, nil
}

func (r *PropertyRepository) Create(ctx context.Context, userID uuid.UUID, rec *model.PropertyRecord) (*model.Property, error) {
	p := &model.Property{}
	err := scanProperty(r.pool.QueryRow(ctx, `
		INSERT INTO properties (
			user_id, site_path, title, description, province, regency, street,
			gmap_iframe, price, images, purchase_status, sold_status, measurements,
			building_type, building_condition, building_furniture_capacity,
			building_certificate, specifications, facilities, sold_channel,
			configurations, currency, rent_time, description_seo, price_down_payment,
			developer_id, bank_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, '{}', $21, $22, $23, $24, $25, $26)
		RETURNING `+propertyColumns,
		userID, rec.SitePath, rec.Title, rec.Description, rec.Province, rec.Regency, rec.Street,
		rec.GmapIframe, rec.Price, rec.Images, rec.PurchaseStatus, rec.SoldStatus, rec.Measurements,
		rec.BuildingType, rec.BuildingCondition, rec.BuildingFurnitureCapacity,
		rec.BuildingCertificate, rec.Specifications, rec.Facilities, rec.SoldChannel,
		rec.Currency, rec.RentTime, rec.DescriptionSEO, rec.PriceDownPayment,
		rec.DeveloperID, rec.BankID,
	), p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PropertyRepository) Update(ctx context.Context, id int32, rec *model.PropertyRecord) (*model.Property, error) {
	p := &model.Property{}
	err := scanProperty(r.pool.QueryRow(ctx, `
		UPDATE properties SET
			site_path = $2, title = $3, description = $4, province = $5, regency = $6,
			street = $7, gmap_iframe = $8, price = $9, images = $10, purchase_status = $11,
			sold_status = $12, measurements = $13, building_type = $14,
			building_condition = $15, building_furniture_capacity = $16,
			building_certificate = $17, specifications = $18, facilities = $19,
			sold_channel = $20, currency = $21, rent_time = $22, description_seo = $23,
			price_down_payment = $24, developer_id = $25, bank_id = $26, updated_at = NOW()
		WHERE id = $1
		RETURNING `+propertyColumns,
		id, rec.SitePath, rec.Title, rec.Description, rec.Province, rec.Regency,
		rec.Street, rec.GmapIframe, rec.Price, rec.Images, rec.PurchaseStatus,
		rec.SoldStatus, rec.Measurements, rec.BuildingType,
		rec.BuildingCondition, rec.BuildingFurnitureCapacity,
		rec.BuildingCertificate, rec.Specifications, rec.Facilities,
		rec.SoldChannel, rec.Currency, rec.RentTime, rec.DescriptionSEO,
		rec.PriceDownPayment, rec.DeveloperID, rec.BankID,
	), p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete is a soft flag flip for agents and a hard removal for admins.
func (r *PropertyRepository) Delete(ctx context.Context, id int32, role model.AgentRole) (*model.Property, error) {
	p := &model.Property{}
	var row pgx.Row
	if role == model.RoleAdmin {
		row = r.pool.QueryRow(ctx, "DELETE FROM properties WHERE id = $1 RETURNING "+propertyColumns, id)
	} else {
		row = r.pool.QueryRow(ctx, "UPDATE properties SET is_deleted = true, updated_at = NOW() WHERE id = $1 RETURNING "+propertyColumns, id)
	}
	if err := scanProperty(row, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PropertyRepository) UpdateConfigurations(ctx context.Context, id int32, configurations json.RawMessage) (*model.Property, error) {
	p := &model.Property{}
	err := scanProperty(r.pool.QueryRow(ctx, `
		UPDATE properties SET configurations = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+propertyColumns, id, configurations), p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PropertyRepository) DistinctSitePaths(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT ON (site_path) site_path FROM properties ORDER BY site_path ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

type BuildingTypePath struct {
	PurchaseStatus model.PurchaseStatus
	BuildingType   string
}

func (r *PropertyRepository) DistinctBuildingTypePaths(ctx context.Context) ([]BuildingTypePath, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (purchase_status, building_type) purchase_status, building_type
		FROM properties
		ORDER BY purchase_status ASC, building_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []BuildingTypePath
	for rows.Next() {
		var p BuildingTypePath
		if err := rows.Scan(&p.PurchaseStatus, &p.BuildingType); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

type ProvincePath struct {
	PurchaseStatus model.PurchaseStatus
	BuildingType   string
	Province       string
}

func (r *PropertyRepository) DistinctProvincePaths(ctx context.Context) ([]ProvincePath, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (purchase_status, building_type, province)
			purchase_status, building_type, province
		FROM properties
		ORDER BY purchase_status ASC, building_type ASC, province ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []ProvincePath
	for rows.Next() {
		var p ProvincePath
		if err := rows.Scan(&p.PurchaseStatus, &p.BuildingType, &p.Province); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

type RegencyPath struct {
	PurchaseStatus model.PurchaseStatus
	BuildingType   string
	Province       string
	Regency        string
}

func (r *PropertyRepository) DistinctRegencyPaths(ctx context.Context) ([]RegencyPath, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (purchase_status, building_type, province, regency)
			purchase_status, building_type, province, regency
		FROM properties
		ORDER BY purchase_status ASC, building_type ASC, province ASC, regency ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []RegencyPath
	for rows.Next() {
		var p RegencyPath
		if err := rows.Scan(&p.PurchaseStatus, &p.BuildingType, &p.Province, &p.Regency); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func scanProperty(row pgx.Row, p *model.Property) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.CreatedAt, &p.UpdatedAt, &p.SitePath, &p.Title, &p.Description,
		&p.Province, &p.Regency, &p.Street, &p.GmapIframe, &p.Price, &p.Images,
		&p.PurchaseStatus, &p.SoldStatus, &p.Measurements, &p.BuildingType,
		&p.BuildingCondition, &p.BuildingFurnitureCapacity, &p.BuildingCertificate,
		&p.Specifications, &p.Facilities, &p.IsDeleted, &p.SoldChannel, &p.Configurations,
		&p.Currency, &p.RentTime, &p.DescriptionSEO, &p.PriceDownPayment,
		&p.DeveloperID, &p.BankID,
	)
}

func scanPropertyWithAgent(row pgx.Row, pa *model.PropertyWithAgent) error {
	p, a := &pa.Property, &pa.Agent
	return row.Scan(
		&p.ID, &p.UserID, &p.CreatedAt, &p.UpdatedAt, &p.SitePath, &p.Title, &p.Description,
		&p.Province, &p.Regency, &p.Street, &p.GmapIframe, &p.Price, &p.Images,
		&p.PurchaseStatus, &p.SoldStatus, &p.Measurements, &p.BuildingType,
		&p.BuildingCondition, &p.BuildingFurnitureCapacity, &p.BuildingCertificate,
		&p.Specifications, &p.Facilities, &p.IsDeleted, &p.SoldChannel, &p.Configurations,
		&p.Currency, &p.RentTime, &p.DescriptionSEO, &p.PriceDownPayment,
		&p.DeveloperID, &p.BankID,
		&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Fullname, &a.Email, &a.PhoneNumber,
		&a.ProfilePictureURL, &a.Role, &a.Instagram, &a.Description,
	)
}
