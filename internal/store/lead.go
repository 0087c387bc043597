package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/leadbase/apiserver/types"
)

// LeadRepository handles persistence for leads.
type LeadRepository struct {
	db *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a lead exactly as given and returns its ID.
func (r *LeadRepository) Create(ctx context.Context, lead types.LeadInput) (int64, error) {
	query := r.db.Rebind(`
		INSERT INTO leads (name, email, celular, genero, situacao)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	var id int64
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Gender,
		lead.Status,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]types.Lead, error) {
	const query = `
		SELECT id, name, email, celular, genero, situacao
		FROM leads
		ORDER BY id`
	leads := []types.Lead{}
	if err := r.db.SelectContext(ctx, &leads, query); err != nil {
		return nil, err
	}
	return leads, nil
}

// Update overwrites every field of the lead and returns the number of rows
// matched. Zero means no lead has that ID.
func (r *LeadRepository) Update(ctx context.Context, id int64, lead types.LeadInput) (int64, error) {
	query := r.db.Rebind(`
		UPDATE leads
		SET name = ?,
			email = ?,
			celular = ?,
			genero = ?,
			situacao = ?
		WHERE id = ?`)
	result, err := r.db.ExecContext(
		ctx,
		query,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Gender,
		lead.Status,
		id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes the lead and returns the number of rows matched.
func (r *LeadRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query := r.db.Rebind(`DELETE FROM leads WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountByGender groups leads by their exact gender value. NULL forms its own group.
func (r *LeadRepository) CountByGender(ctx context.Context) ([]types.GenderCount, error) {
	const query = `
		SELECT genero, COUNT(*) AS count
		FROM leads
		GROUP BY genero
		ORDER BY genero`
	rows := []types.GenderCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByStatus groups leads by their exact status value. NULL forms its own group.
func (r *LeadRepository) CountByStatus(ctx context.Context) ([]types.StatusCount, error) {
	const query = `
		SELECT situacao, COUNT(*) AS count
		FROM leads
		GROUP BY situacao
		ORDER BY situacao`
	rows := []types.StatusCount{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}
