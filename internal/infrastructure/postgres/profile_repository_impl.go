package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/pharmadocs/internal/domain/entity"
	"github.com/oksasatya/pharmadocs/internal/domain/repository"
)

// docColumns is the only source of column names interpolated into SQL.
var docColumns = map[entity.DocKey]string{
	entity.DocDrugLicense:            "doc_drug_license",
	entity.DocGSTCertificate:         "doc_gst_certificate",
	entity.DocPharmacistRegistration: "doc_pharmacist_registration",
}

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Ensure(ctx context.Context, ownerID string) (*entity.Profile, error) {
	// The unique owner_id constraint turns concurrent first calls into no-ops.
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (owner_id, lang)
		VALUES ($1, $2)
		ON CONFLICT (owner_id) DO NOTHING
	`, ownerID, entity.DefaultLang); err != nil {
		return nil, err
	}

	p := &entity.Profile{}
	var drug, gst, reg *string
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, pharmacy_name, license_number, phone, address, lang,
		       doc_drug_license, doc_gst_certificate, doc_pharmacist_registration,
		       created_at, updated_at
		FROM profiles
		WHERE owner_id = $1
	`, ownerID)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.PharmacyName, &p.LicenseNumber, &p.Phone, &p.Address, &p.Lang,
		&drug, &gst, &reg, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	p.Docs = entity.NewDocs()
	p.Docs[entity.DocDrugLicense] = drug
	p.Docs[entity.DocGSTCertificate] = gst
	p.Docs[entity.DocPharmacistRegistration] = reg
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, ownerID string, patch entity.ProfilePatch) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET pharmacy_name  = COALESCE($2, pharmacy_name),
		    license_number = COALESCE($3, license_number),
		    phone          = COALESCE($4, phone),
		    address        = COALESCE($5, address),
		    lang           = COALESCE($6, lang),
		    updated_at     = now()
		WHERE owner_id = $1
	`, ownerID, patch.PharmacyName, patch.LicenseNumber, patch.Phone, patch.Address, patch.Lang)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) SwapDoc(ctx context.Context, ownerID string, key entity.DocKey, blobID string) (*string, error) {
	col, ok := docColumns[key]
	if !ok {
		return nil, fmt.Errorf("unknown doc key %q", key)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var old *string
	err = tx.QueryRow(ctx, `SELECT `+col+` FROM profiles WHERE owner_id = $1 FOR UPDATE`, ownerID).Scan(&old)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE profiles SET `+col+` = $2, updated_at = now() WHERE owner_id = $1`, ownerID, blobID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return old, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
