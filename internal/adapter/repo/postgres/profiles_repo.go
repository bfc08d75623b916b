package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// ProfileRepo persists parsed profiles. The profile document itself is
// stored as JSONB; the columns hold what queries filter on.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// Create stores a profile and returns its id (generates one if empty).
func (r *ProfileRepo) Create(ctx domain.Context, sp domain.StoredProfile) (string, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "profiles"),
	)
	id := sp.ID
	if id == "" {
		id = uuid.New().String()
	}
	doc, err := json.Marshal(sp.Profile)
	if err != nil {
		return "", fmt.Errorf("op=profile.create: marshal: %w", err)
	}
	createdAt := sp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	q := `INSERT INTO profiles (id, document, source, strategy, ai_error, filename, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := r.Pool.Exec(ctx, q, id, doc, sp.Diagnostics.Source, sp.Diagnostics.Strategy, sp.Diagnostics.AIError, sp.Filename, createdAt); err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	return id, nil
}

// Get loads a profile by id.
func (r *ProfileRepo) Get(ctx domain.Context, id string) (domain.StoredProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Get")
	defer span.End()
	q := `SELECT id, document, source, COALESCE(strategy,''), COALESCE(ai_error,''), filename, created_at FROM profiles WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var sp domain.StoredProfile
	var doc []byte
	if err := row.Scan(&sp.ID, &doc, &sp.Diagnostics.Source, &sp.Diagnostics.Strategy, &sp.Diagnostics.AIError, &sp.Filename, &sp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StoredProfile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.StoredProfile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	if err := json.Unmarshal(doc, &sp.Profile); err != nil {
		return domain.StoredProfile{}, fmt.Errorf("op=profile.get: unmarshal: %w", err)
	}
	return sp, nil
}
