package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var ErrInvalidCycleID = errors.New("cycle id is not a uuid")

// Insert is idempotent per cycle id.
func (r *AuditRepository) Insert(ctx context.Context, rec *models.AuditRecord) error {
	if !models.ValidUUID(rec.CycleID) {
		return fmt.Errorf("%w: %q", ErrInvalidCycleID, rec.CycleID)
	}

	alarm, err := json.Marshal(rec.Alarm)
	if err != nil {
		return fmt.Errorf("encode alarm: %w", err)
	}
	metrics, err := json.Marshal(rec.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	decision, err := nullableJSON(rec.Decision)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	result, err := nullableJSON(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	var (
		action, urgency        sql.NullString
		target, previous, next sql.NullInt64
		confidence             sql.NullFloat64
		errText, errKind       sql.NullString
	)
	if d := rec.Decision; d != nil {
		action = sql.NullString{String: string(d.Action), Valid: true}
		urgency = sql.NullString{String: string(d.Urgency), Valid: true}
		target = sql.NullInt64{Int64: int64(d.TargetReplicas), Valid: true}
		confidence = sql.NullFloat64{Float64: d.Confidence, Valid: true}
	}
	if res := rec.Result; res != nil {
		previous = sql.NullInt64{Int64: int64(res.PreviousReplicas), Valid: true}
		next = sql.NullInt64{Int64: int64(res.NewReplicas), Valid: true}
	}
	if rec.Failed() {
		errText = sql.NullString{String: rec.Error, Valid: true}
		errKind = sql.NullString{String: string(rec.ErrorKind), Valid: true}
	}

	query := `
		INSERT INTO audit_records (
			cycle_id, timestamp, deployment, status, action, target_replicas,
			previous_replicas, new_replicas, confidence, urgency, error, error_kind,
			alarm, metrics, decision, result
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (cycle_id) DO NOTHING`

	_, err = r.db.ExecContext(ctx, query,
		rec.CycleID, rec.Timestamp, rec.Deployment.String(), string(rec.Status),
		action, target, previous, next, confidence, urgency, errText, errKind,
		string(alarm), string(metrics), decision, result,
	)
	return err
}

func (r *AuditRepository) Recent(ctx context.Context, ref models.DeploymentRef, limit int) ([]models.AuditRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT cycle_id, timestamp, status, COALESCE(error, ''), COALESCE(error_kind, ''),
			   alarm, metrics, decision, result
		FROM audit_records
		WHERE deployment = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, ref.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.AuditRecord{}
	for rows.Next() {
		var (
			rec              models.AuditRecord
			status, errKind  string
			alarm, metrics   []byte
			decision, result []byte
		)
		if err := rows.Scan(
			&rec.CycleID, &rec.Timestamp, &status, &rec.Error, &errKind,
			&alarm, &metrics, &decision, &result,
		); err != nil {
			return nil, err
		}

		rec.Deployment = ref
		rec.Status = models.CycleStatus(status)
		rec.ErrorKind = models.ErrorKind(errKind)
		if err := decodeRecord(&rec, alarm, metrics, decision, result); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

type AuditStats struct {
	Deployment     string         `json:"deployment"`
	Since          time.Time      `json:"since"`
	TotalCycles    int            `json:"total_cycles"`
	FailedCycles   int            `json:"failed_cycles"`
	ScaleUps       int            `json:"scale_ups"`
	ScaleDowns     int            `json:"scale_downs"`
	NoActions      int            `json:"no_actions"`
	AvgConfidence  float64        `json:"avg_confidence"`
	FailuresByKind map[string]int `json:"failures_by_kind"`
}

func (r *AuditRepository) Stats(ctx context.Context, ref models.DeploymentRef, since time.Time) (*AuditStats, error) {
	deployment := ref.String()
	stats := &AuditStats{
		Deployment:     deployment,
		Since:          since,
		FailuresByKind: map[string]int{},
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE action = 'SCALE_UP'),
			COUNT(*) FILTER (WHERE action = 'SCALE_DOWN'),
			COUNT(*) FILTER (WHERE action = 'NO_ACTION'),
			COALESCE(AVG(confidence), 0)
		FROM audit_records
		WHERE deployment = $1 AND timestamp >= $2`

	err := r.db.QueryRowContext(ctx, query, deployment, since).Scan(
		&stats.TotalCycles, &stats.FailedCycles,
		&stats.ScaleUps, &stats.ScaleDowns, &stats.NoActions,
		&stats.AvgConfidence,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT error_kind, COUNT(*)
		FROM audit_records
		WHERE deployment = $1 AND timestamp >= $2 AND status = 'failed'
		GROUP BY error_kind`, deployment, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind  sql.NullString
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		stats.FailuresByKind[kind.String] = count
	}

	return stats, rows.Err()
}

func nullableJSON(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case *models.ScalingDecision:
		if t == nil {
			return nil, nil
		}
	case *models.ExecutionResult:
		if t == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// lib/pq sends []byte as bytea, which jsonb columns reject.
	return string(b), nil
}

func decodeRecord(rec *models.AuditRecord, alarm, metrics, decision, result []byte) error {
	if err := json.Unmarshal(alarm, &rec.Alarm); err != nil {
		return fmt.Errorf("decode alarm: %w", err)
	}
	if err := json.Unmarshal(metrics, &rec.Metrics); err != nil {
		return fmt.Errorf("decode metrics: %w", err)
	}
	if len(decision) > 0 {
		rec.Decision = &models.ScalingDecision{}
		if err := json.Unmarshal(decision, rec.Decision); err != nil {
			return fmt.Errorf("decode decision: %w", err)
		}
	}
	if len(result) > 0 {
		rec.Result = &models.ExecutionResult{}
		if err := json.Unmarshal(result, rec.Result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}
