package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fire_alert_system/internal/models"
	"github.com/shenikar/fire_alert_system/internal/service"
)

// ErrAuditConstraint - запись аудита ссылается на несуществующий инцидент.
// По контракту оркестровки такого быть не должно: это ошибка в коде, а не во входных данных.
var ErrAuditConstraint = errors.New("audit entry references missing incident")

const incidentColumns = `
	id,
	device_id,
	phone,
	timestamp,
	latitude,
	longitude,
	accuracy,
	language,
	transmission_type,
	photo_path,
	status,
	created_at,
	updated_at`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// CreateWithAudit вставляет инцидент и его первую запись аудита в одной транзакции:
// инцидент не может стать видимым без записи 'created', и наоборот.
func (r *IncidentRepository) CreateWithAudit(ctx context.Context, incident *models.Incident, notes string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// NOW() стабильна внутри транзакции, поэтому created_at, updated_at и
	// timestamp записи аудита совпадают с точностью до микросекунды
	query := `
		INSERT INTO incidents (
			id, device_id, phone, timestamp, latitude, longitude,
			accuracy, language, transmission_type, photo_path, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at;
	`
	err = tx.QueryRow(ctx, query,
		incident.ID,
		incident.DeviceID,
		incident.Phone,
		incident.Timestamp,
		incident.Latitude,
		incident.Longitude,
		incident.Accuracy,
		incident.Language,
		incident.TransmissionType,
		incident.PhotoPath,
		incident.Status,
	).Scan(&incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if err := appendAudit(ctx, tx, incident.ID, models.ActionCreated, models.ActorSystem, notes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit create transaction: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его идентификатору
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List возвращает инциденты от новых к старым, опционально по одному статусу и с лимитом
func (r *IncidentRepository) List(ctx context.Context, status models.Status, limit int) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents`
	args := []any{}

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// UpdateStatusWithAudit меняет статус и добавляет запись аудита в одной транзакции.
// Читатель никогда не увидит смену статуса без соответствующей записи журнала.
func (r *IncidentRepository) UpdateStatusWithAudit(ctx context.Context, id string, status models.Status, actor, notes string) (*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE incidents SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + incidentColumns + `;
	`
	incident, err := scanIncident(tx.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}

	if err := appendAudit(ctx, tx, id, models.ActionStatusChanged, actor, notes); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update transaction: %w", err)
	}
	return incident, nil
}

// ListAuditFor возвращает журнал аудита инцидента от новых записей к старым
func (r *IncidentRepository) ListAuditFor(ctx context.Context, incidentID string) ([]*models.AuditLogEntry, error) {
	query := `
		SELECT id, incident_id, action, actor, notes, timestamp
		FROM audit_log
		WHERE incident_id = $1
		ORDER BY timestamp DESC, id DESC;
	`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.AuditLogEntry, 0)
	for rows.Next() {
		entry := &models.AuditLogEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.IncidentID,
			&entry.Action,
			&entry.Actor,
			&entry.Notes,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error audit log iteration: %w", err)
	}
	return entries, nil
}

// appendAudit добавляет одну неизменяемую запись журнала в рамках транзакции
func appendAudit(ctx context.Context, tx pgx.Tx, incidentID, action, actor, notes string) error {
	query := `
		INSERT INTO audit_log (incident_id, action, actor, notes)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := tx.Exec(ctx, query, incidentID, action, actor, notes); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: incident %s", ErrAuditConstraint, incidentID)
		}
		return fmt.Errorf("failed to append audit log entry: %w", err)
	}
	return nil
}

// scanIncident читает одну строку инцидента
func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.DeviceID,
		&incident.Phone,
		&incident.Timestamp,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Accuracy,
		&incident.Language,
		&incident.TransmissionType,
		&incident.PhotoPath,
		&incident.Status,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID)
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Устанавливаем срок жизни кэша, например, 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id string) error {
	key := fmt.Sprintf("incident:%s", id)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
