package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/godruoyi/go-snowflake"
	"github.com/google/uuid"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/storage"
)

const tourColumns = `id, name, description, destination, start_date, end_date, status,
	captain_id, join_code, is_active, created_at`

// newJoinCode returns a short unique code derived from a snowflake ID.
func newJoinCode() string {
	return strings.ToUpper(strconv.FormatUint(snowflake.ID(), 36))
}

// CreateTour persists a new tour and makes its captain the first member.
func (s *SQLiteStore) CreateTour(ctx context.Context, tour *models.Tour) error {
	if tour.ID == "" {
		tour.ID = uuid.New().String()
	}
	if tour.CreatedAt == 0 {
		tour.CreatedAt = time.Now().Unix()
	}
	if tour.JoinCode == "" {
		tour.JoinCode = newJoinCode()
	}
	if tour.Status == "" {
		tour.Status = models.TourPlanning
	}
	tour.IsActive = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tours (`+tourColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tour.ID, tour.Name, tour.Description, tour.Destination, tour.StartDate, tour.EndDate,
		string(tour.Status), tour.CaptainID, tour.JoinCode, tour.IsActive, tour.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tour: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO tour_members (tour_id, user_id, joined_at) VALUES (?, ?, ?)",
		tour.ID, tour.CaptainID, tour.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert captain: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	members, err := s.tourMembers(ctx, tour.ID)
	if err != nil {
		return err
	}
	tour.Members = members
	return nil
}

// GetTour retrieves a tour by ID, including its members.
func (s *SQLiteStore) GetTour(ctx context.Context, tourID string) (*models.Tour, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = ?`, tourID)
	return s.loadTour(ctx, row)
}

// GetTourByJoinCode retrieves an active tour by its join code. Codes are case-insensitive.
func (s *SQLiteStore) GetTourByJoinCode(ctx context.Context, code string) (*models.Tour, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tourColumns+` FROM tours WHERE join_code = ? AND is_active = 1`,
		strings.ToUpper(strings.TrimSpace(code)),
	)
	return s.loadTour(ctx, row)
}

// ListToursForMember returns the active tours a user belongs to, newest first.
func (s *SQLiteStore) ListToursForMember(ctx context.Context, userID string) ([]*models.Tour, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id FROM tours t
		JOIN tour_members tm ON tm.tour_id = t.id
		WHERE tm.user_id = ? AND t.is_active = 1
		ORDER BY t.created_at DESC, t.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan tour id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tours: %w", err)
	}

	tours := make([]*models.Tour, 0, len(ids))
	for _, id := range ids {
		tour, err := s.GetTour(ctx, id)
		if err != nil {
			return nil, err
		}
		tours = append(tours, tour)
	}
	return tours, nil
}

// AddTourMember adds a user to a tour.
func (s *SQLiteStore) AddTourMember(ctx context.Context, tourID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tour_members (tour_id, user_id, joined_at) VALUES (?, ?, ?)
		ON CONFLICT (tour_id, user_id) DO NOTHING`,
		tourID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add tour member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to add tour member: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %s of tour %s: %w", userID, tourID, storage.ErrAlreadyExists)
	}
	return nil
}

// UpdateTourStatus changes a tour's lifecycle status.
func (s *SQLiteStore) UpdateTourStatus(ctx context.Context, tourID string, status models.TourStatus) error {
	res, err := s.db.ExecContext(ctx, "UPDATE tours SET status = ? WHERE id = ?", string(status), tourID)
	if err != nil {
		return fmt.Errorf("failed to update tour status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update tour status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("tour %s: %w", tourID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) loadTour(ctx context.Context, row *sql.Row) (*models.Tour, error) {
	tour := &models.Tour{}
	var status string
	err := row.Scan(
		&tour.ID, &tour.Name, &tour.Description, &tour.Destination, &tour.StartDate, &tour.EndDate,
		&status, &tour.CaptainID, &tour.JoinCode, &tour.IsActive, &tour.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tour: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	tour.Status = models.TourStatus(status)

	members, err := s.tourMembers(ctx, tour.ID)
	if err != nil {
		return nil, err
	}
	tour.Members = members
	return tour, nil
}

func (s *SQLiteStore) tourMembers(ctx context.Context, tourID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tm.user_id, u.display_name, tm.joined_at
		FROM tour_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.tour_id = ?
		ORDER BY tm.joined_at, tm.rowid`,
		tourID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tour member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tour members: %w", err)
	}
	return members, nil
}
