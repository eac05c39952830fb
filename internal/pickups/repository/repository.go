// Package repository persists bookings, material estimates and delivery
// assignments in PostgreSQL. Every method runs on the transaction carried by
// ctx when there is one.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ewaste_pickup_backend/internal/pickups/domain"
	"ewaste_pickup_backend/platform/apperr"
	"ewaste_pickup_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `b.id, b.user_id, b.customer_name, b.category, b.device_model,
		b.apartment_name, b.street_number, b.area, b.state, b.postal_code,
		b.contact_phone, b.photo_key, b.route_id, b.scheduling_state, b.fulfillment_state, b.created_at`

const (
	insertBookingQuery = `
		INSERT INTO bookings (
			id, user_id, customer_name, category, device_model,
			apartment_name, street_number, area, state, postal_code,
			contact_phone, photo_key, scheduling_state, fulfillment_state
		)
		SELECT $1, u.id, u.username, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'unscheduled', 'none'
		FROM users u
		WHERE u.id = $2
		RETURNING customer_name, created_at`

	insertMaterialsQuery = `
		INSERT INTO booking_materials (booking_id, material, quantity)
		SELECT $1, t.material, t.quantity
		FROM unnest($2::text[], $3::float8[]) AS t(material, quantity)`

	lockBookingQuery = `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.id = $1
		FOR UPDATE`

	listRouteCandidatesQuery = `
		SELECT id, postal_code
		FROM bookings
		WHERE scheduling_state = 'unscheduled'
		  AND fulfillment_state IN ('none', 'assigned')
		ORDER BY created_at, id
		FOR UPDATE`

	applyRoutePlanQuery = `
		UPDATE bookings AS b
		SET route_id = v.route_id, scheduling_state = 'scheduled'
		FROM unnest($1::uuid[], $2::int[]) AS v(id, route_id)
		WHERE b.id = v.id AND b.scheduling_state = 'unscheduled'`

	upsertAssignmentQuery = `
		INSERT INTO deliveries (id, booking_id, agent_id, status, assigned_at, completed_at)
		VALUES ($1, $2, $3, 'assigned', now(), NULL)
		ON CONFLICT (booking_id) DO UPDATE
		SET agent_id = EXCLUDED.agent_id,
		    status = 'assigned',
		    assigned_at = now(),
		    completed_at = NULL
		RETURNING id, booking_id, agent_id, status, assigned_at, completed_at`

	pickupsOverviewQuery = `
		SELECT ` + bookingColumns + `, d.status, d.agent_id, u.username
		FROM bookings b
		LEFT JOIN deliveries d ON d.booking_id = b.id
		LEFT JOIN users u ON u.id = d.agent_id
		ORDER BY (d.id IS NOT NULL), b.created_at DESC`

	agentAssignmentsQuery = `
		SELECT ` + bookingColumns + `,
		       d.id, d.booking_id, d.agent_id, d.status, d.assigned_at, d.completed_at
		FROM bookings b
		JOIN deliveries d ON d.booking_id = b.id
		WHERE d.agent_id = $1
		ORDER BY d.assigned_at DESC`

	sumMaterialsQuery = `
		SELECT m.material, SUM(m.quantity)
		FROM booking_materials m
		JOIN bookings b ON b.id = m.booking_id
		WHERE ($1::uuid IS NULL OR b.user_id = $1)
		GROUP BY m.material`
)

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool db.Querier
}

func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func scanBooking(row pgx.Row, extra ...any) (domain.Booking, error) {
	var b domain.Booking
	dest := []any{
		&b.ID, &b.UserID, &b.CustomerName, &b.Category, &b.DeviceModel,
		&b.Address.ApartmentName, &b.Address.StreetNumber, &b.Address.Area, &b.Address.State, &b.Address.PostalCode,
		&b.ContactPhone, &b.PhotoKey, &b.RouteID, &b.Scheduling, &b.Fulfillment, &b.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return b, err
}

func (r *Repo) InsertBooking(ctx context.Context, b *domain.Booking) error {
	err := r.conn(ctx).QueryRow(ctx, insertBookingQuery,
		b.ID, b.UserID, b.Category, b.DeviceModel,
		b.Address.ApartmentName, b.Address.StreetNumber, b.Address.Area, b.Address.State, b.Address.PostalCode,
		b.ContactPhone, b.PhotoKey,
	).Scan(&b.CustomerName, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	b.Scheduling = domain.Unscheduled
	b.Fulfillment = domain.FulfillmentNone
	return nil
}

func (r *Repo) InsertMaterials(ctx context.Context, bookingID uuid.UUID, materials []domain.MaterialEstimate) error {
	if len(materials) == 0 {
		return nil
	}

	names := make([]string, len(materials))
	quantities := make([]float64, len(materials))
	for i, m := range materials {
		names[i] = string(m.Material)
		quantities[i] = m.Quantity
	}

	if _, err := r.conn(ctx).Exec(ctx, insertMaterialsQuery, bookingID, names, quantities); err != nil {
		return fmt.Errorf("insert materials: %w", err)
	}
	return nil
}

func (r *Repo) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	b, err := scanBooking(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, apperr.NotFound("booking not found")
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}

	withMaterials := []domain.Booking{b}
	if err := r.attachMaterials(ctx, withMaterials); err != nil {
		return domain.Booking{}, err
	}
	return withMaterials[0], nil
}

func (r *Repo) LockBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	b, err := scanBooking(r.conn(ctx).QueryRow(ctx, lockBookingQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, apperr.NotFound("booking not found")
		}
		return domain.Booking{}, fmt.Errorf("lock booking: %w", err)
	}
	return b, nil
}

func (r *Repo) ListBookings(ctx context.Context, scope BookingScope) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE ($1::uuid IS NULL OR b.user_id = $1)
		ORDER BY b.created_at DESC, b.id`

	rows, err := r.conn(ctx).Query(ctx, query, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	if err := r.attachMaterials(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *Repo) attachMaterials(ctx context.Context, bookings []domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(bookings))
	index := make(map[uuid.UUID]int, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
		index[b.ID] = i
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT booking_id, material, quantity
		FROM booking_materials
		WHERE booking_id = ANY($1)
		ORDER BY booking_id, material`, ids)
	if err != nil {
		return fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID uuid.UUID
			m         domain.MaterialEstimate
		)
		if err := rows.Scan(&bookingID, &m.Material, &m.Quantity); err != nil {
			return fmt.Errorf("scan material: %w", err)
		}
		if i, ok := index[bookingID]; ok {
			bookings[i].Materials = append(bookings[i].Materials, m)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate materials: %w", err)
	}
	return nil
}

func (r *Repo) ListRouteCandidates(ctx context.Context) ([]domain.RouteCandidate, error) {
	rows, err := r.conn(ctx).Query(ctx, listRouteCandidatesQuery)
	if err != nil {
		return nil, fmt.Errorf("list route candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]domain.RouteCandidate, 0)
	for rows.Next() {
		var c domain.RouteCandidate
		if err := rows.Scan(&c.BookingID, &c.PostalCode); err != nil {
			return nil, fmt.Errorf("scan route candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route candidates: %w", err)
	}
	return candidates, nil
}

func (r *Repo) ApplyRoutePlan(ctx context.Context, assignments []domain.RouteAssignment) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(assignments))
	routes := make([]int32, len(assignments))
	for i, a := range assignments {
		ids[i] = a.BookingID
		routes[i] = int32(a.RouteID)
	}

	tag, err := r.conn(ctx).Exec(ctx, applyRoutePlanQuery, ids, routes)
	if err != nil {
		return 0, fmt.Errorf("apply route plan: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *Repo) SetFulfillment(ctx context.Context, bookingID uuid.UUID, state domain.FulfillmentState) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE bookings SET fulfillment_state = $2 WHERE id = $1`, bookingID, state)
	if err != nil {
		return fmt.Errorf("set fulfillment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("booking not found")
	}
	return nil
}

func scanAssignment(row pgx.Row) (domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.ID, &a.BookingID, &a.AgentID, &a.Status, &a.AssignedAt, &a.CompletedAt)
	return a, err
}

func (r *Repo) UpsertAssignment(ctx context.Context, bookingID, agentID uuid.UUID) (domain.Assignment, error) {
	a, err := scanAssignment(r.conn(ctx).QueryRow(ctx, upsertAssignmentQuery, uuid.New(), bookingID, agentID))
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("upsert assignment: %w", err)
	}
	return a, nil
}

func (r *Repo) GetAssignmentForAgent(ctx context.Context, bookingID, agentID uuid.UUID) (domain.Assignment, error) {
	query := `
		SELECT id, booking_id, agent_id, status, assigned_at, completed_at
		FROM deliveries
		WHERE booking_id = $1 AND agent_id = $2`

	a, err := scanAssignment(r.conn(ctx).QueryRow(ctx, query, bookingID, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, apperr.NotFound("delivery assignment not found")
		}
		return domain.Assignment{}, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (r *Repo) UpdateAssignmentStatus(ctx context.Context, bookingID uuid.UUID, status domain.FulfillmentState, completedAt *time.Time) error {
	query := `UPDATE deliveries SET status = $2, completed_at = $3 WHERE booking_id = $1`

	tag, err := r.conn(ctx).Exec(ctx, query, bookingID, status, completedAt)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("delivery assignment not found")
	}
	return nil
}

func (r *Repo) ListRoutes(ctx context.Context, agentID *uuid.UUID) ([]RouteSummary, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if agentID != nil {
		rows, err = r.conn(ctx).Query(ctx, `
			SELECT b.route_id, COUNT(*)
			FROM bookings b
			JOIN deliveries d ON d.booking_id = b.id
			WHERE d.agent_id = $1 AND b.scheduling_state = 'scheduled'
			GROUP BY b.route_id
			ORDER BY b.route_id`, *agentID)
	} else {
		rows, err = r.conn(ctx).Query(ctx, `
			SELECT route_id, COUNT(*)
			FROM bookings
			WHERE scheduling_state = 'scheduled'
			GROUP BY route_id
			ORDER BY route_id`)
	}
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	routes := make([]RouteSummary, 0)
	for rows.Next() {
		var rs RouteSummary
		if err := rows.Scan(&rs.RouteID, &rs.NumStops); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}
	return routes, nil
}

func (r *Repo) ListPickupsOverview(ctx context.Context) ([]PickupOverviewItem, error) {
	rows, err := r.conn(ctx).Query(ctx, pickupsOverviewQuery)
	if err != nil {
		return nil, fmt.Errorf("list pickups: %w", err)
	}
	defer rows.Close()

	items := make([]PickupOverviewItem, 0)
	for rows.Next() {
		var item PickupOverviewItem
		item.Booking, err = scanBooking(rows, &item.DeliveryStatus, &item.AgentID, &item.AgentUsername)
		if err != nil {
			return nil, fmt.Errorf("scan pickup: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pickups: %w", err)
	}
	return items, nil
}

func (r *Repo) ListAgentAssignments(ctx context.Context, agentID uuid.UUID) ([]AgentAssignment, error) {
	rows, err := r.conn(ctx).Query(ctx, agentAssignmentsQuery, agentID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	items := make([]AgentAssignment, 0)
	for rows.Next() {
		var (
			item AgentAssignment
			a    = &item.Assignment
		)
		item.Booking, err = scanBooking(rows, &a.ID, &a.BookingID, &a.AgentID, &a.Status, &a.AssignedAt, &a.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return items, nil
}

func (r *Repo) CountBookings(ctx context.Context, scope BookingScope, since *time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)`

	var count int
	if err := r.conn(ctx).QueryRow(ctx, query, scope.UserID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *Repo) SumMaterials(ctx context.Context, scope BookingScope) (map[domain.Material]float64, error) {
	rows, err := r.conn(ctx).Query(ctx, sumMaterialsQuery, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("sum materials: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.Material]float64)
	for rows.Next() {
		var (
			material domain.Material
			total    float64
		)
		if err := rows.Scan(&material, &total); err != nil {
			return nil, fmt.Errorf("scan material total: %w", err)
		}
		totals[material] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material totals: %w", err)
	}
	return totals, nil
}
