package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pms_metrics/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// =============================================================================
// Canonical Snapshots
// =============================================================================

// ReplaceSnapshot swaps the canonical rows for one (property, source) pair
// atomically. Syncs never patch rows in place; the previous snapshot is
// deleted inside the same transaction that writes the new one.
func (s *PostgresStore) ReplaceSnapshot(ctx context.Context, snap *models.PropertySnapshot) error {
	p := snap.Property
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"unified_leases", "unified_residents", "unified_units"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE property_id = $1 AND source = $2`, table)
		if _, err := tx.Exec(ctx, query, p.PropertyID, p.Source); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	query := `
		INSERT INTO unified_properties (
			id, property_id, source, name, address, city, state, zip, total_units, synced_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (property_id, source) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip = EXCLUDED.zip,
			total_units = EXCLUDED.total_units,
			synced_at = EXCLUDED.synced_at`

	if _, err := tx.Exec(ctx, query,
		p.ID, p.PropertyID, p.Source, p.Name, p.Address, p.City, p.State, p.Zip, p.TotalUnits, p.SyncedAt,
	); err != nil {
		return fmt.Errorf("upsert property: %w", err)
	}

	for i := range snap.Units {
		u := &snap.Units[i]
		query := `
			INSERT INTO unified_units (
				id, property_id, source, unit_number, floorplan_code, floorplan_name,
				bedrooms, bathrooms, sqft, market_rent, status, ready, available,
				days_vacant, available_date, on_notice_date, synced_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
		if _, err := tx.Exec(ctx, query,
			u.ID, u.PropertyID, u.Source, u.UnitNumber, u.FloorplanCode, u.FloorplanName,
			u.Bedrooms, u.Bathrooms, u.SqFt, u.MarketRent, u.Status, u.Ready, u.Available,
			u.DaysVacant, u.AvailableDate, u.OnNoticeDate, u.SyncedAt,
		); err != nil {
			return fmt.Errorf("insert unit %s: %w", u.UnitNumber, err)
		}
	}

	for i := range snap.Residents {
		r := &snap.Residents[i]
		query := `
			INSERT INTO unified_residents (
				id, property_id, source, resident_id, name, unit_number, rent, status,
				lease_start, lease_end, move_in, move_out, notice_date, synced_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		if _, err := tx.Exec(ctx, query,
			r.ID, r.PropertyID, r.Source, r.ResidentID, r.Name, r.UnitNumber, r.Rent, r.Status,
			r.LeaseStart, r.LeaseEnd, r.MoveIn, r.MoveOut, r.NoticeDate, r.SyncedAt,
		); err != nil {
			return fmt.Errorf("insert resident %s: %w", r.ResidentID, err)
		}
	}

	for i := range snap.Leases {
		l := &snap.Leases[i]
		query := `
			INSERT INTO unified_leases (
				id, property_id, source, resident_id, unit_number, rent,
				lease_start, lease_end, term_months, prior_lease_id, synced_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		if _, err := tx.Exec(ctx, query,
			l.ID, l.PropertyID, l.Source, l.ResidentID, l.UnitNumber, l.Rent,
			l.LeaseStart, l.LeaseEnd, l.TermMonths, l.PriorLeaseID, l.SyncedAt,
		); err != nil {
			return fmt.Errorf("insert lease: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, propertyID string) (*models.PropertySnapshot, error) {
	query := `
		SELECT id, property_id, source, name, address, city, state, zip, total_units, synced_at
		FROM unified_properties WHERE property_id = $1`

	var p models.UnifiedProperty
	err := s.pool.QueryRow(ctx, query, propertyID).Scan(
		&p.ID, &p.PropertyID, &p.Source, &p.Name, &p.Address, &p.City, &p.State, &p.Zip, &p.TotalUnits, &p.SyncedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &models.PropertySnapshot{Property: &p}

	if snap.Units, err = s.getUnits(ctx, propertyID); err != nil {
		return nil, err
	}
	if snap.Residents, err = s.getResidents(ctx, propertyID); err != nil {
		return nil, err
	}
	if snap.Leases, err = s.getLeases(ctx, propertyID); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PostgresStore) getUnits(ctx context.Context, propertyID string) ([]models.UnifiedUnit, error) {
	query := `
		SELECT id, property_id, source, unit_number, floorplan_code, floorplan_name,
			bedrooms, bathrooms, sqft, market_rent, status, ready, available,
			days_vacant, available_date, on_notice_date, synced_at
		FROM unified_units WHERE property_id = $1 ORDER BY unit_number`

	rows, err := s.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []models.UnifiedUnit
	for rows.Next() {
		var u models.UnifiedUnit
		if err := rows.Scan(
			&u.ID, &u.PropertyID, &u.Source, &u.UnitNumber, &u.FloorplanCode, &u.FloorplanName,
			&u.Bedrooms, &u.Bathrooms, &u.SqFt, &u.MarketRent, &u.Status, &u.Ready, &u.Available,
			&u.DaysVacant, &u.AvailableDate, &u.OnNoticeDate, &u.SyncedAt,
		); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *PostgresStore) getResidents(ctx context.Context, propertyID string) ([]models.UnifiedResident, error) {
	query := `
		SELECT id, property_id, source, resident_id, name, unit_number, rent, status,
			lease_start, lease_end, move_in, move_out, notice_date, synced_at
		FROM unified_residents WHERE property_id = $1 ORDER BY unit_number, resident_id`

	rows, err := s.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []models.UnifiedResident
	for rows.Next() {
		var r models.UnifiedResident
		if err := rows.Scan(
			&r.ID, &r.PropertyID, &r.Source, &r.ResidentID, &r.Name, &r.UnitNumber, &r.Rent, &r.Status,
			&r.LeaseStart, &r.LeaseEnd, &r.MoveIn, &r.MoveOut, &r.NoticeDate, &r.SyncedAt,
		); err != nil {
			return nil, err
		}
		residents = append(residents, r)
	}
	return residents, rows.Err()
}

func (s *PostgresStore) getLeases(ctx context.Context, propertyID string) ([]models.UnifiedLease, error) {
	query := `
		SELECT id, property_id, source, resident_id, unit_number, rent,
			lease_start, lease_end, term_months, prior_lease_id, synced_at
		FROM unified_leases WHERE property_id = $1 ORDER BY unit_number, lease_start`

	rows, err := s.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []models.UnifiedLease
	for rows.Next() {
		var l models.UnifiedLease
		if err := rows.Scan(
			&l.ID, &l.PropertyID, &l.Source, &l.ResidentID, &l.UnitNumber, &l.Rent,
			&l.LeaseStart, &l.LeaseEnd, &l.TermMonths, &l.PriorLeaseID, &l.SyncedAt,
		); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

func (s *PostgresStore) ListPropertyIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT property_id FROM unified_properties ORDER BY property_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =============================================================================
// Metric Records
// =============================================================================

// Metric inserts are append-only. New IDs are assigned here so calculators
// stay deterministic for identical inputs.

func (s *PostgresStore) InsertOccupancyMetrics(ctx context.Context, m *models.OccupancyMetrics) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `
		INSERT INTO occupancy_metrics (
			id, property_id, timeframe, as_of, total_units, occupied_units, vacant_units,
			notice_units, model_units, down_units, preleased_vacant, physical_occupancy,
			leased_percentage, vacant_ready, vacant_not_ready, aged_vacancy_90_plus
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.pool.Exec(ctx, query,
		m.ID, m.PropertyID, m.Timeframe, m.AsOf, m.TotalUnits, m.OccupiedUnits, m.VacantUnits,
		m.NoticeUnits, m.ModelUnits, m.DownUnits, m.PreleasedVacant, m.PhysicalOccupancy,
		m.LeasedPercentage, m.VacantReady, m.VacantNotReady, m.AgedVacancy90Plus,
	)
	return err
}

func (s *PostgresStore) InsertExposureMetrics(ctx context.Context, m *models.ExposureMetrics) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `
		INSERT INTO exposure_metrics (
			id, property_id, timeframe, as_of, vacant_units, notices_30_days, notices_60_days,
			pending_moveins_30_days, pending_moveins_60_days, exposure_30_days, exposure_60_days,
			move_ins, move_outs, net_absorption
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.pool.Exec(ctx, query,
		m.ID, m.PropertyID, m.Timeframe, m.AsOf, m.VacantUnits, m.Notices30Days, m.Notices60Days,
		m.PendingMoveIns30, m.PendingMoveIns60, m.Exposure30Days, m.Exposure60Days,
		m.MoveIns, m.MoveOuts, m.NetAbsorption,
	)
	return err
}

func (s *PostgresStore) InsertLeasingFunnelMetrics(ctx context.Context, m *models.LeasingFunnelMetrics) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `
		INSERT INTO leasing_funnel_metrics (
			id, property_id, timeframe, as_of, leads, tours, applications, leases_signed,
			lead_to_tour, tour_to_app, app_to_lease, lead_to_lease, sight_unseen, toured_and_applied
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.pool.Exec(ctx, query,
		m.ID, m.PropertyID, m.Timeframe, m.AsOf, m.Leads, m.Tours, m.Applications, m.LeasesSigned,
		m.LeadToTour, m.TourToApp, m.AppToLease, m.LeadToLease, m.SightUnseen, m.TouredAndApplied,
	)
	return err
}

func (s *PostgresStore) InsertPricingMetrics(ctx context.Context, m *models.PricingMetrics) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO pricing_metrics (id, property_id, as_of, in_place_rent, asking_rent, rent_growth)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, query,
		m.ID, m.PropertyID, m.AsOf, m.InPlaceRent, m.AskingRent, m.RentGrowth,
	); err != nil {
		return fmt.Errorf("insert pricing: %w", err)
	}

	for _, fp := range m.Floorplans {
		query := `
			INSERT INTO floorplan_pricing (
				pricing_id, floorplan_code, floorplan_name, unit_count, avg_sqft,
				in_place_rent, asking_rent, rent_growth, in_place_rent_psf, asking_rent_psf
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := tx.Exec(ctx, query,
			m.ID, fp.FloorplanCode, fp.FloorplanName, fp.UnitCount, fp.AvgSqFt,
			fp.InPlaceRent, fp.AskingRent, fp.RentGrowth, fp.InPlaceRentPSF, fp.AskingRentPSF,
		); err != nil {
			return fmt.Errorf("insert floorplan %s: %w", fp.FloorplanCode, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) InsertTradeOutSummary(ctx context.Context, m *models.TradeOutSummary) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO tradeout_summaries (
			id, property_id, as_of, count, discarded, avg_pct_change, total_dollar_change
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.Exec(ctx, query,
		m.ID, m.PropertyID, m.AsOf, m.Count, m.Discarded, m.AvgPctChange, m.TotalDollarChange,
	); err != nil {
		return fmt.Errorf("insert tradeout summary: %w", err)
	}

	for _, r := range m.Records {
		query := `
			INSERT INTO tradeout_records (
				summary_id, unit_number, prior_rent, new_rent, pct_change, dollar_change, is_renewal
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.Exec(ctx, query,
			m.ID, r.UnitNumber, r.PriorRent, r.NewRent, r.PctChange, r.DollarChange, r.IsRenewal,
		); err != nil {
			return fmt.Errorf("insert tradeout record %s: %w", r.UnitNumber, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) InsertDelinquencySummary(ctx context.Context, m *models.DelinquencySummary) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `
		INSERT INTO delinquency_summaries (
			id, property_id, report_date,
			dq_current, dq_0_30, dq_31_60, dq_61_90, dq_90_plus,
			col_current, col_0_30, col_31_60, col_61_90, col_90_plus,
			prepaid_total, delinquent_units, former_units, eviction_units,
			eviction_balance, eviction_stage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := s.pool.Exec(ctx, query,
		m.ID, m.PropertyID, m.ReportDate,
		m.Delinquency.Current, m.Delinquency.Days0To30, m.Delinquency.Days31To60, m.Delinquency.Days61To90, m.Delinquency.Days90Plus,
		m.Collections.Current, m.Collections.Days0To30, m.Collections.Days31To60, m.Collections.Days61To90, m.Collections.Days90Plus,
		m.PrepaidTotal, m.DelinquentUnits, m.FormerUnits, m.EvictionUnits,
		m.EvictionBalance, m.EvictionStage,
	)
	return err
}

func (s *PostgresStore) InsertRiskScores(ctx context.Context, scores []models.RiskScore) error {
	for i := range scores {
		sc := &scores[i]
		if sc.ID == uuid.Nil {
			sc.ID = uuid.New()
		}
		query := `
			INSERT INTO risk_scores (
				id, property_id, resident_id, unit_number, as_of,
				expiration_points, tenure_points, rent_ratio_points, total_points, level
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := s.pool.Exec(ctx, query,
			sc.ID, sc.PropertyID, sc.ResidentID, sc.UnitNumber, sc.AsOf,
			sc.ExpirationPoints, sc.TenurePoints, sc.RentRatioPoints, sc.TotalPoints, sc.Level,
		); err != nil {
			return fmt.Errorf("insert risk score %s: %w", sc.ResidentID, err)
		}
	}
	return nil
}

func (s *PostgresStore) GetLatestOccupancy(ctx context.Context, propertyID, timeframe string) (*models.OccupancyMetrics, error) {
	query := `
		SELECT id, property_id, timeframe, as_of, total_units, occupied_units, vacant_units,
			notice_units, model_units, down_units, preleased_vacant, physical_occupancy,
			leased_percentage, vacant_ready, vacant_not_ready, aged_vacancy_90_plus
		FROM occupancy_metrics
		WHERE property_id = $1 AND timeframe = $2
		ORDER BY as_of DESC
		LIMIT 1`

	var m models.OccupancyMetrics
	err := s.pool.QueryRow(ctx, query, propertyID, timeframe).Scan(
		&m.ID, &m.PropertyID, &m.Timeframe, &m.AsOf, &m.TotalUnits, &m.OccupiedUnits, &m.VacantUnits,
		&m.NoticeUnits, &m.ModelUnits, &m.DownUnits, &m.PreleasedVacant, &m.PhysicalOccupancy,
		&m.LeasedPercentage, &m.VacantReady, &m.VacantNotReady, &m.AgedVacancy90Plus,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// =============================================================================
// Delinquency Report Rows
// =============================================================================

// ReplaceDelinquentUnits swaps the emitted rows for one property and report
// date. Re-parsing the same report is idempotent; distinct report dates
// accumulate.
func (s *PostgresStore) ReplaceDelinquentUnits(ctx context.Context, propertyID string, reportDate time.Time, units []models.DelinquentUnit) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM delinquent_units WHERE property_id = $1 AND report_date = $2`,
		propertyID, reportDate,
	); err != nil {
		return fmt.Errorf("clear delinquent_units: %w", err)
	}

	for _, u := range units {
		query := `
			INSERT INTO delinquent_units (
				property_id, report_date, unit_number, resident_name, status, in_eviction,
				deposits_held, prepaid, balance,
				bucket_current, days_0_30, days_31_60, days_61_90, days_90_plus
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		if _, err := tx.Exec(ctx, query,
			u.PropertyID, u.ReportDate, u.UnitNumber, u.ResidentName, u.Status, u.InEviction,
			u.DepositsHeld, u.Prepaid, u.Balance,
			u.Aging.Current, u.Aging.Days0To30, u.Aging.Days31To60, u.Aging.Days61To90, u.Aging.Days90Plus,
		); err != nil {
			return fmt.Errorf("insert delinquent unit %s: %w", u.UnitNumber, err)
		}
	}

	return tx.Commit(ctx)
}

// =============================================================================
// Rent Roll Report Rows
// =============================================================================

// ReplaceRentRollRows swaps the extracted rent roll for one property and
// report date, same additive-per-report-date semantics as delinquency.
func (s *PostgresStore) ReplaceRentRollRows(ctx context.Context, propertyID string, reportDate time.Time, rrRows []models.RentRollRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM rent_roll_rows WHERE property_id = $1 AND report_date = $2`,
		propertyID, reportDate,
	); err != nil {
		return fmt.Errorf("clear rent_roll_rows: %w", err)
	}

	for _, r := range rrRows {
		query := `
			INSERT INTO rent_roll_rows (
				property_id, report_date, unit_number, floorplan_code,
				resident_name, status, sqft, market_rent, actual_rent
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := tx.Exec(ctx, query,
			propertyID, reportDate, r.UnitNumber, r.FloorplanCode,
			r.ResidentName, r.Status, r.SqFt, r.MarketRent, r.ActualRent,
		); err != nil {
			return fmt.Errorf("insert rent roll row %s: %w", r.UnitNumber, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetDelinquentUnits(ctx context.Context, propertyID string, reportDate time.Time) ([]models.DelinquentUnit, error) {
	query := `
		SELECT property_id, report_date, unit_number, resident_name, status, in_eviction,
			deposits_held, prepaid, balance,
			bucket_current, days_0_30, days_31_60, days_61_90, days_90_plus
		FROM delinquent_units
		WHERE property_id = $1 AND report_date = $2
		ORDER BY unit_number`

	rows, err := s.pool.Query(ctx, query, propertyID, reportDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []models.DelinquentUnit
	for rows.Next() {
		var u models.DelinquentUnit
		if err := rows.Scan(
			&u.PropertyID, &u.ReportDate, &u.UnitNumber, &u.ResidentName, &u.Status, &u.InEviction,
			&u.DepositsHeld, &u.Prepaid, &u.Balance,
			&u.Aging.Current, &u.Aging.Days0To30, &u.Aging.Days31To60, &u.Aging.Days61To90, &u.Aging.Days90Plus,
		); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
