package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// sqliteTimeLayout is fixed width so that lexical order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// DataStoreImpl implements the DataStore interface over database/sql.
type DataStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.DataStore = &DataStoreImpl{} // Compile-time check

// NewDataStore opens the backend, verifies the connection and creates missing tables.
func NewDataStore(backend schema.DatabaseBackend, connStr string) (*DataStoreImpl, error) {
	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &DataStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// q binds placeholders for the active backend.
func (ds *DataStoreImpl) q(query string) string {
	return rebind(ds.backend, query)
}

// timeArg converts a timestamp into the representation the backend stores.
func (ds *DataStoreImpl) timeArg(t time.Time) any {
	if ds.backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// dbTime scans timestamps stored natively or as text.
type dbTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("failed to parse time %q", s)
}

// nullScore maps NULL criterion columns to NaN so the normalizer can coerce them.
func nullScore(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// scoreArg maps non-finite scores to NULL.
func scoreArg(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func criteriaColumns(prefix string) string {
	cols := make([]string, 0, schema.NumCriteria)
	for _, c := range schema.AllCriteria {
		cols = append(cols, prefix+c.Key())
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanReport scans id, user_id, kind, created_at, the criteria and any extra destinations.
func scanReport(row rowScanner, extra ...any) (schema.Report, error) {
	var (
		r       schema.Report
		created dbTime
		scores  [schema.NumCriteria]sql.NullFloat64
	)
	dest := []any{&r.ID, &r.UserID, &r.Kind, &created}
	for i := range scores {
		dest = append(dest, &scores[i])
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return r, err
	}

	r.CreatedAt = created.Time
	var values [schema.NumCriteria]float64
	for i := range scores {
		values[i] = nullScore(scores[i])
	}
	r.Scores = schema.ScoresFromValues(values)
	return r, nil
}

// InsertReport stores a new report, assigning an ID and timestamp when missing.
func (ds *DataStoreImpl) InsertReport(ctx context.Context, report schema.Report) (schema.Report, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	args := []any{report.ID, report.UserID, report.Kind, ds.timeArg(report.CreatedAt)}
	for _, v := range report.Scores.Values() {
		args = append(args, scoreArg(v))
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, kind, created_at, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reportsTable, criteriaColumns(""))
	if _, err := ds.db.ExecContext(ctx, ds.q(query), args...); err != nil {
		return report, fmt.Errorf("failed to insert report: %w", err)
	}
	return report, nil
}

// ListReports returns the user's reports newest first, joined with the owner's profile name.
func (ds *DataStoreImpl) ListReports(ctx context.Context, userID string) ([]schema.ReportRecord, error) {
	query := fmt.Sprintf(`
		SELECT r.id, r.user_id, r.kind, r.created_at, %s, COALESCE(p.name, '')
		FROM %s r
		LEFT JOIN %s p ON p.id = r.user_id
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC`, criteriaColumns("r."), reportsTable, profilesTable)

	rows, err := ds.db.QueryContext(ctx, ds.q(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.ReportRecord
	for rows.Next() {
		var name string
		report, err := scanReport(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		records = append(records, schema.ReportRecord{Report: report, PatientName: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return records, nil
}

// LatestReport returns the user's newest report or nil.
func (ds *DataStoreImpl) LatestReport(ctx context.Context, userID string) (*schema.Report, error) {
	query := fmt.Sprintf(`SELECT id, user_id, kind, created_at, %s FROM %s WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`,
		criteriaColumns(""), reportsTable)

	report, err := scanReport(ds.db.QueryRowContext(ctx, ds.q(query), userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest report: %w", err)
	}
	return &report, nil
}

// DeleteReport removes a report by ID.
func (ds *DataStoreImpl) DeleteReport(ctx context.Context, reportID string) error {
	return ds.deleteByID(ctx, reportsTable, reportID)
}

// CountReports returns the number of reports owned by the user.
func (ds *DataStoreImpl) CountReports(ctx context.Context, userID string) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = ?`, reportsTable)
	if err := ds.db.QueryRowContext(ctx, ds.q(query), userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// InsertImage stores a new image record, assigning an ID when missing.
func (ds *DataStoreImpl) InsertImage(ctx context.Context, image schema.Image) (schema.Image, error) {
	if image.ID == "" {
		image.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, group_id, description, url) VALUES (?, ?, ?, ?)`, imagesTable)
	if _, err := ds.db.ExecContext(ctx, ds.q(query), image.ID, image.GroupID, image.Description, image.URL); err != nil {
		return image, fmt.Errorf("failed to insert image: %w", err)
	}
	return image, nil
}

// GetImage returns an image record or nil.
func (ds *DataStoreImpl) GetImage(ctx context.Context, imageID string) (*schema.Image, error) {
	var img schema.Image
	query := fmt.Sprintf(`SELECT id, group_id, description, url FROM %s WHERE id = ?`, imagesTable)
	err := ds.db.QueryRowContext(ctx, ds.q(query), imageID).Scan(&img.ID, &img.GroupID, &img.Description, &img.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query image: %w", err)
	}
	return &img, nil
}

// UpdateImage rewrites an image record.
func (ds *DataStoreImpl) UpdateImage(ctx context.Context, image schema.Image) error {
	query := fmt.Sprintf(`UPDATE %s SET group_id = ?, description = ?, url = ? WHERE id = ?`, imagesTable)
	res, err := ds.db.ExecContext(ctx, ds.q(query), image.GroupID, image.Description, image.URL, image.ID)
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	return requireAffected(res, imagesTable, image.ID)
}

// DeleteImage removes an image record.
func (ds *DataStoreImpl) DeleteImage(ctx context.Context, imageID string) error {
	return ds.deleteByID(ctx, imagesTable, imageID)
}

// ListImages returns every image of a group ordered by ID.
func (ds *DataStoreImpl) ListImages(ctx context.Context, groupID string) ([]schema.Image, error) {
	query := fmt.Sprintf(`SELECT id, group_id, description, url FROM %s WHERE group_id = ? ORDER BY id`, imagesTable)
	rows, err := ds.db.QueryContext(ctx, ds.q(query), groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var images []schema.Image
	for rows.Next() {
		var img schema.Image
		if err := rows.Scan(&img.ID, &img.GroupID, &img.Description, &img.URL); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return images, nil
}

// InsertGroup stores a new care group, assigning an ID when missing.
func (ds *DataStoreImpl) InsertGroup(ctx context.Context, group schema.Group) (schema.Group, error) {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, doctor_id, caregiver_id, patient_id) VALUES (?, ?, ?, ?)`, groupsTable)
	_, err := ds.db.ExecContext(ctx, ds.q(query), group.ID,
		nullString(group.DoctorID), nullString(group.CaregiverID), nullString(group.PatientID))
	if err != nil {
		return group, fmt.Errorf("failed to insert group: %w", err)
	}
	return group, nil
}

// FindGroupForUser returns the first group where the user holds any role, or nil.
func (ds *DataStoreImpl) FindGroupForUser(ctx context.Context, userID string) (*schema.Group, error) {
	var (
		g                            schema.Group
		doctor, caregiver, patientID sql.NullString
	)
	query := fmt.Sprintf(`
		SELECT id, doctor_id, caregiver_id, patient_id FROM %s
		WHERE doctor_id = ? OR caregiver_id = ? OR patient_id = ?
		ORDER BY id LIMIT 1`, groupsTable)
	err := ds.db.QueryRowContext(ctx, ds.q(query), userID, userID, userID).Scan(&g.ID, &doctor, &caregiver, &patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query group: %w", err)
	}
	g.DoctorID = doctor.String
	g.CaregiverID = caregiver.String
	g.PatientID = patientID.String
	return &g, nil
}

// UpsertProfile inserts or replaces a profile.
func (ds *DataStoreImpl) UpsertProfile(ctx context.Context, profile schema.Profile) error {
	var query string
	switch ds.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (id, name, role) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE name = VALUES(name), role = VALUES(role)`, profilesTable)
	default: // SQLite and PostgreSQL
		query = fmt.Sprintf(`INSERT INTO %s (id, name, role) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, role = excluded.role`, profilesTable)
	}
	if _, err := ds.db.ExecContext(ctx, ds.q(query), profile.ID, profile.Name, string(profile.Role)); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetProfile returns a profile or nil.
func (ds *DataStoreImpl) GetProfile(ctx context.Context, profileID string) (*schema.Profile, error) {
	var (
		p    schema.Profile
		role string
	)
	query := fmt.Sprintf(`SELECT id, name, role FROM %s WHERE id = ?`, profilesTable)
	err := ds.db.QueryRowContext(ctx, ds.q(query), profileID).Scan(&p.ID, &p.Name, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	p.Role = schema.Role(role)
	return &p, nil
}

// GetStatus returns status information about the store.
func (ds *DataStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(ds.backend),
		Connected:  ds.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ds.db == nil {
		return status, nil
	}

	for _, table := range allTables {
		var count int64
		if err := ds.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	if status.TableSizes[reportsTable] > 0 {
		var newest, oldest dbTime
		query := fmt.Sprintf("SELECT MAX(created_at), MIN(created_at) FROM %s", reportsTable)
		if err := ds.db.QueryRowContext(ctx, query).Scan(&newest, &oldest); err != nil {
			return status, fmt.Errorf("failed to get report time range: %w", err)
		}
		status.LastReportTime = newest.Time
		status.OldestReportTime = oldest.Time
	}

	return status, nil
}

// Close closes the underlying connection.
func (ds *DataStoreImpl) Close() error {
	if ds.db != nil {
		return ds.db.Close()
	}
	return nil
}

func (ds *DataStoreImpl) deleteByID(ctx context.Context, table, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table)
	res, err := ds.db.ExecContext(ctx, ds.q(query), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return requireAffected(res, table, id)
}

func requireAffected(res sql.Result, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", table, id, contract.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
