package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/venturescout/outreach-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL,
	slug             TEXT UNIQUE NOT NULL,
	website          TEXT NOT NULL DEFAULT '',
	one_liner        TEXT NOT NULL DEFAULT '',
	long_description TEXT NOT NULL DEFAULT '',
	team_size        INTEGER NOT NULL DEFAULT 0,
	batch            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT '',
	industries       TEXT NOT NULL DEFAULT '[]',
	tags             TEXT NOT NULL DEFAULT '[]',
	locations        TEXT NOT NULL DEFAULT '[]',
	is_hiring        INTEGER NOT NULL DEFAULT 0,
	logo_url         TEXT NOT NULL DEFAULT '',
	directory_url    TEXT NOT NULL DEFAULT '',
	relevance_score  INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS contacts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id  INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	role        TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	network_url TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS outreach (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id     INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	contact_id     INTEGER REFERENCES contacts(id) ON DELETE SET NULL,
	status         TEXT NOT NULL DEFAULT 'new' CHECK(status IN ('new','drafted','sent','replied','interview')),
	email_draft    TEXT NOT NULL DEFAULT '',
	sent_at        DATETIME,
	notes          TEXT NOT NULL DEFAULT '',
	needs_followup INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS audit_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	component  TEXT NOT NULL,
	action     TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	company_id INTEGER REFERENCES companies(id) ON DELETE SET NULL,
	run_id     TEXT NOT NULL DEFAULT '',
	outcome    TEXT NOT NULL DEFAULT 'info' CHECK(outcome IN ('success','error','info')),
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_companies_slug ON companies(slug);
CREATE INDEX IF NOT EXISTS idx_companies_batch ON companies(batch);
CREATE INDEX IF NOT EXISTS idx_companies_score ON companies(relevance_score);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company_id);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(company_id, email);
CREATE INDEX IF NOT EXISTS idx_outreach_status ON outreach(status);
CREATE INDEX IF NOT EXISTS idx_outreach_company ON outreach(company_id);
CREATE INDEX IF NOT EXISTS idx_audit_component ON audit_log(component);
CREATE INDEX IF NOT EXISTS idx_audit_run ON audit_log(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const companyColumns = `name, slug, website, one_liner, long_description, team_size, batch, status,
	industries, tags, locations, is_hiring, logo_url, directory_url`

func (s *SQLiteStore) UpsertCompanies(ctx context.Context, companies []model.Company) (int, error) {
	if len(companies) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback() //nolint:errcheck

	// relevance_score is deliberately left alone on conflict so existing
	// scores survive a re-sync until the next scoring pass.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO companies (`+companyColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			website = excluded.website,
			one_liner = excluded.one_liner,
			long_description = excluded.long_description,
			team_size = excluded.team_size,
			batch = excluded.batch,
			status = excluded.status,
			industries = excluded.industries,
			tags = excluded.tags,
			locations = excluded.locations,
			is_hiring = excluded.is_hiring,
			logo_url = excluded.logo_url,
			directory_url = excluded.directory_url`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close() //nolint:errcheck

	n := 0
	now := time.Now().UTC()
	for _, c := range companies {
		if c.Name == "" || c.Slug == "" {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			c.Name, c.Slug, c.Website, c.OneLiner, c.LongDescription, c.TeamSize, c.Batch, c.Status,
			marshalStrings(c.Industries), marshalStrings(c.Tags), marshalStrings(c.Locations),
			boolToInt(c.IsHiring), c.LogoURL, c.DirectoryURL, now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert company %s", c.Slug)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return n, nil
}

func (s *SQLiteStore) ListCompanies(ctx context.Context, f CompanyFilter) ([]model.Company, int, error) {
	var conds []string
	var args []any

	if len(f.Batches) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Batches)), ",")
		conds = append(conds, fmt.Sprintf("batch IN (%s)", placeholders))
		for _, b := range f.Batches {
			args = append(args, b)
		}
	}
	if f.Hiring != nil {
		conds = append(conds, "is_hiring = ?")
		args = append(args, boolToInt(*f.Hiring))
	}
	if f.Search != "" {
		conds = append(conds, "(name LIKE ? OR one_liner LIKE ? OR long_description LIKE ?)")
		pat := "%" + f.Search + "%"
		args = append(args, pat, pat, pat)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies "+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count companies")
	}

	order := "ORDER BY is_hiring DESC, name ASC"
	if f.SortByRelevance {
		order = "ORDER BY relevance_score DESC, is_hiring DESC, name ASC"
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 30
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(`SELECT id, %s, relevance_score, created_at FROM companies %s %s LIMIT ? OFFSET ?`,
		companyColumns, where, order)
	rows, err := s.db.QueryContext(ctx, query, append(args, perPage, (page-1)*perPage)...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list companies")
	}
	defer rows.Close() //nolint:errcheck

	var companies []model.Company
	for rows.Next() {
		c, err := scanSQLiteCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *c)
	}
	return companies, total, eris.Wrap(rows.Err(), "sqlite: list companies iterate")
}

func (s *SQLiteStore) GetCompany(ctx context.Context, id int64) (*model.Company, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, %s, relevance_score, created_at FROM companies WHERE id = ?`, companyColumns), id)
	c, err := scanSQLiteCompany(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get company %d", id)
	}
	return c, nil
}

func (s *SQLiteStore) ListScorable(ctx context.Context) ([]model.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, %s, relevance_score, created_at FROM companies`, companyColumns))
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scorable")
	}
	defer rows.Close() //nolint:errcheck

	var companies []model.Company
	for rows.Next() {
		c, err := scanSQLiteCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, eris.Wrap(rows.Err(), "sqlite: list scorable iterate")
}

func (s *SQLiteStore) UpdateRelevanceScore(ctx context.Context, id int64, score int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE companies SET relevance_score = ? WHERE id = ?`, score, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update score %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("company not found: %d", id)
	}
	return nil
}

func (s *SQLiteStore) ListCandidates(ctx context.Context, minScore, limit, excludeContactCountGTE int) ([]model.Company, int, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, %s, relevance_score, created_at,
			(SELECT COUNT(*) FROM contacts ct WHERE ct.company_id = companies.id) AS contact_count
		FROM companies
		WHERE relevance_score > ?
		ORDER BY relevance_score DESC
		LIMIT ?`, companyColumns), minScore, limit)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list candidates")
	}
	defer rows.Close() //nolint:errcheck

	var candidates []model.Company
	total := 0
	for rows.Next() {
		c, err := scanSQLiteCandidate(rows)
		if err != nil {
			return nil, 0, err
		}
		total++
		if c.ContactCount >= excludeContactCountGTE {
			continue
		}
		candidates = append(candidates, *c)
	}
	return candidates, total, eris.Wrap(rows.Err(), "sqlite: list candidates iterate")
}

const contactColumns = `id, company_id, name, role, email, network_url, source, created_at`

func (s *SQLiteStore) GetContacts(ctx context.Context, companyID int64) ([]model.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE company_id = ? ORDER BY created_at DESC, id DESC`,
		companyID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get contacts %d", companyID)
	}
	defer rows.Close() //nolint:errcheck
	return collectContacts(rows, false)
}

func (s *SQLiteStore) ListContacts(ctx context.Context, f ContactFilter) ([]model.Contact, error) {
	var conds []string
	var args []any

	if f.CompanyID != 0 {
		conds = append(conds, "c.company_id = ?")
		args = append(args, f.CompanyID)
	}
	if f.Source != "" {
		conds = append(conds, "c.source = ?")
		args = append(args, string(f.Source))
	}
	if f.Search != "" {
		conds = append(conds, "(c.name LIKE ? OR c.email LIKE ? OR c.role LIKE ?)")
		pat := "%" + f.Search + "%"
		args = append(args, pat, pat, pat)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.company_id, c.name, c.role, c.email, c.network_url, c.source, c.created_at, co.name
		FROM contacts c JOIN companies co ON c.company_id = co.id
		%s ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?`, where)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list contacts")
	}
	defer rows.Close() //nolint:errcheck
	return collectContacts(rows, true)
}

func (s *SQLiteStore) InsertContactIfNew(ctx context.Context, companyID int64, c model.Contact) (bool, error) {
	name := strings.TrimSpace(c.Name)
	email := strings.TrimSpace(c.Email)
	if name == "" {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: begin insert contact")
	}
	defer tx.Rollback() //nolint:errcheck

	if email != "" {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM contacts WHERE company_id = ? AND email = ?`, companyID, email).Scan(&id)
		if err == nil {
			return false, nil
		}
		if err != sql.ErrNoRows {
			return false, eris.Wrap(err, "sqlite: check email dup")
		}
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM contacts WHERE company_id = ? AND name = ? AND source = ?`,
		companyID, name, string(c.Source)).Scan(&id)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, eris.Wrap(err, "sqlite: check name dup")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contacts (company_id, name, role, email, network_url, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		companyID, name, c.Role, email, c.NetworkURL, string(c.Source), time.Now().UTC())
	if err != nil {
		return false, eris.Wrap(err, "sqlite: insert contact")
	}

	if err := tx.Commit(); err != nil {
		return false, eris.Wrap(err, "sqlite: commit insert contact")
	}
	return true, nil
}

func (s *SQLiteStore) CreateOutreach(ctx context.Context, o model.Outreach) (int64, error) {
	if o.Status == "" {
		o.Status = model.OutreachNew
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO outreach (company_id, contact_id, status, email_draft, sent_at, notes, needs_followup, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.CompanyID, o.ContactID, string(o.Status), o.EmailDraft, o.SentAt, o.Notes, boolToInt(o.NeedsFollowup), now, now)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: create outreach")
	}
	id, err := res.LastInsertId()
	return id, eris.Wrap(err, "sqlite: outreach id")
}

func (s *SQLiteStore) FlagFollowups(ctx context.Context, sentBefore time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE outreach SET needs_followup = 1, updated_at = ?
		WHERE status = 'sent' AND sent_at IS NOT NULL AND sent_at < ? AND needs_followup = 0`,
		time.Now().UTC(), sentBefore)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: flag followups")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: followups affected")
}

func (s *SQLiteStore) OutreachStatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM outreach GROUP BY status`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: outreach status counts")
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan status count")
		}
		counts[status] = n
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: status counts iterate")
}

func (s *SQLiteStore) CountNeedsFollowup(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outreach WHERE needs_followup = 1`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count followups")
}

func (s *SQLiteStore) AppendAudit(ctx context.Context, e model.AuditEntry) error {
	if e.Outcome == "" {
		e.Outcome = model.OutcomeInfo
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (component, action, detail, company_id, run_id, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Component, e.Action, e.Detail, e.CompanyID, e.RunID, string(e.Outcome), time.Now().UTC())
	return eris.Wrap(err, "sqlite: append audit")
}

func (s *SQLiteStore) ListAudit(ctx context.Context, f AuditFilter) ([]model.AuditEntry, error) {
	var conds []string
	var args []any
	if f.Component != "" {
		conds = append(conds, "component = ?")
		args = append(args, f.Component)
	}
	if f.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, f.RunID)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT id, component, action, detail, company_id, run_id, outcome, created_at
		FROM audit_log %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, where)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list audit")
	}
	defer rows.Close() //nolint:errcheck

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var companyID sql.NullInt64
		var outcome string
		if err := rows.Scan(&e.ID, &e.Component, &e.Action, &e.Detail, &companyID, &e.RunID, &outcome, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan audit entry")
		}
		if companyID.Valid {
			e.CompanyID = &companyID.Int64
		}
		e.Outcome = model.Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list audit iterate")
}

func (s *SQLiteStore) Stats(ctx context.Context) (*model.Stats, error) {
	st := &model.Stats{
		ContactsBySource: make(map[string]int),
		OutreachByStatus: make(map[string]int),
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM companies`, &st.TotalCompanies},
		{`SELECT COUNT(*) FROM companies WHERE is_hiring = 1`, &st.HiringCompanies},
		{`SELECT COUNT(*) FROM companies WHERE relevance_score > 0`, &st.ScoredCompanies},
		{`SELECT COUNT(*) FROM contacts`, &st.TotalContacts},
		{`SELECT COUNT(DISTINCT company_id) FROM contacts`, &st.CompaniesEnriched},
		{`SELECT COUNT(*) FROM outreach WHERE needs_followup = 1`, &st.NeedsFollowup},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, eris.Wrapf(err, "sqlite: stats %s", c.query)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM contacts GROUP BY source`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stats contacts by source")
	}
	defer rows.Close() //nolint:errcheck
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan source count")
		}
		st.ContactsBySource[source] = n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: stats iterate")
	}

	byStatus, err := s.OutreachStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	st.OutreachByStatus = byStatus

	return st, nil
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLiteCompany(row scannable) (*model.Company, error) {
	var c model.Company
	var industries, tags, locations string
	var hiring int
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Website, &c.OneLiner, &c.LongDescription,
		&c.TeamSize, &c.Batch, &c.Status, &industries, &tags, &locations, &hiring,
		&c.LogoURL, &c.DirectoryURL, &c.RelevanceScore, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("company not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan company")
	}
	c.Industries = unmarshalStrings(industries)
	c.Tags = unmarshalStrings(tags)
	c.Locations = unmarshalStrings(locations)
	c.IsHiring = hiring != 0
	return &c, nil
}

func scanSQLiteCandidate(row scannable) (*model.Company, error) {
	var c model.Company
	var industries, tags, locations string
	var hiring int
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Website, &c.OneLiner, &c.LongDescription,
		&c.TeamSize, &c.Batch, &c.Status, &industries, &tags, &locations, &hiring,
		&c.LogoURL, &c.DirectoryURL, &c.RelevanceScore, &c.CreatedAt, &c.ContactCount)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan candidate")
	}
	c.Industries = unmarshalStrings(industries)
	c.Tags = unmarshalStrings(tags)
	c.Locations = unmarshalStrings(locations)
	c.IsHiring = hiring != 0
	return &c, nil
}

func collectContacts(rows *sql.Rows, withCompanyName bool) ([]model.Contact, error) {
	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var source string
		dest := []any{&c.ID, &c.CompanyID, &c.Name, &c.Role, &c.Email, &c.NetworkURL, &source, &c.CreatedAt}
		if withCompanyName {
			dest = append(dest, &c.CompanyName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		c.Source = model.ContactSource(source)
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "sqlite: contacts iterate")
}

func marshalStrings(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
