package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/venturescout/outreach-cli/internal/db"
	"github.com/venturescout/outreach-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id               BIGSERIAL PRIMARY KEY,
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
	is_hiring        BOOLEAN NOT NULL DEFAULT FALSE,
	logo_url         TEXT NOT NULL DEFAULT '',
	directory_url    TEXT NOT NULL DEFAULT '',
	relevance_score  INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
	id          BIGSERIAL PRIMARY KEY,
	company_id  BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	role        TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	network_url TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS outreach (
	id             BIGSERIAL PRIMARY KEY,
	company_id     BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	contact_id     BIGINT REFERENCES contacts(id) ON DELETE SET NULL,
	status         TEXT NOT NULL DEFAULT 'new' CHECK(status IN ('new','drafted','sent','replied','interview')),
	email_draft    TEXT NOT NULL DEFAULT '',
	sent_at        TIMESTAMPTZ,
	notes          TEXT NOT NULL DEFAULT '',
	needs_followup BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_log (
	id         BIGSERIAL PRIMARY KEY,
	component  TEXT NOT NULL,
	action     TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	company_id BIGINT REFERENCES companies(id) ON DELETE SET NULL,
	run_id     TEXT NOT NULL DEFAULT '',
	outcome    TEXT NOT NULL DEFAULT 'info' CHECK(outcome IN ('success','error','info')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_companies_batch ON companies(batch);
CREATE INDEX IF NOT EXISTS idx_companies_score ON companies(relevance_score);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company_id);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(company_id, email);
CREATE INDEX IF NOT EXISTS idx_outreach_status ON outreach(status);
CREATE INDEX IF NOT EXISTS idx_outreach_company ON outreach(company_id);
CREATE INDEX IF NOT EXISTS idx_audit_component ON audit_log(component);
CREATE INDEX IF NOT EXISTS idx_audit_run ON audit_log(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var companyUpsertColumns = []string{
	"name", "slug", "website", "one_liner", "long_description", "team_size", "batch", "status",
	"industries", "tags", "locations", "is_hiring", "logo_url", "directory_url", "created_at",
}

func (s *PostgresStore) UpsertCompanies(ctx context.Context, companies []model.Company) (int, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(companies))
	for _, c := range companies {
		if c.Name == "" || c.Slug == "" {
			continue
		}
		rows = append(rows, []any{
			c.Name, c.Slug, c.Website, c.OneLiner, c.LongDescription, c.TeamSize, c.Batch, c.Status,
			marshalStrings(c.Industries), marshalStrings(c.Tags), marshalStrings(c.Locations),
			c.IsHiring, c.LogoURL, c.DirectoryURL, now,
		})
	}

	// relevance_score is excluded from the update set so existing scores
	// survive a re-sync until the next scoring pass.
	updateCols := make([]string, 0, len(companyUpsertColumns))
	for _, c := range companyUpsertColumns {
		if c == "slug" || c == "created_at" {
			continue
		}
		updateCols = append(updateCols, c)
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "companies",
		Columns:      companyUpsertColumns,
		ConflictKeys: []string{"slug"},
		UpdateCols:   updateCols,
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert companies")
	}
	return int(n), nil
}

const pgCompanySelect = `id, name, slug, website, one_liner, long_description, team_size, batch, status,
	industries, tags, locations, is_hiring, logo_url, directory_url, relevance_score, created_at`

func (s *PostgresStore) ListCompanies(ctx context.Context, f CompanyFilter) ([]model.Company, int, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Batches) > 0 {
		conds = append(conds, fmt.Sprintf("batch = ANY(%s)", arg(f.Batches)))
	}
	if f.Hiring != nil {
		conds = append(conds, fmt.Sprintf("is_hiring = %s", arg(*f.Hiring)))
	}
	if f.Search != "" {
		pat := "%" + f.Search + "%"
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR one_liner ILIKE %s OR long_description ILIKE %s)",
			arg(pat), arg(pat), arg(pat)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies "+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "postgres: count companies")
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

	query := fmt.Sprintf("SELECT %s FROM companies %s %s LIMIT %s OFFSET %s",
		pgCompanySelect, where, order, arg(perPage), arg((page-1)*perPage))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		c, err := scanPgCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *c)
	}
	return companies, total, eris.Wrap(rows.Err(), "postgres: list companies iterate")
}

func (s *PostgresStore) GetCompany(ctx context.Context, id int64) (*model.Company, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM companies WHERE id = $1", pgCompanySelect), id)
	c, err := scanPgCompany(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %d", id)
	}
	return c, nil
}

func (s *PostgresStore) ListScorable(ctx context.Context) ([]model.Company, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT %s FROM companies", pgCompanySelect))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scorable")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		c, err := scanPgCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, eris.Wrap(rows.Err(), "postgres: list scorable iterate")
}

func (s *PostgresStore) UpdateRelevanceScore(ctx context.Context, id int64, score int) error {
	tag, err := s.pool.Exec(ctx, `UPDATE companies SET relevance_score = $1 WHERE id = $2`, score, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: update score %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("company not found: %d", id)
	}
	return nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, minScore, limit, excludeContactCountGTE int) ([]model.Company, int, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM contacts ct WHERE ct.company_id = companies.id) AS contact_count
		FROM companies
		WHERE relevance_score > $1
		ORDER BY relevance_score DESC
		LIMIT $2`, pgCompanySelect), minScore, limit)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list candidates")
	}
	defer rows.Close()

	var candidates []model.Company
	total := 0
	for rows.Next() {
		var c model.Company
		var industries, tags, locations string
		err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Website, &c.OneLiner, &c.LongDescription,
			&c.TeamSize, &c.Batch, &c.Status, &industries, &tags, &locations, &c.IsHiring,
			&c.LogoURL, &c.DirectoryURL, &c.RelevanceScore, &c.CreatedAt, &c.ContactCount)
		if err != nil {
			return nil, 0, eris.Wrap(err, "postgres: scan candidate")
		}
		c.Industries = unmarshalStrings(industries)
		c.Tags = unmarshalStrings(tags)
		c.Locations = unmarshalStrings(locations)
		total++
		if c.ContactCount >= excludeContactCountGTE {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, total, eris.Wrap(rows.Err(), "postgres: list candidates iterate")
}

func (s *PostgresStore) GetContacts(ctx context.Context, companyID int64) ([]model.Contact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, role, email, network_url, source, created_at
		FROM contacts WHERE company_id = $1 ORDER BY created_at DESC, id DESC`, companyID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get contacts %d", companyID)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var source string
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Role, &c.Email, &c.NetworkURL, &source, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		c.Source = model.ContactSource(source)
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "postgres: get contacts iterate")
}

func (s *PostgresStore) ListContacts(ctx context.Context, f ContactFilter) ([]model.Contact, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CompanyID != 0 {
		conds = append(conds, "c.company_id = "+arg(f.CompanyID))
	}
	if f.Source != "" {
		conds = append(conds, "c.source = "+arg(string(f.Source)))
	}
	if f.Search != "" {
		pat := "%" + f.Search + "%"
		conds = append(conds, fmt.Sprintf("(c.name ILIKE %s OR c.email ILIKE %s OR c.role ILIKE %s)",
			arg(pat), arg(pat), arg(pat)))
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
		%s ORDER BY c.created_at DESC, c.id DESC LIMIT %s OFFSET %s`, where, arg(limit), arg(f.Offset))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contacts")
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var source string
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Role, &c.Email, &c.NetworkURL, &source, &c.CreatedAt, &c.CompanyName); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		c.Source = model.ContactSource(source)
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "postgres: list contacts iterate")
}

func (s *PostgresStore) InsertContactIfNew(ctx context.Context, companyID int64, c model.Contact) (bool, error) {
	name := strings.TrimSpace(c.Name)
	email := strings.TrimSpace(c.Email)
	if name == "" {
		return false, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, eris.Wrap(err, "postgres: begin insert contact")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if email != "" {
		var id int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM contacts WHERE company_id = $1 AND email = $2`, companyID, email).Scan(&id)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return false, eris.Wrap(err, "postgres: check email dup")
		}
	}

	var id int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM contacts WHERE company_id = $1 AND name = $2 AND source = $3`,
		companyID, name, string(c.Source)).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, eris.Wrap(err, "postgres: check name dup")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO contacts (company_id, name, role, email, network_url, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		companyID, name, c.Role, email, c.NetworkURL, string(c.Source), time.Now().UTC())
	if err != nil {
		return false, eris.Wrap(err, "postgres: insert contact")
	}

	if err := tx.Commit(ctx); err != nil {
		return false, eris.Wrap(err, "postgres: commit insert contact")
	}
	return true, nil
}

func (s *PostgresStore) CreateOutreach(ctx context.Context, o model.Outreach) (int64, error) {
	if o.Status == "" {
		o.Status = model.OutreachNew
	}
	now := time.Now().UTC()
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO outreach (company_id, contact_id, status, email_draft, sent_at, notes, needs_followup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		o.CompanyID, o.ContactID, string(o.Status), o.EmailDraft, o.SentAt, o.Notes, o.NeedsFollowup, now, now).Scan(&id)
	return id, eris.Wrap(err, "postgres: create outreach")
}

func (s *PostgresStore) FlagFollowups(ctx context.Context, sentBefore time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE outreach SET needs_followup = TRUE, updated_at = $1
		WHERE status = 'sent' AND sent_at IS NOT NULL AND sent_at < $2 AND needs_followup = FALSE`,
		time.Now().UTC(), sentBefore)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: flag followups")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) OutreachStatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM outreach GROUP BY status`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: outreach status counts")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan status count")
		}
		counts[status] = n
	}
	return counts, eris.Wrap(rows.Err(), "postgres: status counts iterate")
}

func (s *PostgresStore) CountNeedsFollowup(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM outreach WHERE needs_followup = TRUE`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count followups")
}

func (s *PostgresStore) AppendAudit(ctx context.Context, e model.AuditEntry) error {
	if e.Outcome == "" {
		e.Outcome = model.OutcomeInfo
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_log (component, action, detail, company_id, run_id, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.Component, e.Action, e.Detail, e.CompanyID, e.RunID, string(e.Outcome), time.Now().UTC())
	return eris.Wrap(err, "postgres: append audit")
}

func (s *PostgresStore) ListAudit(ctx context.Context, f AuditFilter) ([]model.AuditEntry, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Component != "" {
		conds = append(conds, "component = "+arg(f.Component))
	}
	if f.RunID != "" {
		conds = append(conds, "run_id = "+arg(f.RunID))
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
		FROM audit_log %s ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s`,
		where, arg(limit), arg(f.Offset))
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list audit")
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var companyID *int64
		var outcome string
		if err := rows.Scan(&e.ID, &e.Component, &e.Action, &e.Detail, &companyID, &e.RunID, &outcome, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan audit entry")
		}
		e.CompanyID = companyID
		e.Outcome = model.Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list audit iterate")
}

func (s *PostgresStore) Stats(ctx context.Context) (*model.Stats, error) {
	st := &model.Stats{
		ContactsBySource: make(map[string]int),
		OutreachByStatus: make(map[string]int),
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM companies`, &st.TotalCompanies},
		{`SELECT COUNT(*) FROM companies WHERE is_hiring = TRUE`, &st.HiringCompanies},
		{`SELECT COUNT(*) FROM companies WHERE relevance_score > 0`, &st.ScoredCompanies},
		{`SELECT COUNT(*) FROM contacts`, &st.TotalContacts},
		{`SELECT COUNT(DISTINCT company_id) FROM contacts`, &st.CompaniesEnriched},
		{`SELECT COUNT(*) FROM outreach WHERE needs_followup = TRUE`, &st.NeedsFollowup},
	}
	for _, c := range counts {
		if err := s.pool.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, eris.Wrapf(err, "postgres: stats %s", c.query)
		}
	}

	rows, err := s.pool.Query(ctx, `SELECT source, COUNT(*) FROM contacts GROUP BY source`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: stats contacts by source")
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan source count")
		}
		st.ContactsBySource[source] = n
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: stats iterate")
	}

	byStatus, err := s.OutreachStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	st.OutreachByStatus = byStatus

	return st, nil
}

func scanPgCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	var industries, tags, locations string
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Website, &c.OneLiner, &c.LongDescription,
		&c.TeamSize, &c.Batch, &c.Status, &industries, &tags, &locations, &c.IsHiring,
		&c.LogoURL, &c.DirectoryURL, &c.RelevanceScore, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("company not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan company")
	}
	c.Industries = unmarshalStrings(industries)
	c.Tags = unmarshalStrings(tags)
	c.Locations = unmarshalStrings(locations)
	return &c, nil
}
