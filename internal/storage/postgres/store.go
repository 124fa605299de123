package postgres

// Package postgres provides a pgx-backed store that satisfies the same
// repository and writer interfaces as the in-memory store.
//
// It is intentionally small and explicit. Migrations that create the expected
// schema live under db/migrations. This package focuses on mapping between the
// domain records and SQL rows and running the necessary statements.

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"schoolbooks/internal/books"
	"schoolbooks/internal/errs"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

const entryColumns = `id, book, date, voucher_no, account_head, account_class, description,
	method, debit::text, credit::text, transfer, invoice_no, name, gender, fee_type,
	auto_fee::text, entry_date`

// --- Entries ---

// ListEntries returns a book's entries ordered asc by (date, id).
func (s *Store) ListEntries(ctx context.Context, book books.Book) ([]books.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		select `+entryColumns+`
		from entries
		where book = $1
		order by date, id
	`, string(book))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GetEntry returns a single entry by id.
func (s *Store) GetEntry(ctx context.Context, book books.Book, id uuid.UUID) (books.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		select `+entryColumns+`
		from entries
		where book = $1 and id = $2
	`, string(book), id)
	if err != nil {
		return books.Entry{}, err
	}
	defer rows.Close()
	out, err := scanEntries(rows)
	if err != nil {
		return books.Entry{}, err
	}
	if len(out) == 0 {
		return books.Entry{}, errs.ErrNotFound
	}
	return out[0], nil
}

// InsertEntry persists a new entry, assigning the record id.
func (s *Store) InsertEntry(ctx context.Context, e books.Entry) (books.Entry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		insert into entries (id, book, date, voucher_no, account_head, account_class,
			description, method, debit, credit, transfer, invoice_no, name, gender,
			fee_type, auto_fee, entry_date)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, e.ID, string(e.Book), e.Date, e.VoucherNo, e.AccountHead, e.AccountClass,
		e.Description, string(e.Method), e.Debit.String(), e.Credit.String(),
		string(e.Transfer), e.InvoiceNo, e.Name, e.Gender, string(e.FeeType),
		e.AutoFee.String(), e.EntryDate)
	if err != nil {
		return books.Entry{}, err
	}
	return e, nil
}

// UpdateEntry replaces the stored row for e.ID.
func (s *Store) UpdateEntry(ctx context.Context, e books.Entry) (books.Entry, error) {
	tag, err := s.pool.Exec(ctx, `
		update entries set date=$3, voucher_no=$4, account_head=$5, account_class=$6,
			description=$7, method=$8, debit=$9, credit=$10, transfer=$11,
			invoice_no=$12, name=$13, gender=$14, fee_type=$15, auto_fee=$16
		where book = $1 and id = $2
	`, string(e.Book), e.ID, e.Date, e.VoucherNo, e.AccountHead, e.AccountClass,
		e.Description, string(e.Method), e.Debit.String(), e.Credit.String(),
		string(e.Transfer), e.InvoiceNo, e.Name, e.Gender, string(e.FeeType),
		e.AutoFee.String())
	if err != nil {
		return books.Entry{}, err
	}
	if tag.RowsAffected() == 0 {
		return books.Entry{}, errs.ErrNotFound
	}
	return e, nil
}

// DeleteEntry removes an entry by id.
func (s *Store) DeleteEntry(ctx context.Context, book books.Book, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `delete from entries where book = $1 and id = $2`, string(book), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Snapshot reads every book's entries inside one repeatable-read
// transaction so the aggregator never sees torn totals.
func (s *Store) Snapshot(ctx context.Context) (map[books.Book][]books.Entry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `select `+entryColumns+` from entries order by book, date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[books.Book][]books.Entry)
	for _, e := range all {
		out[e.Book] = append(out[e.Book], e)
	}
	return out, tx.Commit(ctx)
}

// --- Rules ---

// ListRules returns the fee schedule in creation order, so resolution's
// first-match-wins behaves the same as the in-memory store.
func (s *Store) ListRules(ctx context.Context) ([]books.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		select id, account_head, account_class, registration_fee::text,
			services_fee::text, promotion_fee::text, date, remark
		from rules
		order by created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []books.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRule returns one rule by id.
func (s *Store) GetRule(ctx context.Context, id uuid.UUID) (books.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		select id, account_head, account_class, registration_fee::text,
			services_fee::text, promotion_fee::text, date, remark
		from rules
		where id = $1
	`, id)
	if err != nil {
		return books.Rule{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return books.Rule{}, err
		}
		return books.Rule{}, errs.ErrNotFound
	}
	return scanRule(rows)
}

// InsertRule persists a new rule, assigning its id.
func (s *Store) InsertRule(ctx context.Context, r books.Rule) (books.Rule, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		insert into rules (id, account_head, account_class, registration_fee,
			services_fee, promotion_fee, date, remark, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,now())
	`, r.ID, r.AccountHead, r.AccountClass, r.RegistrationFee.String(),
		r.ServicesFee.String(), r.PromotionFee.String(), r.Date, r.Remark)
	if err != nil {
		return books.Rule{}, err
	}
	return r, nil
}

// UpdateRule replaces a rule's business fields.
func (s *Store) UpdateRule(ctx context.Context, r books.Rule) (books.Rule, error) {
	tag, err := s.pool.Exec(ctx, `
		update rules set account_head=$2, account_class=$3, registration_fee=$4,
			services_fee=$5, promotion_fee=$6, date=$7, remark=$8
		where id = $1
	`, r.ID, r.AccountHead, r.AccountClass, r.RegistrationFee.String(),
		r.ServicesFee.String(), r.PromotionFee.String(), r.Date, r.Remark)
	if err != nil {
		return books.Rule{}, err
	}
	if tag.RowsAffected() == 0 {
		return books.Rule{}, errs.ErrNotFound
	}
	return r, nil
}

// DeleteRule removes a rule by id.
func (s *Store) DeleteRule(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `delete from rules where id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Customers ---

// ListCustomers returns registry records in creation order.
func (s *Store) ListCustomers(ctx context.Context) ([]books.Customer, error) {
	rows, err := s.pool.Query(ctx, `
		select id, custom_id, account_head, account_class, gender, name, entry_date
		from customers
		order by entry_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []books.Customer
	for rows.Next() {
		var c books.Customer
		if err := rows.Scan(&c.ID, &c.CustomID, &c.AccountHead, &c.AccountClass, &c.Gender, &c.Name, &c.EntryDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertCustomer persists a registry record, assigning its id.
func (s *Store) InsertCustomer(ctx context.Context, c books.Customer) (books.Customer, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		insert into customers (id, custom_id, account_head, account_class, gender, name, entry_date)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, c.ID, c.CustomID, c.AccountHead, c.AccountClass, c.Gender, c.Name, c.EntryDate)
	if err != nil {
		return books.Customer{}, err
	}
	return c, nil
}

// --- Sequences ---

// NextSequence atomically increments and returns the named counter. Unlike
// the snapshot-derived voucher sequence, this cannot collide under
// concurrent creation.
func (s *Store) NextSequence(ctx context.Context, scope string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `
		insert into sequences (scope, n) values ($1, 1)
		on conflict (scope) do update set n = sequences.n + 1
		returning n
	`, scope).Scan(&n)
	return n, err
}

// SeedDev inserts a fee rule and a handful of entries for quick local
// testing.
func (s *Store) SeedDev(ctx context.Context) error {
	_, err := s.InsertRule(ctx, books.Rule{
		AccountHead:     "Boarder",
		AccountClass:    "G_3",
		RegistrationFee: decimal.NewFromInt(20000),
		ServicesFee:     decimal.NewFromInt(5000),
		Date:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Remark:          "dev seed",
	})
	if err != nil {
		return err
	}
	_, err = s.InsertEntry(ctx, books.Entry{
		Book:        books.BookBank,
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		VoucherNo:   "BK-010425-001",
		AccountHead: "Deposit",
		Description: "dev seed",
		Method:      books.MethodBank,
		Debit:       decimal.NewFromInt(100000),
		EntryDate:   time.Now().UTC(),
	})
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntries(rows pgx.Rows) ([]books.Entry, error) {
	var out []books.Entry
	for rows.Next() {
		var (
			e                      books.Entry
			book, method, transfer string
			feeType                string
			debit, credit, autoFee string
		)
		if err := rows.Scan(&e.ID, &book, &e.Date, &e.VoucherNo, &e.AccountHead,
			&e.AccountClass, &e.Description, &method, &debit, &credit, &transfer,
			&e.InvoiceNo, &e.Name, &e.Gender, &feeType, &autoFee, &e.EntryDate); err != nil {
			return nil, err
		}
		e.Book = books.Book(book)
		e.Method = books.Method(method)
		e.Transfer = books.TransferTag(transfer)
		e.FeeType = books.FeeType(feeType)
		var err error
		if e.Debit, err = parseNumeric(debit); err != nil {
			return nil, err
		}
		if e.Credit, err = parseNumeric(credit); err != nil {
			return nil, err
		}
		if e.AutoFee, err = parseNumeric(autoFee); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanRule(row rowScanner) (books.Rule, error) {
	var (
		r               books.Rule
		reg, svc, promo string
	)
	if err := row.Scan(&r.ID, &r.AccountHead, &r.AccountClass, &reg, &svc, &promo, &r.Date, &r.Remark); err != nil {
		return books.Rule{}, err
	}
	var err error
	if r.RegistrationFee, err = parseNumeric(reg); err != nil {
		return books.Rule{}, err
	}
	if r.ServicesFee, err = parseNumeric(svc); err != nil {
		return books.Rule{}, err
	}
	if r.PromotionFee, err = parseNumeric(promo); err != nil {
		return books.Rule{}, err
	}
	return r, nil
}

// parseNumeric tolerates empty text from nullable columns.
func parseNumeric(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("invalid numeric from db: " + s)
	}
	return d, nil
}
