package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/groblegark/catalog/internal/model"
	"github.com/groblegark/catalog/internal/store"
)

// productColumns is the column list used for SELECT statements on the
// products table.
const productColumns = `id, name, description, price, active, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateProduct(ctx context.Context, db executor, p *model.Product) error {
	row := db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		p.Name,
		p.Description,
		p.Price,
		p.Active,
	)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func queryGetProduct(ctx context.Context, db executor, id int64) (*model.Product, error) {
	row := db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func queryListProducts(ctx context.Context, db executor, filter model.ProductFilter) ([]*model.Product, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if !filter.IncludeInactive {
		whereClauses = append(whereClauses, "active = TRUE")
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, "name ILIKE "+nextArg())
		args = append(args, "%"+filter.Search+"%")
	}

	if filter.MinPrice != nil {
		whereClauses = append(whereClauses, "price >= "+nextArg())
		args = append(args, *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		whereClauses = append(whereClauses, "price <= "+nextArg())
		args = append(args, *filter.MaxPrice)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	// Newest first, matching the snapshot contract.
	query += " ORDER BY id DESC"

	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func queryUpdateProduct(ctx context.Context, db executor, p *model.Product) error {
	row := db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Active,
	)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

func queryDeactivateProduct(ctx context.Context, db executor, id int64) error {
	res, err := db.ExecContext(ctx, `
		UPDATE products SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryGetUserByEmail(ctx context.Context, db executor, email string) (*model.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role FROM users WHERE email = $1`, email)

	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}
