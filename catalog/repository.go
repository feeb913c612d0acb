package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
)

var _ Repository = (*repository)(nil)

type Repository interface {
	ListActive(ctx context.Context, tx pgx.Tx) ([]*models.Product, error)
	List(ctx context.Context, tx pgx.Tx) ([]*models.Product, error)
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Product, error)
	Create(ctx context.Context, tx pgx.Tx, product *models.Product) error
	Update(ctx context.Context, tx pgx.Tx, product *models.Product) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
	SetActive(ctx context.Context, tx pgx.Tx, id string, active bool) error
	Count(ctx context.Context, tx pgx.Tx) (int, error)
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

const productColumns = `id, title, description, image, images, price, category, active, created_at`

func (r *repository) ListActive(ctx context.Context, tx pgx.Tx) ([]*models.Product, error) {
	return r.list(ctx, tx, `SELECT `+productColumns+` FROM products WHERE active ORDER BY created_at ASC, id ASC`)
}

func (r *repository) List(ctx context.Context, tx pgx.Tx) ([]*models.Product, error) {
	return r.list(ctx, tx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id ASC`)
}

func (r *repository) list(ctx context.Context, tx pgx.Tx, query string) ([]*models.Product, error) {
	rows, err := driver.Use(r.conn, tx).Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		row, err := scanProduct(rows)
		if err != nil {
			r.logger.Error("Failed to scan product", zap.Error(err))
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		product, err := parseProduct(row)
		if err != nil {
			r.logger.Warn("Skipping invalid product row", zap.String("product_id", row.ID), zap.Error(err))
			continue
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate products", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Product, error) {
	row, err := scanProduct(driver.Use(r.conn, tx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return parseProduct(row)
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, product *models.Product) error {
	err := driver.Use(r.conn, tx).QueryRow(ctx, `
		INSERT INTO products (id, title, description, image, images, price, category, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		product.ID, product.Title, product.Description, product.Image, imagesOrEmpty(product.Images),
		product.Price, product.Category, product.Active,
	).Scan(&product.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create product", zap.String("product_id", product.ID), zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, tx pgx.Tx, product *models.Product) error {
	tag, err := driver.Use(r.conn, tx).Exec(ctx, `
		UPDATE products
		SET title = $2, description = $3, image = $4, images = $5, price = $6, category = $7, active = $8
		WHERE id = $1`,
		product.ID, product.Title, product.Description, product.Image, imagesOrEmpty(product.Images),
		product.Price, product.Category, product.Active,
	)
	if err != nil {
		r.logger.Error("Failed to update product", zap.String("product_id", product.ID), zap.Error(err))
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := driver.Use(r.conn, tx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, tx pgx.Tx, id string, active bool) error {
	tag, err := driver.Use(r.conn, tx).Exec(ctx, `UPDATE products SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		r.logger.Error("Failed to set product active flag", zap.String("product_id", id), zap.Error(err))
		return fmt.Errorf("failed to set product active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context, tx pgx.Tx) (int, error) {
	var count int
	if err := driver.Use(r.conn, tx).QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error("Failed to count products", zap.Error(err))
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func scanProduct(row pgx.Row) (productRow, error) {
	var p productRow
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Image, &p.Images, &p.Price, &p.Category, &p.Active, &p.CreatedAt)
	return p, err
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
