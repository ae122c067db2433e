package database

import "context"

const userColumns = `id, tenant_id, restaurant_id, name, email, password_hash, role,
	is_active, created_at, updated_at`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const sql = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = true`
	var u User
	err := q.db.QueryRow(ctx, sql, email).Scan(
		&u.ID, &u.TenantID, &u.RestaurantID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
