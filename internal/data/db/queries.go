package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements used by the stores.
type Queries struct {
	db DBTX
}

// New binds queries to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// TodoRow is a row of the todos table.
type TodoRow struct {
	ID        int64
	Subject   string
	Body      string
	Completed int64
	CreatedAt int64
	UpdatedAt int64
}

const todoColumns = `id, subject, body, completed, created_at, updated_at`

func scanTodo(s interface{ Scan(...any) error }) (TodoRow, error) {
	var r TodoRow
	err := s.Scan(&r.ID, &r.Subject, &r.Body, &r.Completed, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

type InsertTodoParams struct {
	Subject   string
	Body      string
	Completed int64
	CreatedAt int64
	UpdatedAt int64
}

const insertTodo = `INSERT INTO todos (subject, body, completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) InsertTodo(ctx context.Context, arg InsertTodoParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, insertTodo,
		arg.Subject, arg.Body, arg.Completed, arg.CreatedAt, arg.UpdatedAt,
	).Scan(&id)
	return id, err
}

const getTodo = `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

func (q *Queries) GetTodo(ctx context.Context, id int64) (TodoRow, error) {
	return scanTodo(q.db.QueryRowContext(ctx, getTodo, id))
}

const listTodos = `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at ASC, id ASC`

func (q *Queries) ListTodos(ctx context.Context) ([]TodoRow, error) {
	rows, err := q.db.QueryContext(ctx, listTodos)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []TodoRow
	for rows.Next() {
		r, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

type UpdateTodoParams struct {
	Subject   string
	Body      string
	Completed int64
	UpdatedAt int64
	ID        int64
}

const updateTodo = `UPDATE todos SET subject = ?, body = ?, completed = ?, updated_at = ? WHERE id = ?`

// UpdateTodo returns the number of rows changed.
func (q *Queries) UpdateTodo(ctx context.Context, arg UpdateTodoParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTodo,
		arg.Subject, arg.Body, arg.Completed, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTodo = `DELETE FROM todos WHERE id = ?`

// DeleteTodo returns the number of rows removed.
func (q *Queries) DeleteTodo(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTodo, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countTodos = `SELECT COUNT(*) FROM todos`

func (q *Queries) CountTodos(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTodos).Scan(&n)
	return n, err
}
