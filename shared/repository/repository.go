package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"fleetops/infras/otel"
	"fleetops/infras/postgres"
	"fleetops/shared/constant"
	"fleetops/shared/dto"
	"fleetops/shared/logger"

	"github.com/jmoiron/sqlx"
)

var (
	errInvalidSortDir = errors.New("invalid sort direction")
	errUnknownColumn  = errors.New("unknown column")
)

// Joiner is implemented by row types that also read columns of other tables.
// JoinQuery returns the JOIN clauses placed after the FROM table.
type Joiner interface {
	JoinQuery() string
}

type column struct {
	name  string
	table string
	alias string
}

// Repository is an append-only table gateway. Rows are inserted once and read
// back with filters, ordering and pagination; nothing is updated in place.
//
// Columns come from the row type's db tags. A field tagged table:"other"
// column:"name" is read from a joined table as name AS <db tag> and is never
// inserted.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	entity        string
	table         string
	primaryColumn string
	join          string
	columns       []column
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	repo := Repository[T]{
		db:            dbConnection,
		otel:          otl,
		entity:        entityName,
		table:         tableName,
		primaryColumn: primaryColumn,
		columns:       columns,
		InsertColumns: insertColumns,
	}

	if joiner, ok := any(zero).(Joiner); ok {
		repo.join = joiner.JoinQuery()
	}

	return repo
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) Insert(ctx context.Context, row T) (err error) {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()
	defer scope.TraceIfError(&err)

	query := repo.insertQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = repo.db.Write.NamedExecContext(ctx, query, row); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert %s: %w", repo.entity, err)
	}

	return nil
}

// GetAll pages through the rows matching filter. Ordering is limited to the
// repository's own columns.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) (rows []T, err error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	ordering, err := repo.orderBy(params)
	if err != nil {
		return nil, err
	}

	where, args := repo.BuildWhereClause(filter)

	query := statement("SELECT", repo.getSelectQuery(columns...), "FROM", repo.table, repo.join, where, ordering, paginate(params, args))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &rows, args)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s rows: %w", repo.entity, err)
	}

	return rows, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (count int, err error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := repo.BuildWhereClause(filter)

	query := statement("SELECT", fmt.Sprintf("COUNT(%s.%s)", repo.table, repo.primaryColumn), "FROM", repo.table, repo.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", repo.entity, err)
	}

	return count, nil
}

// BuildWhereClause renders filter as a WHERE clause, or nothing when the
// filter is empty. args is never nil.
func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.Clause()
	if where == constant.Empty {
		return where, args
	}

	return "WHERE " + where, args
}

func (repo *Repository[T]) read(ctx context.Context, query string, scan func(stmt *sqlx.NamedStmt) error) error {
	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	if err = scan(stmt); err != nil {
		logger.ErrorWithStack(err)

		return err
	}

	return nil
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) orderBy(params dto.QueryParams) (string, error) {
	if params.SortBy == constant.Empty || params.SortDir == constant.Empty {
		return "", nil
	}

	if !slices.Contains(repo.sortable(), params.SortBy) {
		return "", fmt.Errorf("%w: %s", errUnknownColumn, params.SortBy)
	}

	sortDir := strings.ToUpper(params.SortDir)
	if sortDir != dto.SortDirAsc && sortDir != dto.SortDirDesc {
		return "", fmt.Errorf("%w: %s", errInvalidSortDir, params.SortDir)
	}

	return fmt.Sprintf("ORDER BY %s.%s %s", repo.table, params.SortBy, sortDir), nil
}

// sortable lists the columns of the repository's own table.
func (repo *Repository[T]) sortable() []string {
	names := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if col.table == repo.table {
			names = append(names, col.name)
		}
	}

	return names
}

// getSelectQuery lists every column, or only the named ones, qualified by table.
func (repo *Repository[T]) getSelectQuery(only ...string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		expr := col.table + "." + col.name
		if col.alias != constant.Empty {
			expr += " AS " + col.alias
		}

		selected = append(selected, expr)
	}

	return strings.Join(selected, ", ")
}

// paginate adds limit and offset to args. A page without a limit is ignored.
func paginate(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return ""
	}

	args["limit"] = params.Limit

	if params.Page <= 0 {
		return "LIMIT :limit"
	}

	args["offset"] = (params.Page - 1) * params.Limit

	return "LIMIT :limit OFFSET :offset"
}

func statement(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(part string) bool { return part == constant.Empty }), " ")
}

func getColumns(table string, rowType reflect.Type) (columns []column, insertColumns []string) {
	for i := range rowType.NumField() {
		field := rowType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == constant.Empty {
			continue
		}

		source := field.Tag.Get("table")
		if source == constant.Empty {
			source = table
		}

		if source == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != constant.Empty {
			columns = append(columns, column{name: name, table: source, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: source})
		}
	}

	return columns, insertColumns
}
