package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// constraintPattern is the fallback for constraint names of other tables:
// the last word before the suffix.
var constraintPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey|check)$`)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// codeActions names the error code suffix per category.
var codeActions = map[Code]string{
	ForeignKeyViolation:       "NOT_FOUND",
	UniqueViolation:           "ALREADY_EXISTS",
	NotNullViolation:          "REQUIRED",
	CheckViolation:            "INVALID",
	InvalidTextRepresentation: "INVALID",
	StringDataRightTruncation: "INVALID",
}

// errorCode builds "<ENTITY>_<ACTION>" codes such as MOVIE_REQUIRED.
func errorCode(tableName string, code Code) string {
	entity := "RECORD"
	if tableName != "" {
		entity = strings.ToUpper(singular(tableName))
	}

	action, ok := codeActions[code]
	if !ok {
		action = "ERROR"
	}

	return entity + "_" + action
}

// userMessage is the client-facing text for sqlErr. For unique violations
// the column is filled in by HandleError when it can be inferred.
func userMessage(sqlErr *Error) string {
	field := humanizeText(sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName(sqlErr.TableName, sqlErr.ColumnName))
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName(sqlErr.TableName, ""))
	case NotNullViolation:
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation:
		if field == "" {
			return "One or more values do not meet required conditions"
		}
		return fmt.Sprintf("The %s value does not meet required conditions", field)
	case InvalidTextRepresentation, StringDataRightTruncation:
		return "One or more values have an invalid format"
	default:
		return "An error occurred while processing your request"
	}
}

// entityName names the record involved: the target of a "<entity>_id"
// column, else the singular table name.
func entityName(tableName, columnName string) string {
	if entity, ok := strings.CutSuffix(strings.ToLower(columnName), "_id"); ok && entity != "" {
		return humanizeText(entity)
	}
	if tableName != "" {
		return humanizeText(singular(tableName))
	}
	return "record"
}

// singular drops a trailing "s": movies -> movie.
func singular(tableName string) string {
	if len(tableName) > 1 {
		return strings.TrimSuffix(tableName, "s")
	}
	return tableName
}

// humanizeText turns "release_date" into "Release Date".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// constraintSuffixes are the suffixes Postgres gives generated constraint
// names: "<table>_<column>_key" for UNIQUE and "<table>_<column>_check" for CHECK.
var constraintSuffixes = []string{"_key", "_ukey", "_check"}

// constraintColumn infers the column a constraint guards from its name.
// It understands "unique_<table>_<column>" and the generated
// "<table>_<column>_<suffix>" names, including columns with underscores.
func constraintColumn(tableName, constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if tableName != "" {
		if rest, ok := strings.CutPrefix(constraintName, "unique_"+tableName+"_"); ok {
			return rest
		}
		if rest, ok := strings.CutPrefix(constraintName, tableName+"_"); ok {
			for _, suffix := range constraintSuffixes {
				if column, ok := strings.CutSuffix(rest, suffix); ok && column != "" {
					return column
				}
			}
			return ""
		}
	}

	if matches := constraintPattern.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into an *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged
//   - *pgconn.PgError: mapped by SQLSTATE
//   - pgx.ErrNoRows / sql.ErrNoRows: 404, naming the table tagged with WithTable
//   - anything else: 500
//
// The original error is kept as the cause so logs still show it.
func HandleError(err error) error {
	if _, ok := errs.AsHTTPError(err); ok {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return fromPgError(ConvertPgError(pgerr), err)
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		if table := taggedTable(err); table != "" {
			return errs.NewNotFoundError(entityName(table, "")+" not found", true, nil).WithCause(err)
		}
		return errs.NewNotFoundError("Resource not found", false, nil).WithCause(err)
	}

	return errs.NewInternalServerError().WithCause(err)
}

// fromPgError maps a constraint or data error to a 4xx, keeping err as the cause.
func fromPgError(sqlErr *Error, err error) error {
	code := errorCode(sqlErr.TableName, sqlErr.Code)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		// A restricted delete reports the parent table; the row is still referenced.
		if strings.HasPrefix(sqlErr.Message, "update or delete") {
			conflictCode := errorCode(sqlErr.TableName, Other)
			message := fmt.Sprintf("The %s is still referenced by other records",
				strings.ToLower(entityName(sqlErr.TableName, "")))
			return errs.NewConflictError(message, true, &conflictCode).WithCause(err)
		}
		return errs.NewBadRequestError(userMessage(sqlErr), false, &code, nil, nil).WithCause(err)

	case UniqueViolation:
		message := userMessage(sqlErr)
		if column := constraintColumn(sqlErr.TableName, sqlErr.ConstraintName); column != "" {
			message = strings.ReplaceAll(message, "identifier", humanizeText(column))
		}
		return errs.NewBadRequestError(message, true, &code, nil, nil).WithCause(err)

	case NotNullViolation, CheckViolation:
		// CHECK errors carry no column; recover it from the constraint name.
		if sqlErr.ColumnName == "" {
			sqlErr.ColumnName = constraintColumn(sqlErr.TableName, sqlErr.ConstraintName)
		}
		var fieldErrors []errs.FieldError
		if sqlErr.ColumnName != "" {
			problem := "is invalid"
			if sqlErr.Code == NotNullViolation {
				problem = "is required"
			}
			fieldErrors = []errs.FieldError{{Field: strings.ToLower(sqlErr.ColumnName), Error: problem}}
		}
		return errs.NewBadRequestError(userMessage(sqlErr), true, &code, fieldErrors, nil).WithCause(err)

	case InvalidTextRepresentation, StringDataRightTruncation:
		return errs.NewBadRequestError(userMessage(sqlErr), true, &code, nil, nil).WithCause(err)

	default:
		return errs.NewInternalServerError().WithCause(err)
	}
}
