package services

import (
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/upkeephq/upkeep/internal/utils"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// normalizePage clamps skip/limit to the defaults the list endpoints use.
func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}

// mapNoRows converts the repository's missing-row error into the 404
// AppError carrying the endpoint's public detail message.
func mapNoRows(err error, detail string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.NotFoundError(detail)
	}
	return err
}
