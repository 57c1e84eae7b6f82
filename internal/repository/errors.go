package repository

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
	pqNumericOverflow = "22003"
)

func pqCode(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

func isUniqueViolation(err error) (bool, string) {
	code, constraint := pqCode(err)
	return code == pqUniqueViolation, constraint
}

func isCheckViolation(err error) (bool, string) {
	code, constraint := pqCode(err)
	return code == pqCheckViolation, constraint
}

func isNumericOverflow(err error) bool {
	code, _ := pqCode(err)
	return code == pqNumericOverflow
}
