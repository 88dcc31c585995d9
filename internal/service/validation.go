package service

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/optional"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
)

const (
	MaxPageLimit     = 100
	DefaultPageLimit = 10
	// MaxPage keeps (page-1)*limit far from int overflow.
	MaxPage = 1_000_000
)

// invalid converts an ozzo-validation result into a VALIDATION error whose
// message reads "field: problem, other.field: problem".
func invalid(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperror.Internal(internal.InternalError())
	}

	var fields validation.Errors
	if !errors.As(err, &fields) {
		return apperror.Validation(err.Error())
	}

	details := map[string]string{}
	flatten("", fields, details)

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + details[k]
	}

	return apperror.ValidationWithDetails(strings.Join(parts, ", "), details)
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for key, err := range errs {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(path, nested, out)
			continue
		}
		out[path] = err.Error()
	}
}

var errNotNullable = errors.New("cannot be null")

// validateSet applies rules to a supplied, non-null patch value.
func validateSet[T any](v optional.Value[T], rules ...validation.Rule) error {
	if !v.HasValue() {
		return nil
	}
	return validation.Validate(v.V, rules...)
}

// validateNotNull is validateSet for columns that cannot be cleared.
func validateNotNull[T any](v optional.Value[T], rules ...validation.Rule) error {
	if v.Set && v.Null {
		return errNotNullable
	}
	return validateSet(v, rules...)
}

// eachString applies rules to every element of a []string.
func eachString(rules ...validation.Rule) validation.Rule {
	return validation.By(func(value interface{}) error {
		values, _ := value.([]string)
		for _, v := range values {
			if err := validation.Validate(v, rules...); err != nil {
				return err
			}
		}
		return nil
	})
}

// NewPagination validates a 1-based page request.
func NewPagination(page, limit int) (repository.Pagination, error) {
	// Required rejects 0, which Min treats as empty and skips.
	atLeastOne := []validation.Rule{
		validation.Required.Error("must be at least 1"),
		validation.Min(1).Error("must be at least 1"),
	}
	err := validation.Errors{
		"page":  validation.Validate(page, append(atLeastOne, validation.Max(MaxPage).Error("must be at most "+strconv.Itoa(MaxPage)))...),
		"limit": validation.Validate(limit, append(atLeastOne, validation.Max(MaxPageLimit).Error("must be at most "+strconv.Itoa(MaxPageLimit)))...),
	}.Filter()
	if err != nil {
		return repository.Pagination{}, invalid(err)
	}
	return repository.Pagination{Page: page, Limit: limit}, nil
}

// Page is a slice of results plus the counters the list envelope needs.
type Page[T any] struct {
	Items      []T
	Total      int64
	Pagination repository.Pagination
}

func (p Page[T]) TotalPages() int {
	if p.Pagination.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Pagination.Limit) - 1) / int64(p.Pagination.Limit))
}

func (p Page[T]) HasNext() bool {
	return p.Pagination.Page < p.TotalPages()
}

func (p Page[T]) HasPrev() bool {
	return p.Pagination.Page > 1
}
