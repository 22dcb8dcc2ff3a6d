package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/errors"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/dto"
)

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidPatch), errors.Is(err, domainErrors.ErrInvalidQuery):
		status = http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrWriteRejected):
		status = http.StatusConflict
	case errors.Is(err, domainErrors.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domainErrors.ErrDecode):
		status = http.StatusBadGateway
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: err.Error()})
}

// querySpec reads a filter and sort specification from the query string.
func querySpec(c *gin.Context) (model.QuerySpec, error) {
	spec := model.QuerySpec{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Platform:  c.Query("platform"),
		Assignee:  c.Query("assignee"),
		DateRange: model.DateRange(c.Query("range")),
		Search:    c.Query("q"),
		SortKey:   model.SortKey(c.Query("sort")),
		SortDir:   model.SortDirection(strings.ToLower(c.Query("dir"))),
	}
	var err error
	if spec.From, err = queryTime(c, "from"); err != nil {
		return spec, err
	}
	if spec.To, err = queryTime(c, "to"); err != nil {
		return spec, err
	}
	if spec.DateRange == "" && (spec.From != nil || spec.To != nil) {
		spec.DateRange = model.DateRangeCustom
	}
	return spec, nil
}

func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be RFC 3339", domainErrors.ErrInvalidQuery, key)
	}
	return &t, nil
}

// hasQueryFilter reports whether the request names any specification field.
func hasQueryFilter(c *gin.Context) bool {
	for _, key := range []string{"status", "priority", "platform", "assignee", "range", "from", "to", "q", "sort", "dir"} {
		if _, ok := c.GetQuery(key); ok {
			return true
		}
	}
	return false
}
