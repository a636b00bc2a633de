package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

// PageRequest carries the offset pagination params shared by every list
// endpoint. The opaque pageToken style of some API generations is
// unsupported here; offset paging is the one style served.
type PageRequest struct {
	Page     int
	PageSize int
}

func bindPageRequest(ctx echo.Context) (PageRequest, error) {
	pr := PageRequest{Page: 0, PageSize: core.DefaultPageSize}

	if raw := ctx.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return pr, core.NewValidationError(errors.Errorf("invalid page: %q", raw))
		}
		pr.Page = page
	}
	if raw := ctx.QueryParam("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return pr, core.NewValidationError(errors.Errorf("invalid pageSize: %q", raw))
		}
		pr.PageSize = size
	}
	return pr, nil
}

// bindStates collects a repeated query parameter ("courseStates=ACTIVE&
// courseStates=ARCHIVED") into typed state values via conv.
func bindStates[T any](ctx echo.Context, param string, conv func(string) (T, error)) ([]T, error) {
	raw := ctx.QueryParams()[param]
	if len(raw) == 0 {
		return nil, nil
	}
	states := make([]T, 0, len(raw))
	for _, r := range raw {
		s, err := conv(r)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}

func bindUpdateMask(ctx echo.Context) (core.FieldMask, error) {
	raw := ctx.QueryParam("updateMask")
	if core.CleanString(raw) == "" {
		return nil, errUpdateMaskNeeded
	}
	return core.ParseFieldMask(raw)
}
