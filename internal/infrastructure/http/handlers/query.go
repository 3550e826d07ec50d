package handlers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

func badQuery(key string) error {
	return errors.NewBadRequestError(fmt.Sprintf("Invalid query parameter %s", key))
}

func paginationFrom(q url.Values) (inbound.PaginationParams, error) {
	page, err := intQueryOr(q, "page", 1)
	if err != nil {
		return inbound.PaginationParams{}, err
	}
	size, err := intQueryOr(q, "page_size", 20)
	if err != nil {
		return inbound.PaginationParams{}, err
	}
	return inbound.PaginationParams{Page: page, PageSize: size}.Normalize(), nil
}

func rangeFrom(q url.Values, prefix string) (inbound.RangeQuery, error) {
	lo, err := intQuery(q, prefix+"_min")
	if err != nil {
		return inbound.RangeQuery{}, err
	}
	hi, err := intQuery(q, prefix+"_max")
	if err != nil {
		return inbound.RangeQuery{}, err
	}
	if lo != nil && hi != nil && *lo > *hi {
		return inbound.RangeQuery{}, errors.NewBadRequestError(fmt.Sprintf("%s_min must not exceed %s_max", prefix, prefix))
	}
	return inbound.RangeQuery{Min: lo, Max: hi}, nil
}

func searchQueryFrom(q url.Values) (inbound.SearchQuery, error) {
	query := inbound.SearchQuery{
		Text:                strings.TrimSpace(q.Get("q")),
		Cuisines:            listQuery(q, "cuisine"),
		Categories:          listQuery(q, "category"),
		DietaryTags:         listQuery(q, "diet"),
		RequiredIngredients: listQuery(q, "require"),
		OptionalIngredients: listQuery(q, "optional"),
		ExcludedIngredients: listQuery(q, "exclude"),
		Sort:                q.Get("sort"),
	}

	// inclusive unless asked otherwise
	switch strings.ToLower(q.Get("diet_mode")) {
	case "", "inclusive":
		query.InclusiveDietary = true
	case "exclusive":
	default:
		return query, badQuery("diet_mode")
	}

	var err error
	if query.Prep, err = rangeFrom(q, "prep"); err != nil {
		return query, err
	}
	if query.Cook, err = rangeFrom(q, "cook"); err != nil {
		return query, err
	}
	if query.Total, err = rangeFrom(q, "total"); err != nil {
		return query, err
	}
	if query.Servings, err = rangeFrom(q, "servings"); err != nil {
		return query, err
	}
	if query.Pagination, err = paginationFrom(q); err != nil {
		return query, err
	}
	return query, nil
}
