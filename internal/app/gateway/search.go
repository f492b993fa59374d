package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// SearchQuery selects the transactions changed within a date window. Dates use the
// gateway format, e.g. 2024-01-31T00:00.
type SearchQuery struct {
	InitialDate string
	FinalDate   string
	Page        int
}

func (q SearchQuery) Values() (url.Values, error) {
	if q.InitialDate == "" {
		return nil, &Error{Kind: KindPrecondition, Message: "initial date is required", Cause: errors.New("missing initialDate")}
	}

	values := url.Values{}
	values.Set("initialDate", q.InitialDate)
	if q.FinalDate != "" {
		values.Set("finalDate", q.FinalDate)
	}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	return values, nil
}

// OrderStatus is one search hit reduced to what the store needs.
type OrderStatus struct {
	Code      string
	Reference string
	Status    string
}

// SearchPage is one page of search results.
type SearchPage struct {
	Orders      []OrderStatus
	CurrentPage int
	TotalPages  int
}

// SearchErrors is returned when the gateway rejected the search.
type SearchErrors struct {
	StatusCode int
	Errors     []ErrorEntry
}

func (e *SearchErrors) Error() string {
	return fmt.Sprintf("transaction search rejected (status %d): %v", e.StatusCode, e.Errors)
}

// ParseSearch reduces a search response to order statuses.
func ParseSearch(resp *Response) (SearchPage, error) {
	if resp != nil && resp.Success && resp.Body != nil && resp.Body.Search != nil {
		result := resp.Body.Search
		page := SearchPage{
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			Orders:      make([]OrderStatus, 0, len(result.Transactions)),
		}
		for _, tx := range result.Transactions {
			page.Orders = append(page.Orders, OrderStatus{Code: tx.Code, Reference: tx.Reference, Status: tx.Status})
		}
		return page, nil
	}

	if resp != nil && resp.Body.HasErrors() {
		return SearchPage{}, &SearchErrors{StatusCode: resp.StatusCode, Errors: resp.Body.Errors}
	}
	return SearchPage{}, contactError(resp)
}
