package listview

import "sync"

// Controller keeps the table state one screen holds between interactions:
// current search, filters, sort and page. Any change of search, filter or
// sort resets the page index to 0 so an out-of-range empty page is never
// shown.
type Controller[T any] struct {
	mu     sync.Mutex
	view   *View[T]
	params Params
}

func NewController[T any](view *View[T], pageSize int) *Controller[T] {
	return &Controller[T]{
		view:   view,
		params: Params{Filters: make(map[string]string), PageSize: pageSize},
	}
}

func (c *Controller[T]) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.params.Search == search {
		return
	}
	c.params.Search = search
	c.params.Page = 0
}

func (c *Controller[T]) SetFilter(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.params.Filters[field] == value {
		return
	}
	c.params.Filters[field] = value
	c.params.Page = 0
}

// SortBy toggles direction on a repeated field and resets to ascending on a
// new one.
func (c *Controller[T]) SortBy(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.params.SortField == field {
		if c.params.SortDir == Ascending {
			c.params.SortDir = Descending
		} else {
			c.params.SortDir = Ascending
		}
	} else {
		c.params.SortField = field
		c.params.SortDir = Ascending
	}
	c.params.Page = 0
}

func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page >= 0 {
		c.params.Page = page
	}
}

func (c *Controller[T]) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.params
	p.Filters = make(map[string]string, len(c.params.Filters))
	for k, v := range c.params.Filters {
		p.Filters[k] = v
	}
	return p
}

func (c *Controller[T]) Apply(items []T) Page[T] {
	return c.view.Apply(items, c.Params())
}
