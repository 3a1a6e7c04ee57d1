package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

func testDevices() []domain.Device {
	return []domain.Device{
		{ID: 1, Name: "Kariba South", FuelType: domain.FuelHydro, Status: domain.DeviceApproved, Capacity: "750", Country: "Zimbabwe"},
		{ID: 2, Name: "Gwanda Solar", FuelType: domain.FuelSolar, Status: domain.DevicePending, Capacity: "100", Country: "Zimbabwe"},
		{ID: 3, Name: "Nyangani Hydro", FuelType: domain.FuelHydro, Status: domain.DeviceDraft, Capacity: "2.75", Country: "Zimbabwe"},
		{ID: 4, Name: "Harare Rooftop", FuelType: domain.FuelSolar, Status: domain.DeviceApproved, Capacity: "25", Country: "Zimbabwe"},
	}
}

func names(page Page[domain.Device]) []string {
	out := make([]string, 0, len(page.Items))
	for _, d := range page.Items {
		out = append(out, d.Name)
	}
	return out
}

func TestApplyIsIdempotent(t *testing.T) {
	view := DeviceView()
	params := Params{Search: "hydro", SortField: "name", PageSize: 10}

	first := view.Apply(testDevices(), params)
	second := view.Apply(testDevices(), params)
	assert.Equal(t, first, second)
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	view := DeviceView()

	page := view.Apply(testDevices(), Params{Search: "HYDRO"})
	assert.ElementsMatch(t, []string{"Nyangani Hydro"}, names(page))

	// fuel code matches too
	page = view.Apply(testDevices(), Params{Search: "es300"})
	assert.ElementsMatch(t, []string{"Kariba South", "Nyangani Hydro"}, names(page))
}

func TestEmptyFilterValueMeansNoConstraint(t *testing.T) {
	view := DeviceView()

	page := view.Apply(testDevices(), Params{Filters: map[string]string{"status": ""}})
	assert.Equal(t, 4, page.Total)

	page = view.Apply(testDevices(), Params{Filters: map[string]string{"status": "Approved"}})
	assert.Equal(t, 2, page.Total)
}

func TestNumericSortOnCapacity(t *testing.T) {
	view := DeviceView()

	page := view.Apply(testDevices(), Params{SortField: "capacity"})
	assert.Equal(t, []string{"Nyangani Hydro", "Harare Rooftop", "Gwanda Solar", "Kariba South"}, names(page))
}

func TestDescendingIsExactReverse(t *testing.T) {
	view := DeviceView()

	asc := view.Apply(testDevices(), Params{SortField: "name", SortDir: Ascending})
	desc := view.Apply(testDevices(), Params{SortField: "name", SortDir: Descending})

	require.Equal(t, len(asc.Items), len(desc.Items))
	for i := range asc.Items {
		assert.Equal(t, asc.Items[i].ID, desc.Items[len(desc.Items)-1-i].ID)
	}
}

func TestPaginationSlices(t *testing.T) {
	view := DeviceView()

	page := view.Apply(testDevices(), Params{SortField: "name", PageSize: 3})
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Items, 3)

	page = view.Apply(testDevices(), Params{SortField: "name", PageSize: 3, Page: 1})
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Items, 1)

	page = view.Apply(testDevices(), Params{SortField: "name", PageSize: 3, Page: 5})
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.PageIndex)
}

func TestControllerSortToggle(t *testing.T) {
	c := NewController(DeviceView(), 10)

	c.SortBy("name")
	assert.Equal(t, Ascending, c.Params().SortDir)

	c.SortBy("name")
	assert.Equal(t, Descending, c.Params().SortDir)

	c.SortBy("capacity")
	p := c.Params()
	assert.Equal(t, "capacity", p.SortField)
	assert.Equal(t, Ascending, p.SortDir)
}

func TestControllerResetsPageOnChange(t *testing.T) {
	c := NewController(DeviceView(), 2)

	c.SetPage(3)
	assert.Equal(t, 3, c.Params().Page)

	c.SetSearch("hydro")
	assert.Equal(t, 0, c.Params().Page)

	c.SetPage(2)
	c.SetSearch("hydro") // unchanged, page survives
	assert.Equal(t, 2, c.Params().Page)

	c.SetFilter("status", "Approved")
	assert.Equal(t, 0, c.Params().Page)

	c.SetPage(1)
	c.SortBy("name")
	assert.Equal(t, 0, c.Params().Page)
}
