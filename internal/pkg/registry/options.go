package registry

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
)

func (c *Client) FuelOptions(ctx context.Context) ([]domain.FuelOption, error) {
	var options []domain.FuelOption
	if err := c.getJSON(ctx, "/api/fuel-options/", &options); err != nil {
		return nil, fmt.Errorf("fuel options: %w", err)
	}
	return options, nil
}

func (c *Client) TechnologyOptions(ctx context.Context, fuel domain.FuelType) ([]domain.TechnologyOption, error) {
	var options []domain.TechnologyOption
	path := "/api/technology-options/?fuel_type=" + url.QueryEscape(string(fuel))
	if err := c.getJSON(ctx, path, &options); err != nil {
		return nil, fmt.Errorf("technology options for %s: %w", fuel, err)
	}
	return options, nil
}
