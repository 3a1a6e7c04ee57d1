package registry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/domain/dto"
)

func (c *Client) ListDevices(ctx context.Context) ([]domain.Device, error) {
	var devices []domain.Device
	if err := c.getJSON(ctx, "/api/devices/", &devices); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

// CreateDevice posts the flat form plus attachments as multipart, the only
// encoding the registry accepts for file fields.
func (c *Client) CreateDevice(ctx context.Context, payload dto.DevicePayload) (domain.Device, error) {
	body, contentType, err := multipartBody(payload.Fields, payload.Files)
	if err != nil {
		return domain.Device{}, fmt.Errorf("encode device form: %w", err)
	}

	var created domain.Device
	if err := c.do(ctx, http.MethodPost, "/api/devices/", body, contentType, &created); err != nil {
		return domain.Device{}, err
	}
	return created, nil
}

func (c *Client) UpdateDevice(ctx context.Context, id int64, fields map[string]interface{}) (domain.Device, error) {
	body, err := sonic.Marshal(fields)
	if err != nil {
		return domain.Device{}, err
	}

	var updated domain.Device
	path := fmt.Sprintf("/api/devices/%d/", id)
	if err := c.do(ctx, http.MethodPatch, path, body, "application/json", &updated); err != nil {
		return domain.Device{}, err
	}
	return updated, nil
}

func (c *Client) DeleteDevice(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/devices/%d/", id), nil, "", nil)
}

func (c *Client) SubmitDevice(ctx context.Context, id int64) (domain.Device, error) {
	var submitted domain.Device
	path := fmt.Sprintf("/api/devices/%d/submit/", id)
	if err := c.do(ctx, http.MethodPost, path, nil, "", &submitted); err != nil {
		return domain.Device{}, err
	}
	return submitted, nil
}
