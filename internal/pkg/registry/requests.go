package registry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/domain/dto"
)

func (c *Client) ListRequests(ctx context.Context) ([]domain.IssueRequest, error) {
	var requests []domain.IssueRequest
	if err := c.getJSON(ctx, "/api/issue-requests/", &requests); err != nil {
		return nil, fmt.Errorf("list issue requests: %w", err)
	}
	return requests, nil
}

// CreateRequest posts JSON, or multipart when a supporting file is attached.
func (c *Client) CreateRequest(ctx context.Context, fields map[string]interface{}, upload *domain.Attachment) (domain.IssueRequest, error) {
	var (
		body        []byte
		contentType string
		err         error
	)
	if upload != nil {
		flat := make(map[string]string, len(fields))
		for k, v := range fields {
			flat[k] = fmt.Sprint(v)
		}
		body, contentType, err = multipartBody(flat, []dto.FilePart{{
			Field:       "upload",
			Name:        upload.Name,
			ContentType: upload.ContentType,
			Content:     upload.Content,
		}})
	} else {
		body, err = sonic.Marshal(fields)
		contentType = "application/json"
	}
	if err != nil {
		return domain.IssueRequest{}, fmt.Errorf("encode issue request: %w", err)
	}

	var created domain.IssueRequest
	if err := c.do(ctx, http.MethodPost, "/api/issue-requests/", body, contentType, &created); err != nil {
		return domain.IssueRequest{}, err
	}
	return created, nil
}

func (c *Client) UpdateRequest(ctx context.Context, id int64, fields map[string]interface{}) (domain.IssueRequest, error) {
	body, err := sonic.Marshal(fields)
	if err != nil {
		return domain.IssueRequest{}, err
	}

	var updated domain.IssueRequest
	path := fmt.Sprintf("/api/issue-requests/%d/", id)
	if err := c.do(ctx, http.MethodPut, path, body, "application/json", &updated); err != nil {
		return domain.IssueRequest{}, err
	}
	return updated, nil
}

func (c *Client) SubmitRequest(ctx context.Context, id int64) (domain.IssueRequest, error) {
	var submitted domain.IssueRequest
	path := fmt.Sprintf("/api/issue-requests/%d/submit/", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, "", &submitted); err != nil {
		return domain.IssueRequest{}, err
	}
	return submitted, nil
}
