package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/Mutombe/zim-rec-sub000/internal/pkg/constants"
)

// Binder decodes JSON bodies with sonic and leaves everything else to echo's
// default binder.
type Binder struct {
	fallback echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	contentType := req.Header.Get(echo.HeaderContentType)
	if req.ContentLength == 0 || !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		return b.fallback.Bind(i, c)
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return constants.NewCodedError(http.StatusBadRequest, "read request body: "+err.Error())
	}
	if err := sonic.Unmarshal(raw, i); err != nil {
		return constants.NewCodedError(http.StatusBadRequest, "malformed JSON body: "+err.Error())
	}
	return nil
}
