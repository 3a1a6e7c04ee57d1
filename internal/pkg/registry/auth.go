package registry

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/session"
)

// Login exchanges credentials for a token pair and persists the auth slice.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body, err := sonic.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var answer struct {
		Access  string       `json:"access"`
		Refresh string       `json:"refresh"`
		User    *domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/login/", body, "application/json", &answer); err != nil {
		return nil, err
	}

	creds := session.Credentials{Access: answer.Access, Refresh: answer.Refresh, User: answer.User}
	if err := c.session.SetCredentials(creds); err != nil {
		return nil, err
	}

	if answer.User == nil {
		// Older registry builds omit the user from the login answer.
		user, err := c.Profile(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.session.SetUser(&user); err != nil {
			return nil, err
		}
		return &user, nil
	}
	return answer.User, nil
}

func (c *Client) RegisterAccount(ctx context.Context, email, password, firstName, lastName string) error {
	return c.postJSON(ctx, "/register/", map[string]string{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
	}, nil)
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.getJSON(ctx, "/api/profile/", &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, fields map[string]interface{}) (domain.User, error) {
	body, err := sonic.Marshal(fields)
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	if err := c.do(ctx, http.MethodPut, "/api/profile/", body, "application/json", &user); err != nil {
		return domain.User{}, err
	}
	if err := c.session.SetUser(&user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
