package domain

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"
)

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// OwnerRef is the owning-user reference as the registry serialises it: either
// an embedded user object or a bare id (number or numeric string). Both wire
// shapes decode; malformed payloads decode to the zero ref instead of failing
// the whole collection.
type OwnerRef struct {
	UserID int64
	User   *User
}

func (r OwnerRef) ID() int64 {
	if r.User != nil && r.User.ID != 0 {
		return r.User.ID
	}
	return r.UserID
}

func (r OwnerRef) IsZero() bool {
	return r.User == nil && r.UserID == 0
}

func (r *OwnerRef) UnmarshalJSON(data []byte) error {
	*r = OwnerRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '{':
		var u User
		if err := sonic.Unmarshal(data, &u); err == nil {
			r.User = &u
			r.UserID = u.ID
		}
	case '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err == nil {
			r.UserID, _ = strconv.ParseInt(s, 10, 64)
		}
	default:
		var id int64
		if err := sonic.Unmarshal(data, &id); err == nil {
			r.UserID = id
		}
	}
	return nil
}

func (r OwnerRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return sonic.Marshal(r.User)
	}
	return sonic.Marshal(r.UserID)
}
