package service

import "github.com/usermgmt/backend/internal/model"

// Authorize allows any role when no role is required.
func Authorize(role model.Role, required ...model.Role) error {
	if len(required) == 0 {
		return nil
	}
	for _, r := range required {
		if r == role {
			return nil
		}
	}
	return ErrForbidden
}
