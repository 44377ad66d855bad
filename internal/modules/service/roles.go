package service

import (
	"context"

	"github.com/chatforge-io/chatforge/internal/pkg/scopes"
)

type RolesService interface {
	List(ctx context.Context) []scopes.Role
}

type rolesService struct{}

func NewRolesService() RolesService {
	return &rolesService{}
}

func (rolesService) List(context.Context) []scopes.Role {
	return scopes.Builtin
}
