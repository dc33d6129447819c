package dto

import "github.com/hongminglow/vault-auth/internal/models"

type RegisterRequest struct {
	Username         string `json:"username"`
	LoginPassword    string `json:"loginPassword"`
	WithdrawPassword string `json:"withdrawPassword"`
}

type RegisterResponse struct {
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ProfileResponse struct {
	Profile models.Profile `json:"profile"`
}
