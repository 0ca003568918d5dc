package model

type AccessRole string

const (
	RoleMaster  AccessRole = "master"
	RoleTrainee AccessRole = "trainee"
)
