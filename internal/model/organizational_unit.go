package model

// OrganizationalUnit is an AWS Organizations OU targeted for registration.
type OrganizationalUnit struct {
	ID  string `json:"id" yaml:"id" validate:"required"`
	ARN string `json:"arn" yaml:"arn" validate:"required"`
}
