// Package dto provides data transfer objects for sample HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	sampleDomain "github.com/allisson/sampletrack/internal/sample/domain"
	customValidation "github.com/allisson/sampletrack/internal/validation"
)

// ActorRequest identifies the user performing the operation.
type ActorRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Document string `json:"document,omitempty"`
}

// Validate checks if the actor is valid.
func (a ActorRequest) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoControlChars,
			validation.Length(1, 255),
		),
		validation.Field(&a.Name, customValidation.NoControlChars, validation.Length(0, 255)),
		validation.Field(&a.Role, customValidation.NoControlChars, validation.Length(0, 100)),
		validation.Field(&a.Document, customValidation.NoControlChars, validation.Length(0, 100)),
	)
}

// ToDomain converts the request into the domain actor.
func (a ActorRequest) ToDomain() sampleDomain.Actor {
	return sampleDomain.Actor{
		ID:       a.ID,
		Name:     a.Name,
		Role:     a.Role,
		Document: a.Document,
	}
}

// CreateSampleRequest contains the parameters for registering a sample.
type CreateSampleRequest struct {
	ClientID string       `json:"client_id"`
	Actor    ActorRequest `json:"actor"`
}

// Validate checks if the create sample request is valid.
func (r *CreateSampleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID, validation.Required, customValidation.NoWhitespace),
		validation.Field(&r.Actor),
	)
}

// ChangeStatusRequest contains the target status and the actor requesting it.
type ChangeStatusRequest struct {
	Status string       `json:"status"`
	Actor  ActorRequest `json:"actor"`
}

// Validate checks if the change status request is well formed. Unknown
// statuses pass through so the rejected attempt still reaches the audit trail.
func (r *ChangeStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, customValidation.NoWhitespace),
		validation.Field(&r.Actor),
	)
}
