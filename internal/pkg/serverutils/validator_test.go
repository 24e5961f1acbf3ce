package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-studymate-be/pkg/apperror"
)

type sampleRequest struct {
	Title   string `validate:"required,max=10"`
	Content string `validate:"required"`
}

func TestValidateRequestOk(t *testing.T) {
	err := ValidateRequest(sampleRequest{Title: "ok", Content: "body"})
	assert.NoError(t, err)
}

func TestValidateRequestFailure(t *testing.T) {
	err := ValidateRequest(sampleRequest{Title: "this title is way too long"})
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "Title")
	assert.Contains(t, err.Error(), "Content")
}
