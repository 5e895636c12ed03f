package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"depot-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveErrorStatus(t *testing.T) {
	integrity := &models.IntegrityError{ContainerNo: "MSKU1234567", SlotID: 3, Tier: 1, Count: 2}

	assert.Equal(t, http.StatusConflict, resolveErrorStatus(integrity))
	assert.Equal(t, http.StatusConflict, resolveErrorStatus(fmt.Errorf("resolving: %w", integrity)))
	assert.Equal(t, http.StatusNotFound, resolveErrorStatus(errors.New("container not found")))
}
