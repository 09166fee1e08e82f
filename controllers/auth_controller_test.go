package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestRegisterInsertFailureDuplicateEmailIs409(t *testing.T) {
	err := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}

	status, message := registerInsertFailure(err)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", message)
}

func TestRegisterInsertFailureOtherErrorsAre500(t *testing.T) {
	status, message := registerInsertFailure(errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to register", message)
}
