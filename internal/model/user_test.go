package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{FirstName: " Ada "}).FullName())
	assert.Equal(t, "Lovelace", (&User{LastName: "Lovelace"}).FullName())
	assert.Empty(t, (&User{}).FullName())
}
