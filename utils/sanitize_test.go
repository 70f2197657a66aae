package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Hello world", StripHTML("<b>Hello</b> <i>world</i>"))
	assert.Equal(t, "alert('x')", StripHTML("<script>alert('x')</script>"))
	assert.Equal(t, "plain text", StripHTML("plain text"))
	assert.Equal(t, "a b", StripHTML("a    <br/>   b"))
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("alice"))
	assert.True(t, IsValidUsername("user_name-42"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("has space"))
	assert.False(t, IsValidUsername("dots.not.allowed"))
	assert.False(t, IsValidUsername("this_username_is_far_too_long_to_be_valid"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \t\n"))
	assert.False(t, IsBlank(" x "))
}
