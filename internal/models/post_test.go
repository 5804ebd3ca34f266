package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostEditableBy(t *testing.T) {
	post := &Post{ID: 1, UserID: 7}

	author := &User{ID: 7}
	other := &User{ID: 8}
	admin := &User{ID: 9, Role: Role{Name: "admin"}}

	assert.True(t, post.EditableBy(author))
	assert.False(t, post.EditableBy(other))
	// admin role does not grant edit rights over someone else's post
	assert.False(t, post.EditableBy(admin))
	assert.False(t, post.EditableBy(nil))
	assert.False(t, post.EditableBy(&User{}))
}

func TestPostDeletableBy(t *testing.T) {
	post := &Post{ID: 1, UserID: 7}

	author := &User{ID: 7, Role: Role{Name: "member"}}
	admin := &User{ID: 9, Role: Role{Name: "admin"}}

	assert.False(t, post.DeletableBy(author))
	assert.True(t, post.DeletableBy(admin))
	assert.False(t, post.DeletableBy(nil))
}
