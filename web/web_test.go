package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealpoint/staffdesk/backend"
	"github.com/mealpoint/staffdesk/session"
)

func TestAllPagesParse(t *testing.T) {
	v, err := NewViews()
	require.NoError(t, err)
	for _, name := range []string{
		"signin.html", "signup.html", "loading.html", "restricted.html",
		"error.html",
	} {
		assert.Contains(t, v.pages, name)
	}
	assert.NotContains(t, v.pages, "layout.html", "the layout is not a page")
}

func TestUnknownTemplateIsAnError(t *testing.T) {
	v, err := NewViews()
	require.NoError(t, err)
	err = v.Render(&strings.Builder{}, "nope.html", Page{})
	assert.Error(t, err)
}

func TestSidebarLocksLinksWithoutGrant(t *testing.T) {
	v, err := NewViews()
	require.NoError(t, err)

	snap := session.Snapshot{
		Authenticated: true,
		User:          &backend.User{Name: "Asha"},
		Grants: []backend.PermissionGrant{
			{Type: "VIEW_ORDERS", Granted: true},
		},
	}
	var out strings.Builder
	require.NoError(t, v.Render(&out, "loading.html", Page{Title: "Loading", Snap: snap}))

	html := out.String()
	assert.Contains(t, html, `href="/orders"`, "granted link is live")
	assert.NotContains(t, html, `href="/inventory"`, "ungranted link renders locked")
}

func TestMoneyFormatting(t *testing.T) {
	f := funcs["money"].(func(float64) string)
	assert.Equal(t, "₹1,234.50", f(1234.5))
	assert.Equal(t, "₹0.00", f(0))
}
