package router

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/storefront/internal/domain"
)

var creds = Credentials{Username: "merida13", Password: "darwin13"}

func TestInitialState(t *testing.T) {
	r := New(creds)
	assert.Equal(t, ViewHome, r.Current())
	assert.Equal(t, ViewHome, r.Rendered())
	assert.False(t, r.Authenticated())
}

func TestAdminRequiresLogin(t *testing.T) {
	r := New(creds)
	r.Navigate(ViewAdmin)

	assert.Equal(t, ViewAdmin, r.Current())
	assert.Equal(t, ViewLogin, r.Rendered())
}

func TestLoginTransitionsToAdmin(t *testing.T) {
	r := New(creds)
	r.Navigate(ViewAdmin)

	require.NoError(t, r.Login("merida13", "darwin13"))
	assert.True(t, r.Authenticated())
	assert.Equal(t, ViewAdmin, r.Rendered())

	// the cart stays reachable while signed in
	r.Navigate(ViewCart)
	assert.Equal(t, ViewCart, r.Rendered())
	r.Navigate(ViewAdmin)
	assert.Equal(t, ViewAdmin, r.Rendered())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := New(creds)
	r.Navigate(ViewLogin)

	err := r.Login("merida13", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, r.Authenticated())
	assert.Equal(t, ViewLogin, r.Rendered())

	assert.ErrorIs(t, r.Login("", ""), domain.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	r := New(creds)
	require.NoError(t, r.Login("merida13", "darwin13"))

	r.Logout()
	assert.False(t, r.Authenticated())
	assert.Equal(t, ViewHome, r.Current())

	r.Navigate(ViewAdmin)
	assert.Equal(t, ViewLogin, r.Rendered())
}

func TestOnChange(t *testing.T) {
	r := New(creds)
	var seen [][2]View
	r.OnChange(func(from, to View) { seen = append(seen, [2]View{from, to}) })

	r.Navigate(ViewCart)
	r.Navigate(ViewCart)
	r.Navigate(ViewHome)

	assert.Equal(t, [][2]View{{ViewHome, ViewCart}, {ViewCart, ViewHome}}, seen)
}

func TestOnChangeFollowsRenderedView(t *testing.T) {
	r := New(creds)
	var seen [][2]View
	r.OnChange(func(from, to View) { seen = append(seen, [2]View{from, to}) })

	r.Navigate(ViewAdmin)
	require.NoError(t, r.Login("merida13", "darwin13"))
	r.Logout()

	assert.Equal(t, [][2]View{{ViewHome, ViewLogin}, {ViewLogin, ViewAdmin}, {ViewAdmin, ViewHome}}, seen)
}

func TestParseView(t *testing.T) {
	for _, v := range []View{ViewHome, ViewCart, ViewLogin, ViewAdmin} {
		got, ok := ParseView(v.String())
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
	_, ok := ParseView("settings")
	assert.False(t, ok)
}

func TestStateJSON(t *testing.T) {
	r := New(creds)
	r.Navigate(ViewAdmin)

	data, err := json.Marshal(r.State())
	require.NoError(t, err)
	assert.JSONEq(t, `{"view":"admin","rendered":"login","authenticated":false}`, string(data))
}
