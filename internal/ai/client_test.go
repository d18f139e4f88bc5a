package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/talkincode/storefront/internal/domain"
)

type captured struct {
	query string
	body  string
}

func newServer(t *testing.T, status int, reply string, got *captured) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if got != nil {
			data, _ := io.ReadAll(r.Body)
			got.body = string(data)
			got.query = r.URL.RawQuery
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return New(Config{Endpoint: srv.URL + "/v1beta/models/m:generateContent", APIKey: "k e y", Timeout: 5 * time.Second})
}

func answer(text string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"content": map[string]interface{}{"parts": []interface{}{map[string]interface{}{"text": text}}}},
		},
	})
	return string(b)
}

func TestGenerateText(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, answer("  Jugosa y deliciosa.\n"), &got)

	text, err := c.GenerateText(context.Background(), "describe")
	require.NoError(t, err)
	assert.Equal(t, "Jugosa y deliciosa.", text)

	assert.Equal(t, "key=k+e+y", got.query)
	assert.Equal(t, "user", gjson.Get(got.body, "contents.0.role").String())
	assert.Equal(t, "describe", gjson.Get(got.body, "contents.0.parts.0.text").String())
	assert.False(t, gjson.Get(got.body, "generationConfig").Exists())
}

type promo struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

var promoSchema = Object(map[string]*Schema{
	"title": Field(TypeString, "title"),
	"price": Field(TypeNumber, "price"),
}, "title", "price")

func TestGenerateStructured(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, answer(`{"title":"2x1","price":9.5}`), &got)

	var out promo
	require.NoError(t, c.GenerateStructured(context.Background(), "promo", promoSchema, &out))
	assert.Equal(t, promo{Title: "2x1", Price: 9.5}, out)

	assert.Equal(t, "application/json", gjson.Get(got.body, "generationConfig.responseMimeType").String())
	assert.Equal(t, "OBJECT", gjson.Get(got.body, "generationConfig.responseSchema.type").String())
	assert.Equal(t, "NUMBER", gjson.Get(got.body, "generationConfig.responseSchema.properties.price.type").String())
	assert.Equal(t, `["title","price"]`, gjson.Get(got.body, "generationConfig.responseSchema.required").Raw)
}

func TestGenerateStructuredMalformed(t *testing.T) {
	c := newServer(t, http.StatusOK, answer("Aquí tienes una promoción genial"), nil)

	out := promo{Title: "unchanged"}
	err := c.GenerateStructured(context.Background(), "promo", promoSchema, &out)
	assert.ErrorIs(t, err, domain.ErrAIResponseMalformed)
	assert.Equal(t, promo{Title: "unchanged"}, out)
}

func TestGenerateStructuredMissingField(t *testing.T) {
	c := newServer(t, http.StatusOK, answer(`{"title":"2x1"}`), nil)

	out := promo{Title: "unchanged"}
	err := c.GenerateStructured(context.Background(), "promo", promoSchema, &out)
	assert.ErrorIs(t, err, domain.ErrAIResponseMalformed)
	assert.Equal(t, "unchanged", out.Title)
}

func TestGenerateEmptyResponse(t *testing.T) {
	for _, reply := range []string{`{"candidates":[]}`, `{}`, answer("   ")} {
		c := newServer(t, http.StatusOK, reply, nil)
		_, err := c.GenerateText(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrAIEmptyResponse, reply)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	c := newServer(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid"}}`, nil)

	_, err := c.GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrAITransport)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c := New(Config{Endpoint: endpoint})
	_, err := c.GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrAITransport)
}

func TestGenerateNotJSONBody(t *testing.T) {
	c := newServer(t, http.StatusOK, "<html>", nil)
	_, err := c.GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrAIResponseMalformed)
}

func TestRequestURLKeepsExistingQuery(t *testing.T) {
	c := New(Config{Endpoint: "https://example.test/gen?alt=json", APIKey: "abc"})
	assert.Equal(t, "https://example.test/gen?alt=json&key=abc", c.requestURL())
}
