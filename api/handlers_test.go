package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshop/shopbot/catalog"
)

// --- Mocks ---

type mockStore struct {
	brands     []catalog.Brand
	categories []catalog.Category
	products   []catalog.Product
	created    *catalog.NewProduct
	err        error
}

func (m *mockStore) Brands(context.Context) ([]catalog.Brand, error) {
	return m.brands, m.err
}

func (m *mockStore) CategoriesByBrand(context.Context, int64) ([]catalog.Category, error) {
	return m.categories, m.err
}

func (m *mockStore) ProductsByCategory(context.Context, int64) ([]catalog.Product, error) {
	return m.products, m.err
}

func (m *mockStore) CreateProduct(_ context.Context, np catalog.NewProduct) (catalog.Product, error) {
	m.created = &np
	if m.err != nil {
		return catalog.Product{}, m.err
	}
	return catalog.Product{
		ID:          42,
		Name:        np.Name,
		Price:       np.Price,
		Description: np.Description,
		PhotoURL:    np.PhotoURL,
		CategoryID:  np.CategoryID,
	}, nil
}

type mockPhotos struct {
	saved   []string
	removed []string
	saveErr error
}

func (m *mockPhotos) Save(_ io.Reader, name string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	url := "/static/" + name
	m.saved = append(m.saved, url)
	return url, nil
}

func (m *mockPhotos) Remove(photoURL string) error {
	m.removed = append(m.removed, photoURL)
	return nil
}

func (m *mockPhotos) Dir() string       { return "./testdata" }
func (m *mockPhotos) URLPrefix() string { return "/static" }

func newTestServer(store *mockStore, photos *mockPhotos) *Server {
	if photos == nil {
		photos = &mockPhotos{}
	}
	return NewServer(store, photos)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// --- Read endpoints ---

func TestGetBrands(t *testing.T) {
	t.Run("returns brands ordered by the store", func(t *testing.T) {
		store := &mockStore{brands: []catalog.Brand{
			{ID: 1, Name: "Acme"},
			{ID: 2, Name: "Zenith"},
		}}
		srv := newTestServer(store, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/brands", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []catalog.Brand
		decodeJSON(t, resp, &got)
		require.Len(t, got, 2)
		assert.Equal(t, "Acme", got[0].Name)
	})

	t.Run("empty catalog yields an empty array", func(t *testing.T) {
		srv := newTestServer(&mockStore{}, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/brands", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(body))
	})

	t.Run("store failure yields an opaque 500", func(t *testing.T) {
		srv := newTestServer(&mockStore{err: errors.New("db down")}, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/brands", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var got map[string]string
		decodeJSON(t, resp, &got)
		assert.Equal(t, "internal server error", got["error"])
	})
}

func TestGetCategories(t *testing.T) {
	t.Run("returns the brand's categories", func(t *testing.T) {
		store := &mockStore{categories: []catalog.Category{
			{ID: 5, Name: "Shoes", BrandID: 1},
		}}
		srv := newTestServer(store, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/categories/1", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []catalog.Category
		decodeJSON(t, resp, &got)
		require.Len(t, got, 1)
		assert.Equal(t, int64(5), got[0].ID)
	})

	t.Run("malformed brand id yields 400", func(t *testing.T) {
		srv := newTestServer(&mockStore{}, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/categories/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var got map[string]string
		decodeJSON(t, resp, &got)
		assert.Equal(t, "invalid brand_id", got["error"])
	})

	t.Run("unknown brand yields an empty array", func(t *testing.T) {
		srv := newTestServer(&mockStore{}, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/categories/999", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(body))
	})
}

func TestGetProducts(t *testing.T) {
	t.Run("returns the category's products", func(t *testing.T) {
		desc := "Classic"
		store := &mockStore{products: []catalog.Product{
			{ID: 7, Name: "Loafer", Price: decimal.RequireFromString("199.99"), Description: &desc, CategoryID: 5},
		}}
		srv := newTestServer(store, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/products/5", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []catalog.Product
		decodeJSON(t, resp, &got)
		require.Len(t, got, 1)
		assert.Equal(t, "Loafer", got[0].Name)
		assert.True(t, got[0].Price.Equal(decimal.RequireFromString("199.99")))
	})

	t.Run("malformed category id yields 400", func(t *testing.T) {
		srv := newTestServer(&mockStore{}, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/products/x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

// --- Upload endpoint ---

func multipartProduct(t *testing.T, fields map[string]string, withPhoto bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withPhoto {
		fw, err := w.CreateFormFile("photo", "loafer.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("not really a png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadProduct(t *testing.T) {
	fields := map[string]string{
		"category_id": "5",
		"name":        "Loafer",
		"price":       "199.99",
		"description": "Classic",
	}

	t.Run("creates the product and stores the photo", func(t *testing.T) {
		store := &mockStore{}
		photos := &mockPhotos{}
		srv := newTestServer(store, photos)

		body, contentType := multipartProduct(t, fields, true)
		req := httptest.NewRequest("POST", "/api/admin/products", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := srv.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		require.NotNil(t, store.created)
		assert.Equal(t, "Loafer", store.created.Name)
		assert.Equal(t, int64(5), store.created.CategoryID)
		require.NotNil(t, store.created.PhotoURL)
		require.Len(t, photos.saved, 1)
		assert.Equal(t, photos.saved[0], *store.created.PhotoURL)

		var got catalog.Product
		decodeJSON(t, resp, &got)
		assert.Equal(t, int64(42), got.ID)
	})

	t.Run("missing photo yields 400", func(t *testing.T) {
		srv := newTestServer(&mockStore{}, nil)

		body, contentType := multipartProduct(t, fields, false)
		req := httptest.NewRequest("POST", "/api/admin/products", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := srv.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-positive price yields 400", func(t *testing.T) {
		bad := map[string]string{"category_id": "5", "name": "Loafer", "price": "0"}
		srv := newTestServer(&mockStore{}, nil)

		body, contentType := multipartProduct(t, bad, true)
		req := httptest.NewRequest("POST", "/api/admin/products", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := srv.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("insert failure removes the stored photo", func(t *testing.T) {
		store := &mockStore{err: errors.New("fk violation")}
		photos := &mockPhotos{}
		srv := newTestServer(store, photos)

		body, contentType := multipartProduct(t, fields, true)
		req := httptest.NewRequest("POST", "/api/admin/products", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := srv.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Len(t, photos.removed, 1)
		assert.Equal(t, photos.saved[0], photos.removed[0])
	})
}
