package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicepop/storefront/internal/models"
)

func TestBasicAuthRoundTrip(t *testing.T) {
	header := BasicAuthHeader("admin", "p:ss")
	assert.Equal(t, "Basic YWRtaW46cDpzcw==", header)

	user, pass, ok := ParseBasicAuth(header)
	require.True(t, ok)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "p:ss", pass)

	_, _, ok = ParseBasicAuth("Basic not-base64!!")
	assert.False(t, ok)
	_, _, ok = ParseBasicAuth("Bearer abc")
	assert.False(t, ok)
}

func TestParseBearer(t *testing.T) {
	token, ok := ParseBearer("Bearer abc.def")
	require.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = ParseBearer("Bearer ")
	assert.False(t, ok)
}

func TestJWT(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(7, "admin", true, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.IsAdmin)

	expired, err := GenerateJWT(7, "admin", true, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	SetJWTSecret("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateStruct_ProductRequest(t *testing.T) {
	price := models.MustMoney("12.50")
	valid := models.CreateProductRequest{Name: "Cumin", Slug: "cumin-seeds", Description: "d", Price: &price}
	assert.NoError(t, ValidateStruct(valid))

	missingPrice := valid
	missingPrice.Price = nil
	assert.Error(t, ValidateStruct(missingPrice))

	negative := models.MustMoney("-1")
	badPrice := valid
	badPrice.Price = &negative
	err := ValidateStruct(badPrice)
	require.Error(t, err)
	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "price", errs[0].Field)
	assert.Equal(t, "money", errs[0].Tag)

	badSlug := valid
	badSlug.Slug = "Not A Slug"
	err = ValidateStruct(badSlug)
	require.Error(t, err)
	assert.Equal(t, "slug", GetValidationErrors(err)[0].Tag)
}

func TestValidateStruct_OrderStatus(t *testing.T) {
	for _, status := range models.OrderStatuses {
		assert.NoError(t, ValidateStruct(models.UpdateOrderStatusRequest{Status: status}))
	}
	assert.Error(t, ValidateStruct(models.UpdateOrderStatusRequest{Status: "cancelled"}))
	assert.Error(t, ValidateStruct(models.UpdateOrderStatusRequest{}))
}

func TestValidateStruct_OrderRequestDivesIntoItems(t *testing.T) {
	req := models.CreateOrderRequest{
		CustomerDetails: models.CustomerDetails{
			CustomerName:    "Asha",
			CustomerEmail:   "asha@example.com",
			CustomerPhone:   "9876543210",
			ShippingAddress: "12 Spice Road",
		},
		Items: []models.OrderItem{{ProductID: 1, Name: "Turmeric", Price: models.MustMoney("199"), Quantity: 0}},
	}

	err := ValidateStruct(req)
	require.Error(t, err)
	assert.Equal(t, "quantity", GetValidationErrors(err)[0].Field)

	req.Items[0].Quantity = 2
	assert.NoError(t, ValidateStruct(req))
}

func TestETagStable(t *testing.T) {
	assert.Equal(t, ETag([]byte("[]")), ETag([]byte("[]")))
	assert.NotEqual(t, ETag([]byte("[]")), ETag([]byte("[1]")))
}
