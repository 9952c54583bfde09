package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmarket/console/internal/models"
)

func validProduct() ProductForm {
	return ProductForm{
		Name:        " Heirloom Tomatoes ",
		Description: "Mixed colours",
		Price:       "4.50",
		Quantity:    "30",
		Location:    "Ridge Farm",
	}
}

func TestProductValid(t *testing.T) {
	input, errs := Product(validProduct())
	require.NoError(t, errs.Err())

	assert.Equal(t, "Heirloom Tomatoes", input.Name)
	assert.True(t, decimal.RequireFromString("4.5").Equal(input.Price))
	assert.Equal(t, 30, input.Quantity)
	assert.Equal(t, "Ridge Farm", input.Location)
}

func TestProductFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductForm)
		field  string
		msg    string
	}{
		{"blank name", func(f *ProductForm) { f.Name = "  " }, "name", "Product name is required"},
		{"negative price", func(f *ProductForm) { f.Price = "-1" }, "price", "Valid price is required"},
		{"price not a number", func(f *ProductForm) { f.Price = "cheap" }, "price", "Valid price is required"},
		{"empty price", func(f *ProductForm) { f.Price = "" }, "price", "Valid price is required"},
		{"fractional quantity", func(f *ProductForm) { f.Quantity = "2.5" }, "quantity", "Valid quantity is required"},
		{"negative quantity", func(f *ProductForm) { f.Quantity = "-4" }, "quantity", "Valid quantity is required"},
		{"blank location", func(f *ProductForm) { f.Location = "" }, "location", "Location is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validProduct()
			tt.mutate(&form)

			_, errs := Product(form)
			assert.Equal(t, Errors{tt.field: tt.msg}, errs)
			assert.ErrorIs(t, errs.Err(), ErrInvalid)
		})
	}
}

func TestProductZeroPriceAndQuantityAllowed(t *testing.T) {
	form := validProduct()
	form.Price = "0"
	form.Quantity = "0"

	_, errs := Product(form)
	assert.Empty(t, errs)
}

func TestErrReportsFirstFieldInFormOrder(t *testing.T) {
	_, errs := Product(ProductForm{Price: "-1"})
	require.Len(t, errs, 4)
	assert.Contains(t, errs.Err().Error(), "name: Product name is required")

	errs = Errors{"location": "Location is required", "price": "Valid price is required"}
	assert.Contains(t, errs.Err().Error(), "price")
}

func TestRegistration(t *testing.T) {
	req, errs := Registration(RegistrationForm{Name: "Ann", Email: "ann@farm.test", Password: "pw", Role: "farmer"})
	require.Empty(t, errs)
	assert.Equal(t, models.RoleFarmer, req.Role)

	_, errs = Registration(RegistrationForm{Role: "GUEST"})
	assert.Equal(t, Errors{
		"name":     "Name is required",
		"email":    "Email is required",
		"password": "Password is required",
		"role":     "Role must be BUYER, FARMER or ADMIN",
	}, errs)
}

func TestLogin(t *testing.T) {
	_, errs := Login("buyer@farm.test", "secret")
	assert.Empty(t, errs)

	_, errs = Login(" ", "")
	assert.Len(t, errs, 2)
}

func TestOrderQuantity(t *testing.T) {
	assert.Empty(t, OrderQuantity(3, 3))
	assert.Equal(t, "Quantity must be at least 1", OrderQuantity(0, 10)["quantity"])
	assert.Equal(t, "Only 2 units available", OrderQuantity(5, 2)["quantity"])
}

func TestInventoryQuantity(t *testing.T) {
	assert.Empty(t, InventoryQuantity(0))
	assert.Equal(t, "Quantity cannot be negative", InventoryQuantity(-1)["quantity"])
}

func TestFormStateSubmitReplacesServerErrors(t *testing.T) {
	var form FormState
	form.SetServer(map[string]string{"email": "Email already registered"})
	assert.Equal(t, "Email already registered", form.Field("email"))

	_, local := Product(ProductForm{Name: "Kale", Price: "-1", Quantity: "1", Location: "Field 3"})
	assert.False(t, form.Submit(local))
	assert.Empty(t, form.Field("email"))
	assert.Equal(t, "Valid price is required", form.Field("price"))

	form.Edit("price")
	assert.Empty(t, form.Errors())

	assert.True(t, form.Submit(Errors{}))
}

func TestFieldErrorCarriesAllFields(t *testing.T) {
	_, errs := Registration(RegistrationForm{Name: "Ann", Role: "BUYER"})
	err := errs.Err()

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "email", fe.Field)
	assert.Equal(t, "Email is required", fe.Message)
	assert.Equal(t, errs, FieldsOf(err))
	assert.Nil(t, FieldsOf(ErrInvalid))
}
