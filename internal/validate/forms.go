package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"farmmarket/console/internal/models"
)

type ProductForm struct {
	Name        string
	Description string
	Price       string
	Quantity    string
	Location    string
}

// Product checks the product create/edit form and returns the request body
// when it is valid.
func Product(form ProductForm) (models.ProductInput, Errors) {
	errs := Errors{}
	input := models.ProductInput{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Location:    strings.TrimSpace(form.Location),
	}

	if input.Name == "" {
		errs.add("name", "Product name is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil || price.IsNegative() {
		errs.add("price", "Valid price is required")
	} else {
		input.Price = price
	}

	qty, err := strconv.Atoi(strings.TrimSpace(form.Quantity))
	if err != nil || qty < 0 {
		errs.add("quantity", "Valid quantity is required")
	} else {
		input.Quantity = qty
	}

	if input.Location == "" {
		errs.add("location", "Location is required")
	}
	return input, errs
}

type RegistrationForm struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Registration only checks presence and role; the backend owns format and
// uniqueness checks.
func Registration(form RegistrationForm) (models.RegisterRequest, Errors) {
	errs := Errors{}
	req := models.RegisterRequest{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	}

	if req.Name == "" {
		errs.add("name", "Name is required")
	}
	if req.Email == "" {
		errs.add("email", "Email is required")
	}
	if req.Password == "" {
		errs.add("password", "Password is required")
	}
	role, ok := models.ParseRole(form.Role)
	if !ok {
		errs.add("role", "Role must be BUYER, FARMER or ADMIN")
	} else {
		req.Role = role
	}
	return req, errs
}

func Login(email, password string) (models.LoginRequest, Errors) {
	errs := Errors{}
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if req.Email == "" {
		errs.add("email", "Email is required")
	}
	if req.Password == "" {
		errs.add("password", "Password is required")
	}
	return req, errs
}

// OrderQuantity checks a requested order quantity against what the product
// currently has on hand.
func OrderQuantity(q, available int) Errors {
	errs := Errors{}
	switch {
	case q < 1:
		errs.add("quantity", "Quantity must be at least 1")
	case q > available:
		errs.add("quantity", fmt.Sprintf("Only %d units available", available))
	}
	return errs
}

func InventoryQuantity(q int) Errors {
	errs := Errors{}
	if q < 0 {
		errs.add("quantity", "Quantity cannot be negative")
	}
	return errs
}
