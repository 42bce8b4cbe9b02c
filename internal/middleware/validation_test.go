package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItemRequest struct {
	Title  *string  `json:"title" validate:"required,min=1"`
	Price  *float64 `json:"price" validate:"required,gte=0"`
	Stock  *int     `json:"stock" validate:"required,gte=0"`
	Images []string `json:"images" validate:"required,dive,required"`
	Note   *string  `json:"note" validate:"omitnil,min=1"`
}

var testItemSchema = Schema{
	"title":  KindString,
	"price":  KindNumber,
	"stock":  KindInteger,
	"images": KindStringArray,
	"note":   KindString,
}

func decodeBody(t *testing.T, body string) error {
	t.Helper()

	req := httptest.NewRequest("POST", "/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var item testItemRequest
	return DecodeAndValidate(req, testItemSchema, &item)
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	return verrs.Fields()
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every missing required field is reported", prop.ForAll(
		func(hasTitle, hasPrice, hasStock, hasImages bool) bool {
			reqMap := map[string]interface{}{}
			missing := map[string]bool{}

			if hasTitle {
				reqMap["title"] = "Mesa"
			} else {
				missing["title"] = true
			}
			if hasPrice {
				reqMap["price"] = 12.5
			} else {
				missing["price"] = true
			}
			if hasStock {
				reqMap["stock"] = 3
			} else {
				missing["stock"] = true
			}
			if hasImages {
				reqMap["images"] = []string{"a.png"}
			} else {
				missing["images"] = true
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/items", bytes.NewReader(reqBody))

			var item testItemRequest
			err := DecodeAndValidate(req, testItemSchema, &item)

			if len(missing) == 0 {
				return err == nil
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) || len(verrs) != len(missing) {
				return false
			}
			for _, f := range verrs.Fields() {
				if !missing[f] {
					return false
				}
			}
			return true
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_WrongKindsAreReportedOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a field with the wrong kind gets exactly one entry", prop.ForAll(
		func(title string) bool {
			body := `{"title": 42, "price": "` + title + `", "stock": 1, "images": ["x"]}`

			req := httptest.NewRequest("POST", "/items", strings.NewReader(body))
			var item testItemRequest
			err := DecodeAndValidate(req, testItemSchema, &item)

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				return false
			}

			fields := verrs.Fields()
			return len(fields) == 2 && fields[0] == "price" && fields[1] == "title"
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_Kinds(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "valid", body: `{"title":"a","price":1,"stock":2,"images":[]}`},
		{name: "integer written as decimal", body: `{"title":"a","price":1,"stock":2.0,"images":[]}`, fields: []string{"stock"}},
		{name: "fractional integer", body: `{"title":"a","price":1,"stock":2.5,"images":[]}`, fields: []string{"stock"}},
		{name: "images not strings", body: `{"title":"a","price":1,"stock":2,"images":[1,2]}`, fields: []string{"images"}},
		{name: "empty title", body: `{"title":"","price":1,"stock":2,"images":[]}`, fields: []string{"title"}},
		{name: "negative price", body: `{"title":"a","price":-1,"stock":2,"images":[]}`, fields: []string{"price"}},
		{name: "empty image path", body: `{"title":"a","price":1,"stock":2,"images":[""]}`, fields: []string{"images[0]"}},
		{name: "empty optional note", body: `{"title":"a","price":1,"stock":2,"images":[],"note":""}`, fields: []string{"note"}},
		{name: "null is treated as missing", body: `{"title":null,"price":1,"stock":2,"images":[]}`, fields: []string{"title"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := decodeBody(t, tc.body)
			if tc.fields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.fields, fieldsOf(t, err))
		})
	}
}

func TestDecodeAndValidate_InvalidBody(t *testing.T) {
	for _, body := range []string{"", "not json", "[1,2]", "null", `{"title":`} {
		assert.ErrorIs(t, decodeBody(t, body), ErrInvalidBody, body)
	}
}

func TestValidationErrors_Messages(t *testing.T) {
	err := decodeBody(t, `{"price":"free"}`)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"price", "title", "stock", "images"}, verrs.Fields())
	assert.Equal(t, "price must be a `number` type", verrs.Messages()[0])
	assert.Equal(t, "title is a required field", verrs.Messages()[1])
	assert.Contains(t, verrs.Error(), "title is a required field")
}
