package ai

import (
	"errors"
	"testing"
	"time"
)

func TestParseReceiptJSON_Plain(t *testing.T) {
	raw := `{"amount": 42.50, "date": "2024-03-05", "description": "weekly shop", "category": "groceries", "merchantName": "Tesco"}`

	data, err := parseReceiptJSON(raw)
	if err != nil {
		t.Fatalf("parseReceiptJSON() error = %v, want nil", err)
	}
	if data.AmountCent != 4250 {
		t.Errorf("AmountCent = %d, want 4250", data.AmountCent)
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !data.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", data.Date, want)
	}
	if data.Description != "weekly shop" || data.Category != "groceries" || data.MerchantName != "Tesco" {
		t.Errorf("unexpected fields: %+v", data)
	}
}

func TestParseReceiptJSON_Fenced(t *testing.T) {
	raw := "```json\n{\"amount\": \"12.00\", \"date\": \"2024-01-02\", \"description\": \"coffee\", \"category\": \"food\", \"merchantName\": \"Costa\"}\n```"

	data, err := parseReceiptJSON(raw)
	if err != nil {
		t.Fatalf("parseReceiptJSON() error = %v, want nil", err)
	}
	if data.AmountCent != 1200 {
		t.Errorf("AmountCent = %d, want 1200", data.AmountCent)
	}
}

func TestParseReceiptJSON_JunkAroundObject(t *testing.T) {
	raw := "Here is the extracted data:\n{\"amount\": 5, \"date\": \"2024-01-02\", \"description\": \"\", \"category\": \"other-expense\", \"merchantName\": \"\"}\nLet me know if you need anything else."

	data, err := parseReceiptJSON(raw)
	if err != nil {
		t.Fatalf("parseReceiptJSON() error = %v, want nil", err)
	}
	if data.AmountCent != 500 {
		t.Errorf("AmountCent = %d, want 500", data.AmountCent)
	}
}

func TestParseReceiptJSON_RoundsAmount(t *testing.T) {
	raw := `{"amount": 42.999, "date": "2024-01-02", "description": "", "category": "food", "merchantName": ""}`

	data, err := parseReceiptJSON(raw)
	if err != nil {
		t.Fatalf("parseReceiptJSON() error = %v, want nil", err)
	}
	if data.AmountCent != 4300 {
		t.Errorf("AmountCent = %d, want 4300", data.AmountCent)
	}
}

func TestParseReceiptJSON_Invalid(t *testing.T) {
	cases := []string{
		"",
		"sorry, I cannot read this image",
		`{"amount": "n/a", "date": "2024-01-02"}`,
		"```json\nnot json\n```",
	}

	for _, raw := range cases {
		if _, err := parseReceiptJSON(raw); !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("parseReceiptJSON(%q) error = %v, want ErrInvalidResponse", raw, err)
		}
	}
}

func TestParseReceiptJSON_UnparseableDateLeftZero(t *testing.T) {
	raw := `{"amount": 10, "date": "last tuesday", "description": "", "category": "food", "merchantName": ""}`

	data, err := parseReceiptJSON(raw)
	if err != nil {
		t.Fatalf("parseReceiptJSON() error = %v, want nil", err)
	}
	// fields are advisory; a bad date is left for the user to fill in
	if !data.Date.IsZero() {
		t.Errorf("Date = %v, want zero", data.Date)
	}
}
